package main

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-pstmail/cmd/pstdoc/cmd"
)

func main() {
	err := cmd.Execute()
	cobra.CheckErr(err)
}
