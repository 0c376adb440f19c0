package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/zostay/go-pstmail/message/header"
)

var headersCmd = &cobra.Command{
	Use:   "headers <file>",
	Short: "Analyze a recovered header block",
	Long: `Analyze a recovered header block.

Reports whether the block looks like a genuine transport header, which
canonical fields it carries, its Content-Type parameters, and the sender
derived from it, then prints the header as it would be reused. Use - to read
standard input.`,
	Args: cobra.ExactArgs(1),
	RunE: RunHeaders,
}

func init() {
	rootCmd.AddCommand(headersCmd)
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func RunHeaders(cmd *cobra.Command, args []string) error {
	blob, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	valid := header.Valid(string(blob))
	b := header.Analyze(string(blob))

	fmt.Fprintf(w, "valid:       %t\n", valid)
	fmt.Fprintf(w, "from:        %t\n", b.Has.From)
	fmt.Fprintf(w, "to:          %t\n", b.Has.To)
	fmt.Fprintf(w, "cc:          %t\n", b.Has.Cc)
	fmt.Fprintf(w, "subject:     %t\n", b.Has.Subject)
	fmt.Fprintf(w, "date:        %t\n", b.Has.Date)
	fmt.Fprintf(w, "message-id:  %t\n", b.Has.MessageID)
	fmt.Fprintf(w, "charset:     %s\n", b.Charset)
	fmt.Fprintf(w, "report-type: %s\n", b.ReportType)
	fmt.Fprintf(w, "sender:      %s\n", b.Sender(""))

	if b.Has.Date {
		if t, err := b.Date(); err == nil {
			fmt.Fprintf(w, "sent:        %s\n", header.FormatTime(t))
		} else {
			logger.Warn().Err(err).Msg("recovered Date does not parse")
		}
	}

	fmt.Fprintf(w, "\n%s", b.Text)
	return nil
}
