package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zostay/go-pstmail/export"
	"github.com/zostay/go-pstmail/internal/fixture"
)

var renderCmd = &cobra.Command{
	Use:   "render <fixture> <name>",
	Short: "Write one document of a fixture to standard output",
	Long: `Write one document of a fixture to standard output.

The name is the one the export command would give the document, such as
Inbox/0001.eml.`,
	Args: cobra.ExactArgs(2),
	RunE: RunRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

// pickSink passes one named document through to w and discards the rest.
type pickSink struct {
	name  string
	w     io.Writer
	found bool
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func (p *pickSink) Create(e export.Entry) (io.WriteCloser, error) {
	if e.Name != p.name {
		return nopCloser{io.Discard}, nil
	}
	p.found = true
	return nopCloser{p.w}, nil
}

func (p *pickSink) Progress(export.Progress) error {
	return nil
}

func RunRender(cmd *cobra.Command, args []string) error {
	fx, err := fixture.LoadFile(args[0])
	if err != nil {
		return err
	}

	sink := &pickSink{name: args[1], w: cmd.OutOrStdout()}
	if err := newExporter(fx).Export(fx.Root, sink); err != nil {
		return err
	}

	if !sink.found {
		return fmt.Errorf("no document named %q in %s", args[1], args[0])
	}
	return nil
}
