package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zostay/go-pstmail/export"
	"github.com/zostay/go-pstmail/internal/fixture"
	"github.com/zostay/go-pstmail/message"
)

var exportCmd = &cobra.Command{
	Use:   "export <fixture>",
	Short: "Export every item of a fixture as documents",
	Long: `Export every item of a fixture as documents.

Documents are written below the --out directory, one file per item, named by
folder path and position: Inbox/0001.eml, Contacts/0001.vcard,
Calendar/0001.ics. With --form, they are streamed to standard output as a
multipart/form-data body instead, along with metadata and progress parts.`,
	Args: cobra.ExactArgs(1),
	RunE: RunExport,
}

var (
	outDir       string
	formBoundary string
	formTemplate string
)

func init() {
	exportCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write documents to")
	exportCmd.Flags().StringVar(&formBoundary, "form", "", "stream form-data with this boundary instead of writing files")
	exportCmd.Flags().StringVar(&formTemplate, "template", export.DefaultTemplate, "JSON metadata template for --form")

	rootCmd.AddCommand(exportCmd)
}

// newExporter returns an Exporter reading attachments from the fixture.
func newExporter(fx *fixture.File) *export.Exporter {
	asm := message.NewAssembler(
		message.WithLogger(logger),
		message.WithSource(fx.Source),
	)
	return export.New(
		export.WithLogger(logger),
		export.WithAssembler(asm),
	)
}

func RunExport(cmd *cobra.Command, args []string) error {
	if formBoundary == "" {
		fx, err := fixture.LoadFile(args[0])
		if err != nil {
			return err
		}
		return newExporter(fx).Export(fx.Root, &export.DirSink{Dir: outDir})
	}

	sink, err := export.NewFormSink(cmd.OutOrStdout(), formBoundary, formTemplate)
	if err != nil {
		return err
	}

	fx, err := fixture.LoadFile(args[0])
	if err == nil {
		err = newExporter(fx).Export(fx.Root, sink)
	}
	if err != nil {
		_ = sink.Fail(err)
		return err
	}

	return sink.Close()
}
