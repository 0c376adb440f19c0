package cmd

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/zostay/go-pstmail/internal/config"
	"github.com/zostay/go-pstmail/internal/textenc"
	"github.com/zostay/go-pstmail/message"
)

var (
	rootCmd = &cobra.Command{
		Use:               "pstdoc",
		Short:             "Rebuild mail, contact, and calendar documents from mailbox items",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}

	configPath string
	cfg        *config.Config
	logger     = zerolog.Nop()
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "configuration file")
}

// setup loads the configuration and prepares the process-wide state every
// command shares.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	lvl, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        cmd.ErrOrStderr(),
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()

	if cfg.Charset.Default != "" {
		textenc.FallbackCharset = cfg.Charset.Default
	}

	if cfg.Boundary.Seed != 0 {
		message.SeedBoundaries(cfg.Boundary.Seed)
	}

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

