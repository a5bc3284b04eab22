package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Faultbox/folio/internal/book"
	"github.com/Faultbox/folio/internal/config"
	"github.com/Faultbox/folio/internal/logger"
)

// Environment variables read after .env is loaded.
const (
	envConfig   = "FOLIO_CONFIG"
	envLogLevel = "FOLIO_LOG_LEVEL"
)

// tool is the state shared by every subcommand.
type tool struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	t := &tool{}
	cmd := &cobra.Command{
		Use:   "foliotool",
		Short: "Inspect the Folio book simulation from the command line",
		Long: `foliotool runs the book simulation headless.

It traces how the settled page walks toward a target, prints bone angles of
a leaf at a point in time, resolves a pointer position to the leaf and
action it would hit, shows skin weights and checks that every page texture
decodes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return t.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&t.configPath, "config", "c", "", "config file (default $"+envConfig+")")
	cmd.PersistentFlags().StringVar(&t.logLevel, "log-level", "", "log level (default $"+envLogLevel+" or warn)")

	cmd.AddCommand(newTraceCmd(t))
	cmd.AddCommand(newPoseCmd(t))
	cmd.AddCommand(newHitCmd(t))
	cmd.AddCommand(newSkinCmd(t))
	cmd.AddCommand(newCheckCmd(t))

	return cmd
}

func (t *tool) setup(cmd *cobra.Command) error {
	path := t.configPath
	if path == "" {
		path = os.Getenv(envConfig)
	}
	level := t.logLevel
	if level == "" {
		level = os.Getenv(envLogLevel)
	}
	if level == "" {
		level = "warn"
	}
	if err := logger.InitWithFileConfig(level, logger.FileConfig{}, true); err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	cfg, err := config.LoadFile(path)
	if err != nil {
		return err
	}
	t.cfg = cfg
	return nil
}

// newBook builds the configured book opened at page.
func (t *tool) newBook(page int, opts ...book.Option) (*book.Book, error) {
	s := t.cfg.BookSettings()
	s.StartPage = book.ClampPage(page, len(s.Pages))
	opts = append(opts, book.WithLogger(logger.Named("book")))
	return book.New(s, opts...)
}
