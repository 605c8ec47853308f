package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtconv/internal/buildinfo"
	"github.com/cleared-dev/stmtconv/internal/config"
	"github.com/cleared-dev/stmtconv/internal/logging"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	verbose    bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "stmtconv",
		Short:   "Convert bank statements between MT940 text and CAMT.053 XML",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ./"+config.FileName+" when present)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "shorthand for --log-level debug")

	rootCmd.AddCommand(
		newConvertCommand(opts),
		newValidateCommand(opts),
		newServeCommand(opts),
		newInitCommand(),
	)

	return rootCmd
}

// setup loads the configuration and builds a logger writing to the
// command's stderr. Flags override the config file.
func (o *globalOptions) setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	if o.verbose {
		level = logrus.DebugLevel.String()
	}
	format := cfg.Logging.Format
	if o.logFormat != "" {
		format = o.logFormat
	}

	log, err := logging.New(level, format, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.Load(o.configPath)
	}
	if _, err := os.Stat(config.FileName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("checking %s: %w", config.FileName, err)
	}
	return config.Load(config.FileName)
}
