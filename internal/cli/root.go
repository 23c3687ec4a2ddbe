package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mpm/prefill/internal/config"
	"github.com/mpm/prefill/internal/logger"
)

var (
	version = "dev"
	cfgFile string
	dataDir string
	verbose bool
	rootCmd *cobra.Command

	appConfig *config.Config
	appLog    = logger.NewNop()
)

func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd = NewRootCmd()
}

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefill",
		Short: "Prefilled GitHub issue links",
		Long: `prefill builds "New Issue" links for GitHub repositories with the title,
body, labels, assignee, milestone, projects and template already filled in.

Links can be built from flags or from YAML drafts, and every generated link
is kept in a local history.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			level := cfg.Logging.Level
			if verbose {
				level = "debug"
			}
			log, err := logger.New(
				logger.WithLevel(level),
				logger.WithFormat(cfg.Logging.Format),
				logger.WithOutput(cmd.ErrOrStderr()),
			)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			appConfig = cfg
			appLog = log
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.prefill/config.yaml)")
	cmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: $HOME/.prefill)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newURLCmd())
	cmd.AddCommand(newDraftCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Warning: could not find home directory:", err)
			return nil
		}

		viper.AddConfigPath(home + "/.prefill")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("PREFILL")
	viper.AutomaticEnv()

	// A missing config file is fine, a broken one is not
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "prefill %s\n", version)
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := appConfig.YAML()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
