package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fur0rem/streamgraph/pkg/config"
	"github.com/fur0rem/streamgraph/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string
	logger     utils.Logger
	cfg        *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "streamgraph",
	Short: "Build and query stream graphs",
	Long: `streamgraph loads a stream graph document into an in-memory
immutable graph and lets you query it: node and link sets, presence at
a given time, presence intervals, and neighbour lookups.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (defaults to ./config.yaml if present)")

	binName := BinName()
	rootCmd.Example = `  # Load a stream graph document and print a summary
  ` + binName + ` load ./graph.sga

  # List all node ids
  ` + binName + ` query ./graph.sga nodes

  # List nodes present at time 42, as JSON
  ` + binName + ` query ./graph.sga nodes-at 42 --json`
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	return cfg
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}
