package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/feanorMV/qrpatch/internal/config"
	"github.com/feanorMV/qrpatch/internal/pipeline"
)

var (
	// Global configuration loader.
	configLoader *config.Loader
	// Global configuration.
	globalConfig *config.Config
	// Configuration file path.
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "qrpatch",
	Short: "QR code extraction and replacement for PDFs and images",
	Long: `qrpatch finds QR codes in PDF and raster image documents and can
re-encode them with new payloads while preserving position and page
geometry.

Examples:
  qrpatch extract document.pdf
  qrpatch replace document.pdf --replacements reps.json -o patched.pdf
  qrpatch batch ./invoices --recursive
  qrpatch serve --port 8080`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/qrpatch, /etc/qrpatch)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Float64("detection-scale", 3.0, "raster scale used when scanning PDF pages")
	rootCmd.PersistentFlags().Float64("output-scale", 3.0, "raster scale used when re-rendering PDF pages")
	rootCmd.PersistentFlags().Int("padding", 0, "suppression padding in pixels around found markers (0 = default)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("pipeline.detection_scale", rootCmd.PersistentFlags().Lookup("detection-scale"))
	_ = viper.BindPFlag("pipeline.output_scale", rootCmd.PersistentFlags().Lookup("output-scale"))
	_ = viper.BindPFlag("pipeline.suppression_padding", rootCmd.PersistentFlags().Lookup("padding"))

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if globalConfig == nil {
			initConfig()
		}

		var logLevel slog.Level
		if globalConfig.Verbose {
			logLevel = slog.LevelDebug
		} else {
			switch globalConfig.LogLevel {
			case "debug":
				logLevel = slog.LevelDebug
			case "warn":
				logLevel = slog.LevelWarn
			case "error":
				logLevel = slog.LevelError
			default:
				logLevel = slog.LevelInfo
			}
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	configLoader = config.NewLoader()
	configLoader.SetConfigFile(cfgFile)

	var err error
	globalConfig, err = configLoader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the global configuration.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}

// buildPipeline assembles a pipeline from the effective configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	return pipeline.NewBuilder().
		WithDetectionScale(cfg.Pipeline.DetectionScale).
		WithOutputScale(cfg.Pipeline.OutputScale).
		WithSuppressionPadding(cfg.Pipeline.SuppressionPadding).
		Build()
}
