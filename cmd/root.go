package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "pixelscan",
	Short: "Trace raster images into vector graphics",
	Long: `Pixelscan converts raster images (PNG, WebP) into SVG documents by
segmenting them into regions of similar color, tracing each region's
outline and painting the shapes back-to-front.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env provides defaults; flags win.
		godotenv.Load()

		if !cmd.Flags().Changed("log-level") {
			if env := os.Getenv("PIXELSCAN_LOG_LEVEL"); env != "" {
				logLevel = env
			}
		}

		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stderr, opts)
		slog.SetDefault(slog.New(handler))
	},
}

// legacyFlagNames maps the short spellings accepted by earlier
// releases onto the canonical flag names.
var legacyFlagNames = map[string]string{
	"out": "output-path",
	"nb":  "no-borders",
	"sb":  "shape-path",
}

func normalizeFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if canonical, ok := legacyFlagNames[name]; ok {
		name = canonical
	}
	return pflag.NormalizedName(name)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
