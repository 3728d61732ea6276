package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
	"github.com/cwbudde/pixelscan/internal/scan"
)

var (
	scanOutPath   string
	scanNoBorders bool
)

var scanCmd = &cobra.Command{
	Use:   "scan <input-image> <threshold>",
	Short: "Scan an image into shapes and serialize the result",
	Long: `Scans the input image into regions of similar color, traces their
outlines and writes a compressed serialized scan.`,
	Args: cobra.ExactArgs(2),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutPath, "output-path", "o", "output.sdat", "Output scan path")
	scanCmd.Flags().BoolVar(&scanNoBorders, "no-borders", false, "Skip outline tracing")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	threshold, err := parseThreshold(args[1])
	if err != nil {
		return err
	}

	img, err := imagefile.Load(args[0])
	if err != nil {
		return err
	}
	slog.Info("Loaded input image", "path", args[0], "width", img.Width(), "height", img.Height())

	ps, err := scan.New(img)
	if err != nil {
		return err
	}

	ps.ScanForShapes(threshold)
	if !scanNoBorders {
		ps.CalculateBorders()
	}
	ps.CompressShapes()

	if err := saveScan(scanOutPath, ps); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d shapes)\n", scanOutPath, len(ps.Shapes()))
	return nil
}
