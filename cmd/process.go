package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
	"github.com/cwbudde/pixelscan/internal/scan"
)

var (
	processOutPath    string
	processShapePath  string
	processBorderPath string
)

var processCmd = &cobra.Command{
	Use:   "process <input-image> <threshold>",
	Short: "Vectorize an image end-to-end into an SVG",
	Long: `Runs the full pipeline: segmentation, color averaging, outline
tracing and SVG emission. Optional flags write the intermediate shape
and border rasters.`,
	Args: cobra.ExactArgs(2),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processOutPath, "output-path", "o", "output.svg", "Output SVG path")
	processCmd.Flags().StringVar(&processShapePath, "shape-path", "", "Also write the filled-region raster to this path")
	processCmd.Flags().StringVar(&processBorderPath, "border-path", "", "Also write the border raster to this path")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
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
	ps.AverageColors()
	ps.CalculateBorders()

	if processShapePath != "" {
		size := ps.ImageSize()
		raster := imagefile.NewImage(size.X, size.Y)
		ps.RenderShapes(raster)
		if err := imagefile.Save(processShapePath, raster); err != nil {
			return err
		}
	}
	if processBorderPath != "" {
		size := ps.ImageSize()
		raster := imagefile.NewImage(size.X, size.Y)
		ps.RenderBorders(raster)
		if err := imagefile.Save(processBorderPath, raster); err != nil {
			return err
		}
	}

	if err := saveSVG(processOutPath, ps); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d shapes)\n", processOutPath, len(ps.Shapes()))
	return nil
}
