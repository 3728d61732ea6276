package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
)

var writeShapeOutPath string

var writeShapeCmd = &cobra.Command{
	Use:   "write-shape <input-sdat> <index>",
	Short: "Rasterize a single filled region from a serialized scan",
	Args:  cobra.ExactArgs(2),
	RunE:  runWriteShape,
}

func init() {
	writeShapeCmd.Flags().StringVarP(&writeShapeOutPath, "output-path", "o", "", "Output raster path (default \"shape N.png\")")
	rootCmd.AddCommand(writeShapeCmd)
}

func runWriteShape(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	ps, err := loadScan(args[0])
	if err != nil {
		return err
	}

	outPath := writeShapeOutPath
	if outPath == "" {
		outPath = fmt.Sprintf("shape %d.png", index)
	}

	size := ps.ImageSize()
	raster := imagefile.NewImage(size.X, size.Y)
	if !ps.RenderShape(index, raster) {
		slog.Warn("Shape index out of range, nothing written", "index", index, "shapes", len(ps.Shapes()))
		return nil
	}

	if err := imagefile.Save(outPath, raster); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", outPath)
	return nil
}
