package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
)

var writeShapesOutPath string

var writeShapesCmd = &cobra.Command{
	Use:   "write-shapes <input-sdat>",
	Short: "Rasterize every filled region from a serialized scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runWriteShapes,
}

func init() {
	writeShapesCmd.Flags().StringVarP(&writeShapesOutPath, "output-path", "o", "shapes.png", "Output raster path")
	rootCmd.AddCommand(writeShapesCmd)
}

func runWriteShapes(cmd *cobra.Command, args []string) error {
	ps, err := loadScan(args[0])
	if err != nil {
		return err
	}

	size := ps.ImageSize()
	raster := imagefile.NewImage(size.X, size.Y)
	ps.RenderShapes(raster)

	if err := imagefile.Save(writeShapesOutPath, raster); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", writeShapesOutPath)
	return nil
}
