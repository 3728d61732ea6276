package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
)

var writeBordersOutPath string

var writeBordersCmd = &cobra.Command{
	Use:   "write-borders <input-sdat>",
	Short: "Rasterize every shape outline from a serialized scan",
	Args:  cobra.ExactArgs(1),
	RunE:  runWriteBorders,
}

func init() {
	writeBordersCmd.Flags().StringVarP(&writeBordersOutPath, "output-path", "o", "borders.png", "Output raster path")
	rootCmd.AddCommand(writeBordersCmd)
}

func runWriteBorders(cmd *cobra.Command, args []string) error {
	ps, err := loadScan(args[0])
	if err != nil {
		return err
	}

	size := ps.ImageSize()
	raster := imagefile.NewImage(size.X, size.Y)
	ps.RenderBorders(raster)

	if err := imagefile.Save(writeBordersOutPath, raster); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", writeBordersOutPath)
	return nil
}
