package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/imagefile"
)

var writeBorderOutPath string

var writeBorderCmd = &cobra.Command{
	Use:   "write-border <input-sdat> <index>",
	Short: "Rasterize a single shape outline from a serialized scan",
	Args:  cobra.ExactArgs(2),
	RunE:  runWriteBorder,
}

func init() {
	writeBorderCmd.Flags().StringVarP(&writeBorderOutPath, "output-path", "o", "", "Output raster path (default \"border N.png\")")
	rootCmd.AddCommand(writeBorderCmd)
}

func runWriteBorder(cmd *cobra.Command, args []string) error {
	index, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	ps, err := loadScan(args[0])
	if err != nil {
		return err
	}

	outPath := writeBorderOutPath
	if outPath == "" {
		outPath = fmt.Sprintf("border %d.png", index)
	}

	size := ps.ImageSize()
	raster := imagefile.NewImage(size.X, size.Y)
	if !ps.RenderBorder(index, raster) {
		slog.Warn("Shape index out of range, nothing written", "index", index, "shapes", len(ps.Shapes()))
		return nil
	}

	if err := imagefile.Save(outPath, raster); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", outPath)
	return nil
}
