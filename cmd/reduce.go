package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cwbudde/pixelscan/internal/errs"
	"github.com/cwbudde/pixelscan/internal/imagefile"
	"github.com/cwbudde/pixelscan/internal/reduce"
)

var (
	reduceOutPath    string
	reduceSimilarity float64
)

var reduceCmd = &cobra.Command{
	Use:   "reduce <input-image> <reach> <threshold>",
	Short: "Smooth an image with the neighborhood popularity vote",
	Long: `Replaces each pixel with the original pixel at its most popular
similarly-averaged neighbor within the reach window. Useful as a
pre-pass before scanning noisy images.`,
	Args: cobra.ExactArgs(3),
	RunE: runReduce,
}

func init() {
	reduceCmd.Flags().StringVarP(&reduceOutPath, "output-path", "o", "reduced.png", "Output image path")
	reduceCmd.Flags().Float64Var(&reduceSimilarity, "similarity", reduce.DefaultSimilarity, "Average-similarity threshold")
	rootCmd.AddCommand(reduceCmd)
}

func runReduce(cmd *cobra.Command, args []string) error {
	reach, err := strconv.Atoi(args[1])
	if err != nil || reach < 0 {
		return errs.Newf(errs.InvalidArgument, "unreadable reach %q", args[1])
	}

	threshold, err := parseThreshold(args[2])
	if err != nil {
		return err
	}

	img, err := imagefile.Load(args[0])
	if err != nil {
		return err
	}

	reducer := reduce.New(reach, threshold, float32(reduceSimilarity))
	reduced := reducer.Reduce(img)

	if err := imagefile.Save(reduceOutPath, reduced); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", reduceOutPath)
	return nil
}
