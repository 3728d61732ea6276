package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var parseOutPath string

var parseCmd = &cobra.Command{
	Use:   "parse <input-sdat>",
	Short: "Read a serialized scan and emit its SVG",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutPath, "output-path", "o", "output.sdat", "Output SVG path")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	ps, err := loadScan(args[0])
	if err != nil {
		return err
	}

	if err := saveSVG(parseOutPath, ps); err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d shapes)\n", parseOutPath, len(ps.Shapes()))
	return nil
}
