package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/robert-malhotra/go-uvh5/uvdata"
	"github.com/robert-malhotra/go-uvh5/uvh5"
)

var enuCmd = &cobra.Command{
	Use:   "enu <file>",
	Short: "Print antenna positions in the telescope's East-North-Up frame",
	Args:  cobra.ExactArgs(1),
	RunE:  runENU,
}

func init() {
	rootCmd.AddCommand(enuCmd)
}

func runENU(cmd *cobra.Command, args []string) error {
	_, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	d, err := uvh5.ReadFile(args[0], uvh5.WithData(false), uvh5.WithLogger(logger))
	if err != nil {
		return err
	}
	return printENU(cmd.OutOrStdout(), d)
}

func printENU(w io.Writer, d *uvdata.Float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "number\tname\teast (m)\tnorth (m)\tup (m)\t")
	for i, p := range d.AntennaPositionsENU() {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%.3f\t\n",
			d.Arrays.AntennaNumbers[i], d.Arrays.AntennaNames[i], p[0], p[1], p[2])
	}
	return tw.Flush()
}
