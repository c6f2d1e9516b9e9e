package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/anatomy-viewer/internal/calibrate"
)

var (
	calibratePoints []string
	calibrateMM     []float64
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Derive a catalog scale factor from landmark measurements",
	Long: `Each --points value is "x1,y1,z1,x2,y2,z2": two landmarks in model
units. The matching --mm value is their real distance in millimetres.
The printed scale factor is the mean ratio over all pairs.`,
	Example: `  anatomytool calibrate --points 0,0,0,0,3.1,0 --mm 310
  anatomytool calibrate --points 0,0,0,0,3.1,0 --mm 310 --points 0,0,0,1,0,0 --mm 95`,
	Args: cobra.NoArgs,
	RunE: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().StringArrayVar(&calibratePoints, "points", nil, "Landmark pair x1,y1,z1,x2,y2,z2 (repeatable)")
	calibrateCmd.Flags().Float64SliceVar(&calibrateMM, "mm", nil, "Real distance in mm for each --points (repeatable)")
	calibrateCmd.MarkFlagRequired("points")
	calibrateCmd.MarkFlagRequired("mm")
}

func runCalibrate(cmd *cobra.Command, args []string) error {
	ms, err := measurements(calibratePoints, calibrateMM)
	if err != nil {
		return err
	}
	scale, err := calibrate.ScaleFactor(ms)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, m := range ms {
		ratio, _ := m.Ratio()
		fmt.Fprintf(out, "Pair %d: model %.6f units, real %.2f mm, ratio %.6f\n", i+1, m.ModelDistance(), m.RealDistanceMM, ratio)
	}
	fmt.Fprintf(out, "scale_factor: %.6f\n", scale)
	return nil
}

func measurements(points []string, mm []float64) ([]calibrate.Measurement, error) {
	if len(points) != len(mm) {
		return nil, fmt.Errorf("got %d --points but %d --mm values", len(points), len(mm))
	}
	ms := make([]calibrate.Measurement, 0, len(points))
	for i, p := range points {
		m, err := calibrate.ParseMeasurement(p, mm[i])
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i+1, err)
		}
		ms = append(ms, m)
	}
	return ms, nil
}
