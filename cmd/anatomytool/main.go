// anatomytool inspects scene assets, calibrates scale factors and lists
// model presets.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:   "anatomytool",
	Short: "Inspect and calibrate anatomy viewer assets",
	Long: `anatomytool works with the glTF assets and preset catalog used by the
anatomy viewer: it reports the framing the viewer would compute for an
asset, derives scale factors from landmark measurements and lists the
configured presets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if debug {
			level = "debug"
		}
		return logger.Init(level, "")
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
}

func main() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
