package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Faultbox/anatomy-viewer/internal/catalog"
)

var catalogFile string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List model presets",
	Long:  "List the built-in presets, overlaid with --file when given.",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "", "User catalog file")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	c, err := catalog.Load(catalogFile)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLABEL\tSCALE\tAMBIENT\tZOOM\tPAIR\tASSET")
	for _, name := range c.Names() {
		p, err := c.Lookup(name)
		if err != nil {
			return err
		}
		asset, err := catalog.AssetPath(name, p.Format)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\t%g\t%s\t%s\t%s\t%s\n",
			name, p.DisplayLabel(), p.ScaleFactor,
			orDefault(p.AmbientIntensity), orDefault(p.ZoomFactor),
			p.Pair, asset)
	}
	return tw.Flush()
}

func orDefault(v float32) string {
	if v == 0 {
		return "default"
	}
	return fmt.Sprintf("%g", v)
}
