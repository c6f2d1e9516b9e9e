package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/internal/gltfscene"
	"github.com/Faultbox/anatomy-viewer/internal/loader"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

var inspectOpts = loader.FrameOptions{
	DesiredSize: 10,
	BaseFactor:  1,
	Zoom:        1,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [asset...]",
	Short: "Report bounds, scale and framing of scene assets",
	Long: `Parse each glTF or GLB asset and print its bounding box, part count and
the normalization and camera placement the viewer would use. Assets are
parsed in parallel; output keeps argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	f := inspectCmd.Flags()
	f.Float32Var(&inspectOpts.DesiredSize, "size", inspectOpts.DesiredSize, "Desired display size")
	f.Float32Var(&inspectOpts.BaseFactor, "scale", inspectOpts.BaseFactor, "Catalog base scale factor")
	f.Float32Var(&inspectOpts.Zoom, "zoom", inspectOpts.Zoom, "Zoom factor")
}

type inspection struct {
	path    string
	scene   *gltfscene.Scene
	framing scene.Framing
}

func runInspect(cmd *cobra.Command, args []string) error {
	results, err := inspectAll(cmd.Context(), args, inspectOpts)
	if err != nil {
		return err
	}
	for _, r := range results {
		printInspection(cmd.OutOrStdout(), r)
	}
	return nil
}

// inspectAll parses paths concurrently. The first failure cancels the
// rest.
func inspectAll(ctx context.Context, paths []string, opts loader.FrameOptions) ([]inspection, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]inspection, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := inspectFile(path, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func inspectFile(path string, opts loader.FrameOptions) (inspection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return inspection{}, err
	}
	sc, err := gltfscene.Parse(data, gltfscene.FormatOf(path))
	if err != nil {
		return inspection{}, err
	}
	f, err := loader.Frame(sc.Bounds, opts)
	if err != nil {
		return inspection{}, err
	}
	logger.Debug("inspected asset", zap.String("path", path), zap.Int("parts", len(sc.Parts)))
	return inspection{path: path, scene: sc, framing: f}, nil
}

func printInspection(w io.Writer, r inspection) {
	f := r.framing
	size := f.RawBounds.Size()

	fmt.Fprintf(w, "%s\n", r.path)
	if r.scene.Name != "" {
		fmt.Fprintf(w, "  Scene: %s\n", r.scene.Name)
	}
	fmt.Fprintf(w, "  Parts: %d\n", len(r.scene.Parts))
	fmt.Fprintf(w, "  Bounds min: (%.4f, %.4f, %.4f)\n", f.RawBounds.Min.X, f.RawBounds.Min.Y, f.RawBounds.Min.Z)
	fmt.Fprintf(w, "  Bounds max: (%.4f, %.4f, %.4f)\n", f.RawBounds.Max.X, f.RawBounds.Max.Y, f.RawBounds.Max.Z)
	fmt.Fprintf(w, "  Size: %.4f x %.4f x %.4f (max extent %.4f)\n", size.X, size.Y, size.Z, f.MaxExtent)
	fmt.Fprintf(w, "  Scale: %.6f x base %.4f = %.6f\n", f.ScaleFactor, f.BaseFactor, f.AppliedScale)
	fmt.Fprintf(w, "  Centroid: (%.4f, %.4f, %.4f)  radius %.4f\n", f.Centroid.X, f.Centroid.Y, f.Centroid.Z, f.Radius)
	fmt.Fprintf(w, "  Camera: (%.4f, %.4f, %.4f)  distance %.4f  zoom %.2f\n",
		f.CameraPosition.X, f.CameraPosition.Y, f.CameraPosition.Z, f.Distance, f.Zoom)
}
