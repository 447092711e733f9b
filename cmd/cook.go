package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/anima-hengine/engine"
	"github.com/spaghettifunk/anima-hengine/engine/config"
	"github.com/spaghettifunk/anima-hengine/engine/content"
	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/output"
	"github.com/spaghettifunk/anima-hengine/engine/scene"
)

var cookFlags struct {
	dumps    []string
	asset    string
	parallel int
}

var cookCmd = &cobra.Command{
	Use:   "cook",
	Short: "Translate the packed characters of cook dumps into skeletal meshes",
	Long: `Cooks every dump into its own in-memory content store and prints what
was produced. Dumps are independent and are cooked concurrently when
--parallel is above 1; reports are printed in argument order.`,
	RunE: runCook,
}

func init() {
	f := cookCmd.Flags()
	f.StringSliceVarP(&cookFlags.dumps, "dump", "d", nil, "YAML cook dump, repeatable (required)")
	f.StringVar(&cookFlags.asset, "asset", "", "asset name, overriding the one in the dump")
	f.IntVarP(&cookFlags.parallel, "parallel", "p", 1, "number of dumps cooked at once")
	_ = cookCmd.MarkFlagRequired("dump")
}

// cookResult is the report of one dump.
type cookResult struct {
	report bytes.Buffer
	ok     bool
}

func runCook(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	results := make([]cookResult, len(cookFlags.dumps))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(cookFlags.parallel, 1))
	for i, path := range cookFlags.dumps {
		i, path := i, path
		g.Go(func() error {
			ok, err := cookDump(ctx, cfg, path, &results[i].report)
			results[i].ok = ok
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i := range results {
		if _, err := io.Copy(cmd.OutOrStdout(), &results[i].report); err != nil {
			return err
		}
		if !results[i].ok {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d dumps had skeletal meshes that failed to translate", failed, len(results))
	}
	return nil
}

func cookDump(ctx context.Context, cfg config.Config, path string, w io.Writer) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d, err := houdini.LoadDumpFile(path)
	if err != nil {
		return false, err
	}
	s, parts, err := d.Session()
	if err != nil {
		return false, fmt.Errorf("load dump %s: %w", path, err)
	}
	asset := d.Asset
	if cookFlags.asset != "" {
		asset = cookFlags.asset
	}

	store := content.NewMemoryStore()
	actor := scene.NewActor(asset)
	out := output.NewOutput(asset, parts)
	ok, err := cookOnce(cfg, s, store, out, actor)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	writeReport(w, out, store, actor)
	return ok, nil
}

func cookOnce(cfg config.Config, s houdini.Session, store content.Store, out *output.Output, owner scene.ComponentOwner) (bool, error) {
	e, err := engine.New(cfg, s, store)
	if err != nil {
		return false, err
	}
	if err := e.Initialize(""); err != nil {
		return false, err
	}
	defer e.Shutdown()
	return e.Cook(out, owner, nil)
}

func writeReport(w io.Writer, out *output.Output, store *content.MemoryStore, actor *scene.Actor) {
	fmt.Fprintf(w, "Asset:   %s\n", out.AssetName)
	fmt.Fprintf(w, "Objects: %d\n", len(out.Objects))
	for _, id := range out.Objects.Keys() {
		obj := out.Objects[id]
		state := "rebuilt"
		if !obj.Rebuilt {
			state = "kept"
		}
		fmt.Fprintf(w, "  %-10s %-10s %s\n", id, obj.BaseName, state)
		fmt.Fprintf(w, "    mesh:     %s\n", obj.OutputObject)
		fmt.Fprintf(w, "    skeleton: %s\n", obj.Skeleton)
		if mesh, err := store.SkeletalMesh(obj.OutputObject); err == nil && mesh.RenderData != nil {
			rd := mesh.RenderData
			fmt.Fprintf(w, "    render:   %d vertices, %d triangles, %d sections, %d bones\n",
				len(rd.Vertices), len(rd.Indices)/3, len(rd.Sections), len(mesh.RefBones))
			c := rd.Bounds.Center()
			fmt.Fprintf(w, "    center:   (%.2f, %.2f, %.2f)\n", c.X, c.Y, c.Z)
		}
	}
	dirty := store.DirtyPackages()
	fmt.Fprintf(w, "Packages to save: %d\n", len(dirty))
	for _, p := range dirty {
		fmt.Fprintf(w, "  %s\n", p)
	}
	fmt.Fprintf(w, "Components on '%s': %d\n", actor.Name(), len(actor.Components()))
	for _, c := range actor.Components() {
		fmt.Fprintf(w, "  %s -> %s\n", c.Name, c.Mesh.Path)
	}
}
