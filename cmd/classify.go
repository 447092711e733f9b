package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/anima-hengine/engine/houdini"
	"github.com/spaghettifunk/anima-hengine/engine/skeletal"
)

var classifyFlags struct {
	dump string
}

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "List the packed characters found in a cook dump",
	RunE:  runClassify,
}

func init() {
	f := classifyCmd.Flags()
	f.StringVarP(&classifyFlags.dump, "dump", "d", "", "YAML cook dump (required)")
	_ = classifyCmd.MarkFlagRequired("dump")
}

func runClassify(cmd *cobra.Command, _ []string) error {
	d, err := houdini.LoadDumpFile(classifyFlags.dump)
	if err != nil {
		return err
	}
	s, parts, err := d.Session()
	if err != nil {
		return fmt.Errorf("load dump: %w", err)
	}

	classified := skeletal.ClassifyParts(s, parts)
	complete, incomplete := skeletal.CollectBundles(classified)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Asset:  %s\n", d.Asset)
	fmt.Fprintf(out, "Parts:  %d (%d classified)\n", len(parts), len(classified))
	for _, cp := range classified {
		fmt.Fprintf(out, "  %-16s %-12q %s\n", cp.Role, cp.BaseName, cp.Part)
	}
	fmt.Fprintf(out, "Skeletal meshes: %d\n", len(complete))
	for _, b := range complete {
		fmt.Fprintf(out, "  %s\n", b.BaseName)
	}
	if len(incomplete) > 0 {
		fmt.Fprintf(out, "Incomplete: %d\n", len(incomplete))
		for _, b := range incomplete {
			fmt.Fprintf(out, "  %q missing %v\n", b.BaseName, b.Missing())
		}
	}
	return nil
}
