package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/config"
	"github.com/matzehuels/famtree/pkg/genealogy"
)

// maxListed bounds how many ids inspect prints per list.
const maxListed = 10

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print statistics about the genealogy tables",
		Long: `Inspect loads the node and edge tables and reports what the compiler will
see: persons kept and filtered, relations kept and dropped, persons with more
than one parent (rendered once per parent) and relations that close a cycle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runInspect(cfg)
		},
	}

	cmd.Flags().String("nodes", "", "node table CSV (default "+config.DefaultNodes+")")
	cmd.Flags().String("edges", "", "edge table CSV (default "+config.DefaultEdges+")")
	cmd.Flags().String("root", "", "master root person id (default "+config.DefaultMasterRoot+")")

	return cmd
}

func (c *CLI) runInspect(cfg *config.Config) error {
	prog := newProgress(c.Logger)
	ds, err := genealogy.LoadFiles(cfg.Nodes, cfg.Edges)
	if err != nil {
		return err
	}
	prog.done("Loaded tables")

	s := ds.Stats
	printSuccess("Dataset")
	printKeyValue("Nodes", cfg.Nodes)
	printKeyValue("Edges", cfg.Edges)
	printKeyValue("Persons", fmt.Sprintf("%d of %d rows (%d filtered)", s.Persons, s.RowsRead, s.RowsFiltered))
	printKeyValue("Relations", fmt.Sprintf("%d of %d rows (%d dropped)", s.Relations, s.RelationsRead, s.RelationsDropped))

	if p, ok := ds.Persons.Get(cfg.MasterRoot); ok {
		printKeyValue("Root", fmt.Sprintf("%s (%s)", p.ID, p.Name))
	} else {
		printKeyValue("Root", StyleWarning.Render(cfg.MasterRoot+" not found"))
	}

	multi := ds.MultiParent()
	printKeyValue("Multi-parent", fmt.Sprint(len(multi)))
	if len(multi) > 0 {
		printDetail("%s", listIDs(multi))
	}

	back := ds.BackEdges()
	printKeyValue("Cycles", fmt.Sprint(len(back)))
	if len(back) > 0 {
		pairs := make([]string, len(back))
		for i, r := range back {
			pairs[i] = r.Source + "->" + r.Target
		}
		printWarning("%d relations close a cycle; the compiler cuts them", len(back))
		printDetail("%s", listIDs(pairs))
	}
	return nil
}

// listIDs joins at most maxListed ids and notes how many were left out.
func listIDs(ids []string) string {
	if len(ids) <= maxListed {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s, ... (%d more)", strings.Join(ids[:maxListed], ", "), len(ids)-maxListed)
}
