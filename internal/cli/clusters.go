package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/document"
	"github.com/matzehuels/famtree/pkg/tree"
)

// clustersCommand creates the clusters command.
func (c *CLI) clustersCommand() *cobra.Command {
	var (
		interactive bool
		depth       int
	)

	cmd := &cobra.Command{
		Use:   "clusters [document]",
		Short: "List the clusters of a compiled document",
		Long: `Clusters lists every cluster section of a compiled document with its number
of roots and rendered nodes. With --interactive, pick a cluster and print its
tree as an indented outline.

The document defaults to the configured output; - reads standard input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.InheritedFlags())
			if err != nil {
				return err
			}
			_, doc, err := readDocument(cmd, args, cfg)
			if err != nil {
				return err
			}

			rows := clusterRows(doc)
			if !interactive {
				if len(rows) == 0 {
					printInfo("Document has no clusters")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), clusterTable(rows))
				return nil
			}
			return runClusterPicker(cmd, doc, rows, depth)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a cluster and print its outline")
	cmd.Flags().IntVar(&depth, "depth", 0, "outline depth limit (0 = unlimited)")

	return cmd
}

// clusterRows summarizes the document's clusters in document order.
func clusterRows(doc *document.Document) []clusterRow {
	rows := make([]clusterRow, 0, len(doc.Clusters))
	for _, s := range doc.Clusters {
		row := clusterRow{Slug: s.Slug, Title: s.Title}
		if s.Tree != nil {
			row.Roots = len(s.Tree.Children)
			row.Nodes = s.Tree.Node().Count() - 1
		}
		rows = append(rows, row)
	}
	return rows
}

func runClusterPicker(cmd *cobra.Command, doc *document.Document, rows []clusterRow, depth int) error {
	if len(rows) == 0 {
		printInfo("Document has no clusters")
		return nil
	}

	final, err := tea.NewProgram(NewClusterListModel(rows), tea.WithContext(cmd.Context())).Run()
	if err != nil {
		return fmt.Errorf("cluster picker: %w", err)
	}
	m, ok := final.(ClusterListModel)
	if !ok || m.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	root, err := doc.Tree(m.Selected.Slug)
	if err != nil {
		return err
	}
	writeOutline(cmd.OutOrStdout(), root, depth)
	return nil
}

// writeOutline prints a tree with two spaces of indent per level. Subtrees
// below depth are summarized as a count; depth 0 prints everything.
func writeOutline(w io.Writer, root *tree.Node, depth int) {
	root.Walk(func(n *tree.Node, level int) bool {
		indent := strings.Repeat("  ", level)
		line := n.Name
		if n.Name != n.ID {
			line += StyleDim.Render(" #" + n.ID)
		}
		if n.Spouse != "" {
			line += StyleDim.Render(" ∞ " + n.Spouse)
		}
		fmt.Fprintln(w, indent+line)

		if depth > 0 && level >= depth && !n.IsLeaf() {
			fmt.Fprintln(w, indent+"  "+StyleDim.Render(fmt.Sprintf("… %d more", n.Count()-1)))
			return false
		}
		return true
	})
}
