package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/document"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/render"
	"github.com/matzehuels/famtree/pkg/render/nodelink"
	"github.com/matzehuels/famtree/pkg/tree"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file; derived from the document and slug when empty
	slug     string // cluster slug, or "master"
	format   string // dot, svg, png or pdf
	depth    int    // levels below the root to draw; 0 draws everything
	detailed bool   // add spouse and references to labels
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{
		slug:   document.MasterSlug,
		format: render.FormatSVG,
	}

	cmd := &cobra.Command{
		Use:   "render [document]",
		Short: "Draw the master tree or a cluster as a diagram",
		Long: `Render draws one tree of a compiled document as a Graphviz node-link diagram.
Messianic-line persons are gold, Levitical persons light blue, and judges
have a double outline.

PNG and PDF output require rsvg-convert (librsvg).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := render.ValidateFormat(opts.format); err != nil {
				return fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "render")
			}
			if err := fterrors.ValidateSlug(opts.slug); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd.InheritedFlags())
			if err != nil {
				return err
			}
			_, doc, err := readDocument(cmd, args, cfg)
			if err != nil {
				return err
			}
			input := cfg.Output
			if len(args) > 0 {
				input = args[0]
			}
			return c.runRender(cmd, doc, input, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default <document>.<cluster>.<format>)")
	cmd.Flags().StringVar(&opts.slug, "cluster", opts.slug, "cluster slug to draw, or master")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: "+strings.Join(render.Formats, ", "))
	cmd.Flags().IntVar(&opts.depth, "depth", 0, "levels to draw below the root (0 = all)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include spouse and references in labels")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, doc *document.Document, input string, opts renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	root, err := doc.Tree(opts.slug)
	if err != nil {
		return err
	}
	logger.Infof("Rendering %s: %d nodes", opts.slug, root.Count())

	data, err := renderTree(ctx, root, opts)
	if err != nil {
		return err
	}
	logger.Debugf("Generated %s: %d bytes", opts.format, len(data))

	outputPath := opts.output
	if outputPath == "" {
		outputPath = renderPath(input, opts.slug, opts.format)
	}
	if err := writeOutput(cmd, outputPath, data); err != nil {
		return err
	}
	if outputPath != stdinPath {
		printSuccess("Rendered %s", opts.slug)
		printFile(outputPath)
	}
	return nil
}

// renderTree draws root in the requested format.
func renderTree(ctx context.Context, root *tree.Node, opts renderOpts) ([]byte, error) {
	dot := nodelink.ToDOT(root, nodelink.Options{MaxDepth: opts.depth, Detailed: opts.detailed})
	if opts.format == render.FormatDOT {
		return []byte(dot), nil
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.FromSVG(ctx, svg, opts.format)
}

// renderPath derives the output path from the document path, e.g.
// bible-tree.json -> bible-tree.judges.svg.
func renderPath(input, slug, format string) string {
	if input == stdinPath {
		input = appName
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return fmt.Sprintf("%s.%s.%s", base, slug, format)
}
