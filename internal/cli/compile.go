package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/config"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// compileOpts holds the flags that are not configuration keys.
type compileOpts struct {
	noCache bool
	refresh bool
}

// compileCommand creates the compile command. Its input, output and tree
// flags map onto configuration keys and override the config file.
func (c *CLI) compileCommand() *cobra.Command {
	var opts compileOpts

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile the genealogy tables into a tree document",
		Long: `Compile reads the node and edge tables, builds the master tree from the
master root and one tree per cluster in the cluster index, and writes the
resulting JSON document.

Unchanged inputs are served from the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runCompile(cmd, cfg, opts)
		},
	}

	f := cmd.Flags()
	f.String("nodes", "", "node table CSV (default "+config.DefaultNodes+")")
	f.String("edges", "", "edge table CSV (default "+config.DefaultEdges+")")
	f.String("clusters", "", "cluster index, JSON or YAML (default "+config.DefaultClusters+")")
	f.String("blurbs", "", "cluster blurbs, JSON or YAML; optional")
	f.StringP("output", "o", "", "output document, - for stdout (default "+config.DefaultOutput+")")
	f.String("root", "", "master root person id (default "+config.DefaultMasterRoot+")")
	f.String("title", "", "master tree title")
	f.String("label", "", "dataset label written as generatedAt")
	f.Int("workers", 0, "concurrent cluster workers (0 = GOMAXPROCS)")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "recompile even when cached")

	return cmd
}

func (c *CLI) runCompile(cmd *cobra.Command, cfg *config.Config, opts compileOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := pipelineOptions(cfg)
	popts.Refresh = opts.refresh

	prog := newProgress(c.Logger)
	res, err := runner.Execute(ctx, popts)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Compiled document")

	if err := writeOutput(cmd, cfg.Output, res.Data); err != nil {
		return fmt.Errorf("write output %s: %w", cfg.Output, err)
	}
	if cfg.Output == stdinPath {
		return nil
	}

	printCompileSummary(cfg.Output, res)
	return nil
}

func printCompileSummary(path string, res *pipeline.Result) {
	printSuccess("Compile complete")
	printFile(path)
	printKeyValue("Persons", fmt.Sprint(res.Stats.Load.Persons))
	printKeyValue("Relations", fmt.Sprint(res.Stats.Load.Relations))
	printKeyValue("Clusters", fmt.Sprint(res.Stats.Clusters))
	printStats(res.Stats.MasterNodes+res.Stats.ClusterNodes, res.Stats.SkippedRoots, res.CacheHit)
	printNewline()
	printNextStep("Browse clusters", appName+" clusters "+path)
}
