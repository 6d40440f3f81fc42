package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/famtree/pkg/buildinfo"
	"github.com/matzehuels/famtree/pkg/cache"
	"github.com/matzehuels/famtree/pkg/config"
	"github.com/matzehuels/famtree/pkg/document"
	fterrors "github.com/matzehuels/famtree/pkg/errors"
	"github.com/matzehuels/famtree/pkg/observability"
	"github.com/matzehuels/famtree/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// stdinPath selects standard input or output in place of a file.
const stdinPath = "-"

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	buildinfo.Resolve()

	root := &cobra.Command{
		Use:   appName,
		Short: "famtree compiles genealogy tables into nested JSON trees",
		Long: `famtree reads a genealogy exported as node and edge CSV tables and compiles
it into one JSON document: a master tree rooted at a chosen ancestor plus one
tree per named cluster.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				observability.SetPipelineHooks(&logHooks{logger: c.Logger})
				observability.SetCacheHooks(&logHooks{logger: c.Logger})
				observability.SetPublishHooks(&logHooks{logger: c.Logger})
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./famtree.toml or ./famtree.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.compileCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.clustersCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.publishCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// loadConfig resolves the configuration with flags on top. Commands that
// read a compiled document pass only their inherited flags, so their own
// --output never redirects the document they read.
func (c *CLI) loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(c.configPath, flags)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.File != "" {
		c.Logger.Debug("loaded config", "file", cfg.File)
	}
	return cfg, nil
}

// pipelineOptions maps the configuration onto pipeline options.
func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		NodesPath:    cfg.Nodes,
		EdgesPath:    cfg.Edges,
		ClustersPath: cfg.Clusters,
		BlurbsPath:   cfg.Blurbs,
		MasterRoot:   cfg.MasterRoot,
		MasterTitle:  cfg.MasterTitle,
		Label:        cfg.DatasetLabel,
		Workers:      cfg.Workers,
		CacheTTL:     cfg.Cache.TTL,
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	backend := cfg.Cache.Backend
	if noCache {
		backend = config.CacheNone
	}
	ch, err := c.openCache(ctx, cfg, backend)
	if err != nil {
		return nil, err
	}

	var keyer cache.Keyer
	if cfg.Cache.Namespace != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Namespace+":")
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// openCache opens the configured cache backend. An unreachable Redis falls
// back to running without a cache.
func (c *CLI) openCache(ctx context.Context, cfg *config.Config, backend string) (cache.Cache, error) {
	switch backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: cfg.Cache.RedisAddr})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "error", err)
			return cache.NewNullCache(), nil
		}
		return rc, nil
	default:
		return cache.NewFileCache(cfg.Cache.Dir)
	}
}

// =============================================================================
// Documents
// =============================================================================

// readDocument reads the document named by args, or the configured output
// when no argument is given. "-" reads standard input.
func readDocument(cmd *cobra.Command, args []string, cfg *config.Config) ([]byte, *document.Document, error) {
	path := cfg.Output
	if len(args) > 0 {
		path = args[0]
	}

	var (
		data []byte
		err  error
	)
	if path == stdinPath {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = readFile(path)
	}
	if err != nil {
		return nil, nil, err
	}

	doc, err := document.Unmarshal(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, doc, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "document %s not found (run `%s compile` first)", path, appName)
	}
	return data, err
}

// writeOutput writes data to path, or to the command's stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == stdinPath {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	return document.WriteBytes(path, data)
}
