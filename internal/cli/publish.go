package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/config"
	"github.com/matzehuels/famtree/pkg/publish"
)

// publishCommand creates the publish command.
func (c *CLI) publishCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish [document]",
		Short: "Upsert a compiled document into MongoDB",
		Long: `Publish stores a compiled document in MongoDB, keyed by the hash of its
content. Publishing an unchanged document replaces the existing record with a
new run id instead of adding a duplicate.

The connection comes from publish.mongo_uri, publish.database and
publish.collection, or the flags below.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			data, _, err := readDocument(cmd, args, cfg)
			if err != nil {
				return err
			}
			return c.runPublish(cmd.Context(), cfg.Publish, data)
		},
	}

	cmd.Flags().String("mongo-uri", "", "MongoDB connection string")
	cmd.Flags().String("database", "", "database name")
	cmd.Flags().String("collection", "", "collection name")

	return cmd
}

func (c *CLI) runPublish(ctx context.Context, cfg config.PublishConfig, data []byte) error {
	spinner := newSpinnerWithContext(ctx, "Connecting to MongoDB...")
	spinner.Start()

	sink, err := publish.NewMongoSink(ctx, publish.MongoOptions{
		URI:        cfg.MongoURI,
		Database:   cfg.Database,
		Collection: cfg.Collection,
	})
	if err != nil {
		spinner.StopWithError("Connection failed")
		return err
	}
	spinner.Stop()

	p := publish.NewPublisher(sink, c.Logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.Close(closeCtx); err != nil {
			c.Logger.Warn("disconnect failed", "error", err)
		}
	}()

	res, err := p.Publish(ctx, data)
	if err != nil {
		return err
	}

	status := "updated"
	if res.Created {
		status = "created"
	}
	printSuccess("Published document (%s)", status)
	printKeyValue("Collection", sink.Name())
	printKeyValue("ID", res.ID)
	printKeyValue("Run", res.RunID)
	printKeyValue("Size", fmt.Sprintf("%d bytes", len(data)))
	return nil
}
