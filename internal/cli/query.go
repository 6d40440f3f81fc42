package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/famtree/pkg/query"
)

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "query <jsonpath> [document]",
		Short: "Select values from a compiled document with JSONPath",
		Long: `Query evaluates a JSONPath expression against a compiled document and prints
each match as one line of JSON. Object keys are printed in sorted order.

Examples:
  famtree query '$.clusters[*].slug'
  famtree query '$.master.tree..[?(@.judge == true)].name'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail on a bad expression before touching the document.
			if _, err := query.Compile(args[0]); err != nil {
				return err
			}
			cfg, err := c.loadConfig(cmd.InheritedFlags())
			if err != nil {
				return err
			}
			data, _, err := readDocument(cmd, args[1:], cfg)
			if err != nil {
				return err
			}

			matches, err := query.Select(data, args[0])
			if err != nil {
				return err
			}
			c.Logger.Debug("query", "expr", args[0], "matches", len(matches))
			return query.Write(cmd.OutOrStdout(), matches)
		},
	}
}
