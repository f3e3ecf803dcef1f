package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/leadsearch/internal/domain/lead"
	"github.com/kailas-cloud/leadsearch/internal/domain/search/query"
	"github.com/kailas-cloud/leadsearch/internal/usecase/search"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile key=value...",
		Short: "Print the OpenSearch query compiled from filter parameters",
		Long: `Compile takes the same parameters as GET /api/leads/search and prints the
boolean query the service would send. Nothing is sent to the cluster.

  leadquery compile city=Austin state_code=TX,CA exact=1`,
		RunE: runCompile,
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	values, err := parsePairs(args)
	if err != nil {
		return err
	}
	q, err := lead.ParseQuery(values)
	if err != nil {
		return err
	}
	data, err := query.Marshal(search.Compile(q.Filters))
	if err != nil {
		return fmt.Errorf("render query: %w", err)
	}
	return printJSON(cmd, cmd.OutOrStdout(), json.RawMessage(data))
}

// parsePairs turns key=value arguments into query parameters. A repeated
// key keeps every value, as a repeated URL parameter would.
func parsePairs(args []string) (url.Values, error) {
	values := url.Values{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("argument %q is not key=value", arg)
		}
		values.Add(strings.TrimSpace(key), value)
	}
	return values, nil
}
