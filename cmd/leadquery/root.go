// Command leadquery compiles lead filters offline and inspects the search
// cluster the service is configured against.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/leadsearch/internal/config"
	dbOpenSearch "github.com/kailas-cloud/leadsearch/internal/db/opensearch"
	"github.com/kailas-cloud/leadsearch/internal/version"
)

const (
	flagEnv     = "env"
	flagCompact = "compact"
	flagTimeout = "timeout"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "leadquery",
		Short:         "Inspect lead search queries and index resolution",
		Version:       fmt.Sprintf("%s (%s)", version.Version, version.Commit),
		SilenceUsage:  true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().String(flagEnv, config.GetEnv(), "Config environment (config/<env>.yaml)")
	root.PersistentFlags().Bool(flagCompact, false, "Print JSON on one line")
	root.PersistentFlags().Duration(flagTimeout, 10*time.Second, "Timeout for cluster calls")

	root.AddCommand(newCompileCmd(), newResolveIndexCmd(), newFieldsCmd())
	return root
}

// connect loads config for --env and opens an engine client.
func connect(cmd *cobra.Command) (config.Config, *dbOpenSearch.Store, error) {
	env, _ := cmd.Flags().GetString(flagEnv)
	cfg, err := config.Load(env)
	if err != nil {
		return config.Config{}, nil, err
	}
	store, err := dbOpenSearch.NewStore(dbOpenSearch.Config{
		Addresses:          cfg.Search.Addresses,
		Username:           cfg.Search.Username,
		Password:           cfg.Search.Password,
		InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
	})
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("create search client: %w", err)
	}
	return cfg, store, nil
}

func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout, _ := cmd.Flags().GetDuration(flagTimeout)
	return context.WithTimeout(cmd.Context(), timeout)
}

func printJSON(cmd *cobra.Command, w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if compact, _ := cmd.Flags().GetBool(flagCompact); !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
