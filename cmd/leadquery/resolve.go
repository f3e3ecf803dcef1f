package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/leadsearch/internal/domain"
	"github.com/kailas-cloud/leadsearch/internal/logger"
	"github.com/kailas-cloud/leadsearch/internal/usecase/index"
	"github.com/kailas-cloud/leadsearch/internal/usecase/schema"
)

type resolution struct {
	Index string   `json:"index"`
	Tried []string `json:"tried"`
}

func newResolveIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-index",
		Short: "Probe the configured index candidates and print the first that exists",
		Args:  cobra.NoArgs,
		RunE:  runResolveIndex,
	}
}

func runResolveIndex(cmd *cobra.Command, _ []string) error {
	cfg, store, err := connect(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	log, err := logger.New(cmd.Flag(flagEnv).Value.String(), cfg.Logging.Level)
	if err != nil {
		return err
	}
	ctx = logger.ContextWithLogger(ctx, log)

	candidates := index.Candidates(cfg.Search.Index, cfg.Search.FallbackIndices, index.DefaultCandidates)
	res := index.NewResolver(store, candidates).Resolve(ctx)

	if err := printJSON(cmd, cmd.OutOrStdout(), resolution{Index: res.Index, Tried: res.Tried}); err != nil {
		return err
	}
	if !res.Found() {
		return &domain.IndexUnavailableError{Tried: res.Tried}
	}
	return nil
}

type fieldsReport struct {
	Index    string            `json:"index"`
	Fields   map[string]string `json:"fields"`
	DateSort string            `json:"date_sort,omitempty"`
	IDSort   string            `json:"id_sort"`
	Sortable bool              `json:"id_sortable"`
}

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields [index]",
		Short: "Print the flattened field map and the sort fields derived from it",
		Long: `Fields reads the mapping of the given index, or of the resolved index when
none is given, and prints what automatic sorting would use.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFields,
	}
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, store, err := connect(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		candidates := index.Candidates(cfg.Search.Index, cfg.Search.FallbackIndices, index.DefaultCandidates)
		res := index.NewResolver(store, candidates).Resolve(ctx)
		if !res.Found() {
			return &domain.IndexUnavailableError{Tried: res.Tried}
		}
		name = res.Index
	}

	fields, err := schema.NewResolver(store).Fields(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaDiscovery) {
			cmd.PrintErrln("automatic sort would fall back to the intrinsic order")
		}
		return err
	}

	idSort := fields.IDSort()
	dateSort, _ := fields.DateSortField()
	return printJSON(cmd, cmd.OutOrStdout(), fieldsReport{
		Index:    name,
		Fields:   fields,
		DateSort: dateSort,
		IDSort:   idSort.Field,
		Sortable: idSort.Sortable,
	})
}
