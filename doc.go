// Package leadsearch embeds the lead search engine in-process: the same
// query compiler, index resolution, count reconciliation and CSV export the
// HTTP service runs, without the HTTP layer.
//
//	client, _ := leadsearch.New(ctx,
//	    leadsearch.WithOpenSearch("https://localhost:9200"),
//	    leadsearch.WithIndex("merged_leads", ""),
//	)
//	page, _ := client.Search(ctx, url.Values{
//	    "city":       {"Austin"},
//	    "state_code": {"TX,CA"},
//	    "exact":      {"1"},
//	})
//
// Parameters use the vocabulary of GET /api/leads/search.
package leadsearch
