package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `rbm-dashboard keeps the pricing workflow's per-product records, a time-saved counter, and reviewer feedback.

Core concepts:
- Record: one product's latest workflow output, identified by its "PB C-ASIN" field. Other fields are whatever the pipeline produced.
- Merge: ingesting records replaces any stored record with the same PB C-ASIN and appends new ones. Records without PB C-ASIN are dropped.
- Time saved: each processed item is credited a fixed number of minutes.

Typical use:
1) Orient: workflow_stats, then list_workflow_records (pass asin to look at one product).
2) Write: ingest_workflow_records with the pipeline's rows; record_time_saved with the run's item count.
3) Review: list_feedback / submit_feedback; recent_activity shows what changed.

Docs:
- rbm://docs/merge-rules
- rbm://docs/stats-fields
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "rbm://docs/merge-rules",
		Name:        "merge_rules",
		Title:       "How records are merged",
		Description: "Identity, ordering and bookkeeping fields applied by every ingest.",
		Content: `# Merge rules

- Identity is the "PB C-ASIN" field. Blank or missing values are dropped from the batch.
- Stored records keep their position; new keys are appended in batch order.
- A record with a known key replaces the stored one entirely. Fields are not merged.
- Within one batch the last record for a key wins.
- Every merged record gets "_timestamp" and "_lastUpdated" (UTC, millisecond precision) and "_source" ("pipeline" or "manual_upload").
- newASINs counts keys that were not stored before; updatedASINs is recordCount minus newASINs.
`,
	},
	{
		URI:         "rbm://docs/stats-fields",
		Name:        "stats_fields",
		Title:       "Fields read by workflow_stats",
		Description: "Which record fields feed each statistic.",
		Content: `# Stats fields

Recommendation: first non-empty of pricing_recommendation, price_recommendation, "Price Action", Status.
- priceMatch: contains "price match"
- revertToBase: contains "revert to base"

Positioning: first non-empty of positioning, "Spec Check".
- comparable: contains "comparable"
- underSpec: "under-spec", "underspec" or "under spec"
- overSpec: "over-spec", "overspec" or "over spec"

Matching is case-insensitive.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
