package skills

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchCorpus() []IndexEntry {
	return []IndexEntry{
		{Name: "log-analyzer", Title: "Log Analyzer", Description: "Summarize production logs", Domain: "devops", Tags: []string{"logs", "debugging"}},
		{Name: "note-taker", Title: "Note Taker", Description: "Capture meeting notes", Domain: "writing"},
		{Name: "db-migrator", Title: "DB Migrator", Description: "Run database migrations safely", Domain: "devops", Tags: []string{"sql"}},
	}
}

func names(entries []IndexEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestSearchByText(t *testing.T) {
	corpus := searchCorpus()

	t.Run("empty filters pass everything", func(t *testing.T) {
		assert.Len(t, SearchByText(corpus, "", ""), 3)
	})

	t.Run("query is case-insensitive over tags too", func(t *testing.T) {
		hits := SearchByText(corpus, "DEBUGGING", "")
		assert.Equal(t, []string{"log-analyzer"}, names(hits))
	})

	t.Run("domain filter is exact", func(t *testing.T) {
		hits := SearchByText(corpus, "", "devops")
		assert.Equal(t, []string{"log-analyzer", "db-migrator"}, names(hits))

		assert.Empty(t, SearchByText(corpus, "", "dev"))
	})

	t.Run("query and domain compose", func(t *testing.T) {
		hits := SearchByText(corpus, "logs", "devops")
		assert.Equal(t, []string{"log-analyzer"}, names(hits))

		assert.Empty(t, SearchByText(corpus, "logs", "writing"))
	})
}

func TestMultiWordTextSearch(t *testing.T) {
	corpus := searchCorpus()

	t.Run("any word matches", func(t *testing.T) {
		hits := MultiWordTextSearch(corpus, "logs migrations")
		assert.Equal(t, []string{"log-analyzer", "db-migrator"}, names(hits))
	})

	t.Run("adding words never shrinks results", func(t *testing.T) {
		base := MultiWordTextSearch(corpus, "logs")
		wider := MultiWordTextSearch(corpus, "logs notes")
		assert.GreaterOrEqual(t, len(wider), len(base))
		for _, b := range base {
			assert.Contains(t, names(wider), b.Name)
		}
	})

	t.Run("blank query returns everything", func(t *testing.T) {
		assert.Len(t, MultiWordTextSearch(corpus, "   "), 3)
	})

	t.Run("no duplicate entries on multiple word hits", func(t *testing.T) {
		hits := MultiWordTextSearch(corpus, "logs production")
		assert.Equal(t, []string{"log-analyzer"}, names(hits))
	})
}

func TestSearchWithProviderDetailed(t *testing.T) {
	ctx := context.Background()
	corpus := searchCorpus()

	t.Run("nil provider falls back to text", func(t *testing.T) {
		out := SearchWithProviderDetailed(ctx, corpus, "logs", nil)
		assert.True(t, out.FallbackUsed)
		assert.Equal(t, []string{"log-analyzer"}, names(out.Skills))
	})

	t.Run("embedding-capable provider still falls back", func(t *testing.T) {
		provider := &stubProvider{embedding: true}
		out := SearchWithProviderDetailed(ctx, corpus, "notes", provider)
		assert.True(t, out.FallbackUsed)
		assert.Equal(t, []string{"note-taker"}, names(out.Skills))
		// Text fallback never consults the generation API.
		assert.Equal(t, 0, provider.calls)
	})

	t.Run("non-embedding provider falls back", func(t *testing.T) {
		out := SearchWithProviderDetailed(ctx, corpus, "notes", &stubProvider{})
		require.True(t, out.FallbackUsed)
		assert.Equal(t, []string{"note-taker"}, names(out.Skills))
	})
}
