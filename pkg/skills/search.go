package skills

import (
	"context"
	"strings"

	"github.com/skilletlabs/skillet/pkg/llm"
	"github.com/skilletlabs/skillet/pkg/logger"
)

// SearchOutcome carries provider-backed search results along with
// whether text fallback was used instead of embedding ranking.
type SearchOutcome struct {
	Skills       []IndexEntry
	FallbackUsed bool
}

// haystack synthesizes the searchable text of an entry.
func haystack(entry IndexEntry) string {
	parts := []string{entry.Name, entry.Title, entry.Description}
	parts = append(parts, entry.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

// SearchByText filters skills by an exact domain match and a
// case-insensitive substring query over name, title, description, and
// tags. Empty filters pass everything through.
func SearchByText(skills []IndexEntry, query, domain string) []IndexEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	out := []IndexEntry{}
	for _, s := range skills {
		if domain != "" && s.Domain != domain {
			continue
		}
		if q != "" && !strings.Contains(haystack(s), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// MultiWordTextSearch splits the query on whitespace and matches a
// skill when ANY word is a substring of its haystack. The OR semantics
// deliberately favor recall over precision.
func MultiWordTextSearch(skills []IndexEntry, query string) []IndexEntry {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return SearchByText(skills, "", "")
	}
	out := []IndexEntry{}
	for _, s := range skills {
		hs := haystack(s)
		for _, w := range words {
			if strings.Contains(hs, w) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// SearchWithProviderDetailed consults the provider's embedding
// capability but currently degrades to text matching in both branches.
// Embedding-ranked search is an extension point, not an implemented
// path: callers must not assume FallbackUsed can be false. The branch
// structure is kept so a ranking path can land without changing this
// contract.
func SearchWithProviderDetailed(ctx context.Context, skills []IndexEntry, query string, provider llm.Capability) SearchOutcome {
	if provider != nil && provider.SupportsEmbedding() {
		logger.G(ctx).Debug("provider supports embeddings, but ranking is not implemented; using text fallback")
		return SearchOutcome{
			Skills:       MultiWordTextSearch(skills, query),
			FallbackUsed: true,
		}
	}
	return SearchOutcome{
		Skills:       MultiWordTextSearch(skills, query),
		FallbackUsed: true,
	}
}
