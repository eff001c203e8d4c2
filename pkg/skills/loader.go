package skills

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/skilletlabs/skillet/pkg/logger"
)

// DefaultIndexMaxAge is how old the persisted index may be before reads
// force a rescan.
const DefaultIndexMaxAge = 5 * time.Minute

// Loader is the read facade over the index, codec, and cache. It serves
// two tiers of the same identity: Level 1 is the index-derived summary,
// Level 2 the fully parsed document. Not-found is reported as a nil
// result at every tier; errors are reserved for real I/O failures.
type Loader struct {
	index       *Indexer
	indexMaxAge time.Duration
	l1          *Cache[*IndexEntry]
	l2          *Cache[*SkillDocument]
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithIndexMaxAge overrides the index staleness threshold.
func WithIndexMaxAge(d time.Duration) LoaderOption {
	return func(l *Loader) { l.indexMaxAge = d }
}

// WithCacheTTL overrides the TTL of both cache tiers.
func WithCacheTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) {
		l.l1 = NewCache[*IndexEntry](ttl)
		l.l2 = NewCache[*SkillDocument](ttl)
	}
}

// NewLoader creates a loader over the given indexer.
func NewLoader(index *Indexer, opts ...LoaderOption) *Loader {
	l := &Loader{
		index:       index,
		indexMaxAge: DefaultIndexMaxAge,
		l1:          NewCache[*IndexEntry](DefaultCacheTTL),
		l2:          NewCache[*SkillDocument](DefaultCacheTTL),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadLevel1 resolves a skill's index summary. On an index miss it
// forces exactly one rebuild and retries once before reporting
// not-found: a two-attempt loop, deliberately not recursion, so the
// self-healing read is bounded.
func (l *Loader) LoadLevel1(ctx context.Context, name string) (*IndexEntry, error) {
	if entry, ok := l.l1.Get(name); ok {
		return entry, nil
	}

	idx, err := l.index.GetIndex(ctx, l.indexMaxAge)
	if err != nil {
		return nil, err
	}
	entry := idx.Lookup(name)
	if entry == nil {
		idx, err = l.index.Rebuild(ctx)
		if err != nil {
			return nil, err
		}
		entry = idx.Lookup(name)
	}
	if entry == nil {
		return nil, nil
	}

	l.l1.Set(name, entry)
	return entry, nil
}

// LoadLevel2 resolves the fully parsed document. Once Level 1 resolves,
// Level 2 is always satisfiable: a directory without SKILL.md yields a
// stub shaped from the index summary.
func (l *Loader) LoadLevel2(ctx context.Context, name string) (*SkillDocument, error) {
	if doc, ok := l.l2.Get(name); ok {
		return doc, nil
	}

	entry, err := l.LoadLevel1(ctx, name)
	if err != nil || entry == nil {
		return nil, err
	}

	docPath := filepath.Join(entry.Path, SkillFileName)
	var doc *SkillDocument
	content, err := os.ReadFile(docPath)
	if err != nil {
		doc = stubDocument(entry)
	} else {
		doc, err = ParseDocument(string(content), entry.Name, docPath, entry.Path)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("skill", name).Debug("failed to parse SKILL.md, serving stub")
			doc = stubDocument(entry)
		}
	}

	l.l2.Set(name, doc)
	return doc, nil
}

// stubDocument synthesizes a Level-1-shaped document for a skill
// directory that has no SKILL.md.
func stubDocument(entry *IndexEntry) *SkillDocument {
	version := entry.Version
	if version == "" {
		version = "1.0.0"
	}
	return &SkillDocument{
		Name:             entry.Name,
		Title:            entry.Title,
		Domain:           entry.Domain,
		Description:      entry.Description,
		Version:          version,
		Tags:             entry.Tags,
		Author:           entry.Author,
		ToolDependencies: []string{},
		ExecutionSteps:   []string{},
		Examples:         []string{},
		DirPath:          entry.Path,
	}
}

// LoadAllLevel1 returns every skill's index summary, feeding bulk
// consumers such as search.
func (l *Loader) LoadAllLevel1(ctx context.Context) ([]IndexEntry, error) {
	idx, err := l.index.GetIndex(ctx, l.indexMaxAge)
	if err != nil {
		return nil, err
	}
	return idx.Skills, nil
}

// SearchLevel1 runs text/domain search over all Level 1 summaries.
func (l *Loader) SearchLevel1(ctx context.Context, query, domain string) ([]IndexEntry, error) {
	skills, err := l.LoadAllLevel1(ctx)
	if err != nil {
		return nil, err
	}
	return SearchByText(skills, query, domain), nil
}

// Preload warms both cache tiers for the named skills. Individual
// failures are logged and skipped.
func (l *Loader) Preload(ctx context.Context, names ...string) {
	for _, name := range names {
		if _, err := l.LoadLevel2(ctx, name); err != nil {
			logger.G(ctx).WithError(err).WithField("skill", name).Debug("preload failed")
		}
	}
}

// Refresh drops both cache tiers for a skill and performs an
// incremental index update for it.
func (l *Loader) Refresh(ctx context.Context, name string) error {
	l.l1.Delete(name)
	l.l2.Delete(name)
	_, err := l.index.UpdateSkill(ctx, name)
	return err
}

// RebuildIndex clears all cached state and forces a full rescan.
func (l *Loader) RebuildIndex(ctx context.Context) error {
	l.l1.Clear()
	l.l2.Clear()
	_, err := l.index.Rebuild(ctx)
	return err
}
