package skills

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/skilletlabs/skillet/pkg/logger"
)

const indexVersion = "1.0"

// scriptPattern is the allow-list of recognized script files under a
// skill's scripts/ directory.
const scriptPattern = "*.{py,sh,ts,js}"

// Indexer builds and maintains the index.json manifest for a skills
// root. The index is a projection of the filesystem: corruption or
// staleness is always repaired by a rescan, never surfaced as an error.
type Indexer struct {
	root string
	now  func() time.Time
}

// NewIndexer creates an indexer for the given skills root directory.
func NewIndexer(root string) *Indexer {
	return &Indexer{root: root, now: time.Now}
}

// Root returns the skills root directory.
func (ix *Indexer) Root() string { return ix.root }

// IndexPath returns the location of the persisted manifest.
func (ix *Indexer) IndexPath() string { return filepath.Join(ix.root, IndexFileName) }

// Scan walks the immediate subdirectories of the skills root and builds
// a fresh in-memory index. Hidden entries and the index file itself are
// skipped. Directories without a SKILL.md still yield an entry so the
// loader can serve a stub for them.
func (ix *Indexer) Scan(ctx context.Context) (*Index, error) {
	entries, err := os.ReadDir(ix.root)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "read skills root")
	}

	skills := []IndexEntry{}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || name == IndexFileName {
			continue
		}
		path := filepath.Join(ix.root, name)
		info, err := os.Stat(path) // follows symlinked skill dirs
		if err != nil || !info.IsDir() {
			continue
		}
		skills = append(skills, ix.scanSkillDir(ctx, name, path, info.ModTime()))
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })

	now := ix.now()
	idx := &Index{
		Version:     indexVersion,
		Skills:      skills,
		GeneratedAt: now,
		UpdatedAt:   now,
	}
	recomputeTotals(idx)
	return idx, nil
}

// scanSkillDir derives the index entry for a single skill directory.
// The directory name is the skill's identity regardless of what the
// frontmatter declares.
func (ix *Indexer) scanSkillDir(ctx context.Context, name, path string, modTime time.Time) IndexEntry {
	entry := IndexEntry{
		Name:         name,
		Title:        titleFromName(name),
		Domain:       DomainGeneral,
		Version:      "1.0.0",
		Tools:        []string{},
		Path:         path,
		LastModified: modTime,
	}

	docPath := filepath.Join(path, SkillFileName)
	if content, err := os.ReadFile(docPath); err == nil {
		doc, err := ParseDocument(string(content), name, docPath, path)
		if err != nil {
			logger.G(ctx).WithError(err).WithField("skill", name).Debug("failed to parse SKILL.md, indexing as bare directory")
		} else {
			entry.HasSkillMd = true
			entry.Title = doc.Title
			entry.Domain = doc.Domain
			entry.Description = doc.Description
			entry.Version = doc.Version
			entry.Tags = doc.Tags
			entry.Author = doc.Author
			if fi, err := os.Stat(docPath); err == nil {
				entry.LastModified = fi.ModTime()
			}
		}
	}

	if files, err := os.ReadDir(filepath.Join(path, ScriptsDirName)); err == nil {
		var scripts []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			if ok, _ := doublestar.Match(scriptPattern, f.Name()); ok {
				scripts = append(scripts, f.Name())
			}
		}
		sort.Strings(scripts)
		for _, s := range scripts {
			base := strings.TrimSuffix(s, filepath.Ext(s))
			entry.Tools = append(entry.Tools, "skill:"+name+":"+base)
		}
		entry.ScriptCount = len(scripts)
	}

	return entry
}

// Rebuild scans the skills root and persists the result.
func (ix *Indexer) Rebuild(ctx context.Context) (*Index, error) {
	idx, err := ix.Scan(ctx)
	if err != nil {
		return nil, err
	}
	if err := ix.persist(idx); err != nil {
		return nil, err
	}
	logger.G(ctx).WithField("skills", idx.TotalSkills).Debug("skill index rebuilt")
	return idx, nil
}

// UpdateSkill rescans a single skill directory and splices its entry
// into the persisted index, recomputing aggregate totals. A missing
// directory removes the entry. This is the incremental path used after
// create/update/delete; it avoids a full rescan.
func (ix *Indexer) UpdateSkill(ctx context.Context, name string) (*Index, error) {
	idx := ix.read(ctx)
	if idx == nil {
		return ix.Rebuild(ctx)
	}

	pos := -1
	for i := range idx.Skills {
		if idx.Skills[i].Name == name {
			pos = i
			break
		}
	}

	path := filepath.Join(ix.root, name)
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		if pos >= 0 {
			idx.Skills = append(idx.Skills[:pos], idx.Skills[pos+1:]...)
		}
	} else {
		entry := ix.scanSkillDir(ctx, name, path, info.ModTime())
		if pos >= 0 {
			idx.Skills[pos] = entry
		} else {
			at := sort.Search(len(idx.Skills), func(i int) bool { return idx.Skills[i].Name >= name })
			idx.Skills = append(idx.Skills, IndexEntry{})
			copy(idx.Skills[at+1:], idx.Skills[at:])
			idx.Skills[at] = entry
		}
	}

	recomputeTotals(idx)
	idx.UpdatedAt = ix.now()
	if err := ix.persist(idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// GetIndex returns the persisted index, transparently rebuilding when
// it is absent, unreadable, or older than maxAge. A non-positive maxAge
// disables the staleness check.
func (ix *Indexer) GetIndex(ctx context.Context, maxAge time.Duration) (*Index, error) {
	if idx := ix.read(ctx); idx != nil {
		if maxAge <= 0 || ix.now().Sub(idx.UpdatedAt) <= maxAge {
			return idx, nil
		}
		logger.G(ctx).Debug("skill index stale, rebuilding")
	}
	return ix.Rebuild(ctx)
}

// read loads the persisted index. Any failure, including corruption,
// is treated as an absent index.
func (ix *Indexer) read(ctx context.Context) *Index {
	content, err := os.ReadFile(ix.IndexPath())
	if err != nil {
		return nil
	}
	var idx Index
	if err := json.Unmarshal(content, &idx); err != nil {
		logger.G(ctx).WithError(err).Warn("skill index corrupt, will rebuild")
		return nil
	}
	if idx.Version == "" {
		return nil
	}
	return &idx
}

func (ix *Indexer) persist(idx *Index) error {
	if err := os.MkdirAll(ix.root, 0o755); err != nil {
		return errors.Wrap(err, "create skills root")
	}
	content, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal skill index")
	}
	if err := os.WriteFile(ix.IndexPath(), content, 0o644); err != nil {
		return errors.Wrap(err, "write skill index")
	}
	return nil
}

func recomputeTotals(idx *Index) {
	idx.TotalSkills = len(idx.Skills)
	total := 0
	for i := range idx.Skills {
		total += len(idx.Skills[i].Tools)
	}
	idx.TotalTools = total
}

// Lookup returns the entry for name, or nil when absent.
func (idx *Index) Lookup(name string) *IndexEntry {
	at := sort.Search(len(idx.Skills), func(i int) bool { return idx.Skills[i].Name >= name })
	if at < len(idx.Skills) && idx.Skills[at].Name == name {
		return &idx.Skills[at]
	}
	return nil
}
