// Package skills implements a local skill repository: a directory of
// SKILL.md documents (plus optional scripts) that an agent discovers,
// caches, searches, and writes. The package is a small document engine
// built from a markdown+YAML codec, a JSON index with staleness-based
// rebuild, a two-tier TTL cache, text search with an embedding fallback
// contract, and a generate/validate write path that round-trips with
// the parser.
package skills

import "time"

// SkillFileName is the document file expected inside each skill directory.
const SkillFileName = "SKILL.md"

// IndexFileName is the persisted index manifest at the skills root.
const IndexFileName = "index.json"

// ScriptsDirName is the per-skill directory holding executable scripts.
const ScriptsDirName = "scripts"

// DomainGeneral is the default domain applied when none is declared.
const DomainGeneral = "general"

// validDomains is the closed set of accepted skill domains. Unknown
// values are dropped at parse time; the Validator is where strictness lives.
var validDomains = map[string]bool{
	"general":       true,
	"coding":        true,
	"devops":        true,
	"data-analysis": true,
	"research":      true,
	"writing":       true,
	"automation":    true,
	"testing":       true,
}

// IsValidDomain reports whether domain is in the accepted domain set.
func IsValidDomain(domain string) bool {
	return validDomains[domain]
}

// Domains returns the accepted domain set as a slice.
func Domains() []string {
	out := make([]string, 0, len(validDomains))
	for d := range validDomains {
		out = append(out, d)
	}
	return out
}

// SkillDocument is a fully parsed SKILL.md. The skill's identity is its
// directory name; everything else is derived from the document content
// with defaults applied.
type SkillDocument struct {
	Name             string
	Title            string
	Domain           string
	Description      string
	Version          string
	Tags             []string
	Author           string
	UsageScenarios   string
	ToolDependencies []string
	ExecutionSteps   []string
	Examples         []string
	QuickStart       string
	BestPractices    []string
	RawContent       string
	DocPath          string
	DirPath          string
}

// IndexEntry is the per-skill summary stored in index.json. It is fully
// derived from the filesystem and SKILL.md, never hand-edited.
type IndexEntry struct {
	Name         string    `json:"name"`
	Title        string    `json:"title"`
	Domain       string    `json:"domain"`
	Description  string    `json:"description"`
	Version      string    `json:"version"`
	Tags         []string  `json:"tags,omitempty"`
	Author       string    `json:"author,omitempty"`
	Tools        []string  `json:"tools"`
	ScriptCount  int       `json:"scriptCount"`
	Path         string    `json:"path"`
	HasSkillMd   bool      `json:"hasSkillMd"`
	LastModified time.Time `json:"lastModified"`
}

// Index is the persisted manifest of all skills under the skills root.
// It is a disposable projection: always reconstructable by a rescan.
type Index struct {
	Version     string       `json:"version"`
	Skills      []IndexEntry `json:"skills"`
	TotalSkills int          `json:"totalSkills"`
	TotalTools  int          `json:"totalTools"`
	GeneratedAt time.Time    `json:"generatedAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ScriptSpec is a script to materialize under the skill's scripts/ directory.
type ScriptSpec struct {
	Name    string
	Content string
}

// SkillSpec is the authoring-side description of a skill, rendered to
// disk by the Generator and recovered from disk by the codec. Optional
// fields are omitted from the rendered document when empty.
type SkillSpec struct {
	Name           string
	Description    string
	QuickStart     string
	ExecutionSteps []string
	BestPractices  []string
	Examples       []string
	Domain         string
	Version        string
	Author         string
	Tags           []string
	Scripts        []ScriptSpec
}

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue is a single finding against a SkillSpec field.
type ValidationIssue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// ValidationResult aggregates issues; Valid means no error-severity issues.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}
