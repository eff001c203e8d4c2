package skills

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"
)

// frontmatter is the typed view of the YAML metadata block. Field order
// here is the order rendered to disk.
type frontmatter struct {
	Name        string   `yaml:"name,omitempty" mapstructure:"name"`
	Description string   `yaml:"description,omitempty" mapstructure:"description"`
	Domain      string   `yaml:"domain,omitempty" mapstructure:"domain"`
	Version     string   `yaml:"version,omitempty" mapstructure:"version"`
	Author      string   `yaml:"author,omitempty" mapstructure:"author"`
	Tags        []string `yaml:"tags,omitempty,flow" mapstructure:"tags"`
}

// sectionKind is the closed set of body sections the scanner dispatches
// on. Unrecognized H2 headers map to sectionOther and are inert.
type sectionKind int

const (
	sectionNone sectionKind = iota
	sectionUsage
	sectionQuickStart
	sectionSteps
	sectionPractices
	sectionDependencies
	sectionTools
	sectionExamples
	sectionOther
)

// sectionAliases folds English and localized header synonyms onto
// section kinds. Headers are lowercased before lookup.
var sectionAliases = map[string]sectionKind{
	"usage":           sectionUsage,
	"usage scenarios": sectionUsage,
	"when to use":     sectionUsage,
	"使用场景":            sectionUsage,
	"quick start":     sectionQuickStart,
	"quickstart":      sectionQuickStart,
	"快速开始":            sectionQuickStart,
	"steps":           sectionSteps,
	"execution steps": sectionSteps,
	"execution flow":  sectionSteps,
	"执行流程":            sectionSteps,
	"执行步骤":            sectionSteps,
	"best practices":  sectionPractices,
	"最佳实践":            sectionPractices,
	"dependencies":    sectionDependencies,
	"tool dependencies": sectionDependencies,
	"依赖":              sectionDependencies,
	"工具依赖":            sectionDependencies,
	"tools":           sectionTools,
	"工具":              sectionTools,
	"examples":        sectionExamples,
	"example":         sectionExamples,
	"示例":              sectionExamples,
	"使用示例":            sectionExamples,
}

// boldMetaKeys maps bold **Key**: value lines onto metadata fields,
// localized aliases included.
var boldMetaKeys = map[string]string{
	"domain":      "domain",
	"领域":          "domain",
	"version":     "version",
	"版本":          "version",
	"description": "description",
	"描述":          "description",
	"tags":        "tags",
	"标签":          "tags",
	"author":      "author",
	"作者":          "author",
}

var (
	boldMetaRe  = regexp.MustCompile(`^\*\*(.+?)\*\*\s*[:：]\s*(.*)$`)
	listItemRe  = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+(.*)$`)
	toolTokenRe = regexp.MustCompile(`(?:mcp|skill):[A-Za-z0-9_./:-]+`)
	backtickRe  = regexp.MustCompile("`([^`]+)`")
)

// ParseDocument parses SKILL.md content into a SkillDocument. name is
// the owning directory's basename and is the fallback identity when the
// frontmatter declares none. Malformed frontmatter and unrecognized
// body structure degrade to defaults; a missing name is the only fatal
// condition.
func ParseDocument(content, name, docPath, dirPath string) (*SkillDocument, error) {
	fm := decodeFrontmatter(parseFrontmatter(content))

	doc := &SkillDocument{
		Name:        fm.Name,
		Domain:      fm.Domain,
		Description: fm.Description,
		Version:     fm.Version,
		Author:      fm.Author,
		Tags:        fm.Tags,
		RawContent:  content,
		DocPath:     docPath,
		DirPath:     dirPath,
	}
	if doc.Name == "" {
		doc.Name = name
	}
	if doc.Name == "" {
		return nil, errors.New("skill document has no name")
	}

	scanBody(stripFrontmatter(content), doc)

	if doc.Title == "" {
		doc.Title = titleFromName(doc.Name)
	}
	if !IsValidDomain(doc.Domain) {
		doc.Domain = DomainGeneral
	}
	if doc.Version == "" {
		doc.Version = "1.0.0"
	}
	return doc, nil
}

// parseFrontmatter extracts the YAML metadata block. Missing or
// malformed frontmatter yields an empty map, never an error.
func parseFrontmatter(content string) map[string]any {
	if !strings.HasPrefix(content, "---") {
		return map[string]any{}
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert([]byte(content), &buf, parser.WithContext(pctx)); err != nil {
		return map[string]any{}
	}

	data := meta.Get(pctx)
	if data == nil {
		return map[string]any{}
	}
	return data
}

// decodeFrontmatter applies the typed schema over the raw metadata map.
// Unknown keys are ignored and type mismatches coerced where possible;
// an undecodable map degrades to zero values.
func decodeFrontmatter(m map[string]any) frontmatter {
	var fm frontmatter
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &fm,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fm
	}
	if err := dec.Decode(m); err != nil {
		return frontmatter{}
	}
	fm.Name = strings.TrimSpace(fm.Name)
	if !IsValidDomain(fm.Domain) {
		fm.Domain = ""
	}
	return fm
}

// stripFrontmatter returns the markdown body following the closing ---
// line, or the whole content when the frontmatter is absent or unclosed.
func stripFrontmatter(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}

// scanBody walks the markdown body line by line, tracking the current
// section and open code fence. Dispatch priority per line: code fence
// state, H1 title, H2 section switch, bold metadata, then
// section-specific accumulation.
func scanBody(body string, doc *SkillDocument) {
	current := sectionNone
	inCode := false
	var code []string
	var usage, quick []string

	flushCode := func() {
		block := strings.Join(code, "\n")
		code = code[:0]
		if strings.TrimSpace(block) == "" {
			return
		}
		if current == sectionQuickStart {
			quick = append(quick, block)
			return
		}
		doc.Examples = append(doc.Examples, block)
	}

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if inCode {
			if strings.HasPrefix(trimmed, "```") {
				inCode = false
				flushCode()
			} else {
				code = append(code, line)
			}
			continue
		}
		if strings.HasPrefix(trimmed, "```") {
			inCode = true
			continue
		}

		if strings.HasPrefix(trimmed, "# ") {
			doc.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			continue
		}
		if strings.HasPrefix(trimmed, "## ") {
			current = classifySection(strings.TrimPrefix(trimmed, "## "))
			continue
		}
		if m := boldMetaRe.FindStringSubmatch(trimmed); m != nil {
			if applyBoldMeta(doc, m[1], m[2]) {
				continue
			}
		}

		switch current {
		case sectionUsage:
			usage = append(usage, line)
		case sectionQuickStart:
			quick = append(quick, line)
		case sectionSteps:
			if p, ok := listPayload(trimmed); ok {
				doc.ExecutionSteps = append(doc.ExecutionSteps, p)
			}
		case sectionPractices:
			if p, ok := listPayload(trimmed); ok {
				doc.BestPractices = append(doc.BestPractices, p)
			}
		case sectionDependencies:
			if p, ok := listPayload(trimmed); ok {
				if tok := toolTokenRe.FindString(p); tok != "" {
					doc.ToolDependencies = append(doc.ToolDependencies, tok)
				} else {
					doc.ToolDependencies = append(doc.ToolDependencies, p)
				}
			}
		case sectionTools:
			if m := backtickRe.FindStringSubmatch(trimmed); m != nil {
				doc.ToolDependencies = append(doc.ToolDependencies, m[1])
			}
		case sectionExamples:
			if p, ok := listPayload(trimmed); ok {
				doc.Examples = append(doc.Examples, p)
			} else if trimmed != "" {
				doc.Examples = append(doc.Examples, trimmed)
			}
		}
	}

	// Unterminated fence at EOF still flushes.
	if inCode {
		flushCode()
	}

	doc.UsageScenarios = strings.TrimSpace(strings.Join(usage, "\n"))
	doc.QuickStart = strings.TrimSpace(strings.Join(quick, "\n"))
}

func classifySection(header string) sectionKind {
	h := strings.ToLower(strings.TrimSpace(header))
	if k, ok := sectionAliases[h]; ok {
		return k
	}
	return sectionOther
}

// applyBoldMeta dispatches a **Key**: value line. Returns false for
// unrecognized keys so the line falls through to section accumulation.
func applyBoldMeta(doc *SkillDocument, key, value string) bool {
	field, ok := boldMetaKeys[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return false
	}
	value = strings.TrimSpace(value)
	switch field {
	case "domain":
		if IsValidDomain(value) {
			doc.Domain = value
		}
	case "version":
		doc.Version = value
	case "description":
		doc.Description = value
	case "author":
		doc.Author = value
	case "tags":
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" {
				doc.Tags = append(doc.Tags, t)
			}
		}
	}
	return true
}

func listPayload(line string) (string, bool) {
	m := listItemRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// titleFromName turns a kebab-case slug into a display title,
// e.g. "log-tool" -> "Log Tool".
func titleFromName(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// RenderDocument is the inverse of ParseDocument: it renders a
// SkillSpec into SKILL.md content. Only present fields reach the
// frontmatter and only non-empty sections are emitted, so
// ParseDocument(RenderDocument(spec)) reproduces every field the
// renderer encoded.
func RenderDocument(spec SkillSpec) string {
	var b strings.Builder

	fm := frontmatter{
		Name:        spec.Name,
		Description: spec.Description,
		Domain:      spec.Domain,
		Version:     spec.Version,
		Author:      spec.Author,
		Tags:        spec.Tags,
	}
	b.WriteString("---\n")
	if out, err := yaml.Marshal(&fm); err == nil {
		b.Write(out)
	}
	b.WriteString("---\n\n")

	b.WriteString("# " + titleFromName(spec.Name) + "\n")

	if spec.QuickStart != "" {
		b.WriteString("\n## Quick Start\n\n")
		b.WriteString(spec.QuickStart)
		b.WriteString("\n")
	}
	if len(spec.ExecutionSteps) > 0 {
		b.WriteString("\n## Execution Steps\n\n")
		for i, step := range spec.ExecutionSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}
	if len(spec.BestPractices) > 0 {
		b.WriteString("\n## Best Practices\n\n")
		for _, p := range spec.BestPractices {
			b.WriteString("- " + p + "\n")
		}
	}
	if len(spec.Examples) > 0 {
		b.WriteString("\n## Examples\n\n")
		for _, e := range spec.Examples {
			if strings.Contains(e, "\n") {
				b.WriteString("```\n" + e + "\n```\n")
			} else {
				b.WriteString("- " + e + "\n")
			}
		}
	}

	return b.String()
}

// SpecFromDocument recovers the authoring-side spec from a parsed
// document: the frontmatter fields plus the four rendered sections.
func SpecFromDocument(doc *SkillDocument) SkillSpec {
	return SkillSpec{
		Name:           doc.Name,
		Description:    doc.Description,
		QuickStart:     doc.QuickStart,
		ExecutionSteps: doc.ExecutionSteps,
		BestPractices:  doc.BestPractices,
		Examples:       doc.Examples,
		Domain:         doc.Domain,
		Version:        doc.Version,
		Author:         doc.Author,
		Tags:           doc.Tags,
	}
}
