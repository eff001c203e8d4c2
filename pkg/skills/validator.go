package skills

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/skilletlabs/skillet/pkg/llm"
	"github.com/skilletlabs/skillet/pkg/logger"
)

var (
	kebabCaseRe = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	semverRe    = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.-]+)?$`)
)

const maxNameLength = 50

// semanticInstruction is the fixed instruction sent to the provider for
// the advisory semantic pass.
const semanticInstruction = `Review the following skill specification for semantic problems:
unclear descriptions, steps that do not match the stated purpose,
misleading examples, or missing prerequisites. Respond with ONLY a JSON
array of issues, each shaped as {"field": "...", "message": "...",
"severity": "error"|"warning"|"info"}. Respond with [] if there are no
issues.`

// ValidateStructure runs the pure structural rule set over a spec.
// The result is valid iff no error-severity issues were found.
func ValidateStructure(spec SkillSpec) ValidationResult {
	var issues []ValidationIssue

	name := strings.TrimSpace(spec.Name)
	switch {
	case name == "":
		issues = append(issues, ValidationIssue{Field: "name", Message: "name is required", Severity: SeverityError})
	default:
		if !kebabCaseRe.MatchString(name) {
			issues = append(issues, ValidationIssue{Field: "name", Message: "name must be kebab-case (lowercase letters, digits, hyphens)", Severity: SeverityError})
		}
		if len(name) > maxNameLength {
			issues = append(issues, ValidationIssue{Field: "name", Message: fmt.Sprintf("name must be at most %d characters", maxNameLength), Severity: SeverityError})
		}
	}

	desc := strings.TrimSpace(spec.Description)
	switch {
	case desc == "":
		issues = append(issues, ValidationIssue{Field: "description", Message: "description is required", Severity: SeverityError})
	case len(desc) < 20:
		issues = append(issues, ValidationIssue{Field: "description", Message: "description is very short; aim for at least 20 characters", Severity: SeverityWarning})
	case len(desc) > 500:
		issues = append(issues, ValidationIssue{Field: "description", Message: "description is very long; keep it under 500 characters", Severity: SeverityWarning})
	}

	if spec.Domain != "" && !IsValidDomain(spec.Domain) {
		issues = append(issues, ValidationIssue{Field: "domain", Message: fmt.Sprintf("unknown domain %q", spec.Domain), Severity: SeverityError})
	}

	if spec.Version != "" && !semverRe.MatchString(spec.Version) {
		issues = append(issues, ValidationIssue{Field: "version", Message: fmt.Sprintf("version %q does not look like semver", spec.Version), Severity: SeverityWarning})
	}

	for i, step := range spec.ExecutionSteps {
		if strings.TrimSpace(step) == "" {
			issues = append(issues, ValidationIssue{Field: fmt.Sprintf("executionSteps[%d]", i), Message: "step is empty", Severity: SeverityWarning})
		}
	}

	for _, tag := range spec.Tags {
		if strings.IndexFunc(tag, unicode.IsSpace) >= 0 {
			issues = append(issues, ValidationIssue{Field: "tags", Message: fmt.Sprintf("tag %q contains whitespace", tag), Severity: SeverityWarning})
		}
	}

	return ValidationResult{Valid: !hasErrors(issues), Issues: issues}
}

// ValidateSemantics delegates an advisory review to the provider. Any
// provider failure or unparseable response degrades to "no issues":
// semantic validation never blocks a write.
func ValidateSemantics(ctx context.Context, spec SkillSpec, provider llm.Capability) []ValidationIssue {
	if provider == nil {
		return nil
	}

	prompt := semanticInstruction + "\n\n" + RenderDocument(spec)
	resp, err := provider.Generate(ctx, prompt)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("semantic validation unavailable, skipping")
		return nil
	}
	return parseIssueList(ctx, resp)
}

// parseIssueList decodes the provider's JSON issue array, tolerating
// surrounding code fences and skipping malformed elements.
func parseIssueList(ctx context.Context, response string) []ValidationIssue {
	body := strings.TrimSpace(response)
	if strings.HasPrefix(body, "```") {
		if i := strings.IndexByte(body, '\n'); i >= 0 {
			body = body[i+1:]
		}
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		logger.G(ctx).WithError(err).Debug("semantic validation response is not a JSON array, ignoring")
		return nil
	}

	var issues []ValidationIssue
	for _, r := range raw {
		var issue struct {
			Field    string `json:"field"`
			Message  string `json:"message"`
			Severity string `json:"severity"`
		}
		if err := json.Unmarshal(r, &issue); err != nil || issue.Message == "" {
			continue
		}
		severity := Severity(strings.ToLower(issue.Severity))
		if severity != SeverityError && severity != SeverityWarning && severity != SeverityInfo {
			severity = SeverityInfo
		}
		issues = append(issues, ValidationIssue{Field: issue.Field, Message: issue.Message, Severity: severity})
	}
	return issues
}

// Validate runs the structural rules and, only when they pass, the
// semantic pass. Skipping the provider on structural failure keeps
// provider cost off spec that would be rejected anyway.
func Validate(ctx context.Context, spec SkillSpec, provider llm.Capability) ValidationResult {
	result := ValidateStructure(spec)
	if !result.Valid {
		return result
	}
	result.Issues = append(result.Issues, ValidateSemantics(ctx, spec, provider)...)
	result.Valid = !hasErrors(result.Issues)
	return result
}

func hasErrors(issues []ValidationIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
