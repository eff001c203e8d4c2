package skills

import "github.com/pkg/errors"

var (
	// ErrSkillExists is returned by CreateSkill when the target
	// directory already exists.
	ErrSkillExists = errors.New("skill already exists")

	// ErrSkillNotFound is returned by UpdateSkill when there is no
	// existing SKILL.md to merge into. Read paths never return it;
	// they report not-found as a nil result.
	ErrSkillNotFound = errors.New("skill not found")
)
