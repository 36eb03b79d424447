package model

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Rank orders severities for sorting: ERROR before WARNING before INFO.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Category groups validation rules.
type Category string

const (
	CategorySyntax       Category = "syntax"
	CategoryReferences   Category = "references"
	CategoryBestPractice Category = "best-practices"
	CategorySecurity     Category = "security"
)

// AllCategories lists every category in evaluation order.
var AllCategories = []Category{
	CategorySyntax,
	CategoryReferences,
	CategoryBestPractice,
	CategorySecurity,
}

// Issue is a single validation finding. Issues are immutable value objects
// created only by rule evaluation.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	RuleID     string   `json:"rule_id"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Resource   string   `json:"resource,omitempty"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// SortIssuesLess is the canonical ordering for issue lists: by file, line,
// severity rank, then rule id. Required for reproducible diffs between runs.
func SortIssuesLess(a, b Issue) bool {
	if a.File != b.File {
		return a.File < b.File
	}
	if a.Line != b.Line {
		return a.Line < b.Line
	}
	if a.Severity.Rank() != b.Severity.Rank() {
		return a.Severity.Rank() < b.Severity.Rank()
	}
	if a.RuleID != b.RuleID {
		return a.RuleID < b.RuleID
	}
	return a.Message < b.Message
}
