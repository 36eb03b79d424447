package report

import (
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/validator"
)

// SARIF 2.1.0 shapes, reduced to the fields code-scanning consumers read.

type SarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []SarifRun `json:"runs"`
}

type SarifRun struct {
	Tool    SarifTool     `json:"tool"`
	Results []SarifResult `json:"results"`
}

type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

type SarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []SarifRule `json:"rules"`
}

type SarifRule struct {
	ID               string       `json:"id"`
	ShortDescription SarifMessage `json:"shortDescription"`
}

type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

type SarifMessage struct {
	Text string `json:"text"`
}

type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
	Region           SarifRegion           `json:"region"`
}

type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

type SarifRegion struct {
	StartLine int `json:"startLine"`
}

const sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

// Sarif renders the issue list as a single-run SARIF log. Only rules that
// produced at least one result are listed in the driver, in first-seen order.
func Sarif(toolVersion string, issues []model.Issue, rules []validator.Rule) SarifLog {
	descriptions := make(map[string]string, len(rules))
	for _, r := range rules {
		descriptions[r.ID] = r.Description
	}

	seen := make(map[string]bool)
	var sarifRules []SarifRule
	results := make([]SarifResult, 0, len(issues))
	for _, issue := range issues {
		if !seen[issue.RuleID] {
			seen[issue.RuleID] = true
			sarifRules = append(sarifRules, SarifRule{
				ID:               issue.RuleID,
				ShortDescription: SarifMessage{Text: descriptions[issue.RuleID]},
			})
		}
		text := issue.Message
		if issue.Suggestion != "" {
			text += ". " + issue.Suggestion
		}
		results = append(results, SarifResult{
			RuleID:  issue.RuleID,
			Level:   sarifLevel(issue.Severity),
			Message: SarifMessage{Text: text},
			Locations: []SarifLocation{{
				PhysicalLocation: SarifPhysicalLocation{
					ArtifactLocation: SarifArtifactLocation{URI: issue.File},
					Region:           SarifRegion{StartLine: issue.Line},
				},
			}},
		})
	}

	return SarifLog{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []SarifRun{{
			Tool: SarifTool{Driver: SarifDriver{
				Name:    "tfkit",
				Version: toolVersion,
				Rules:   sarifRules,
			}},
			Results: results,
		}},
	}
}

func sarifLevel(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "error"
	case model.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
