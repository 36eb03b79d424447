package model

// EdgeVia tags how a reference edge was discovered.
type EdgeVia string

const (
	// ViaImplicit marks edges found by scanning attribute expressions.
	ViaImplicit EdgeVia = "implicit"
	// ViaDependsOn marks edges declared in an explicit depends_on list.
	ViaDependsOn EdgeVia = "depends_on"
	// ViaMeta marks edges found in count/for_each meta-argument expressions.
	ViaMeta EdgeVia = "meta"
)

// Edge is a directed dependency: From references To. Duplicate edges between
// the same ordered pair collapse regardless of how many expressions produced
// them; depends_on takes precedence over implicit when both exist.
type Edge struct {
	From Address
	To   Address
	Via  EdgeVia
}
