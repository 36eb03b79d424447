// Package model defines the semantic objects shared by every stage of a scan:
// raw parsed blocks, configuration nodes, reference edges, validation issues
// and the non-fatal error taxonomy.
package model

// Kind identifies what sort of configuration object a node represents.
type Kind string

const (
	KindResource          Kind = "resource"
	KindDataSource        Kind = "data_source"
	KindVariable          Kind = "variable"
	KindOutput            Kind = "output"
	KindLocal             Kind = "local"
	KindProvider          Kind = "provider"
	KindModule            Kind = "module"
	KindTerraformSettings Kind = "terraform_settings"

	// KindInvalid marks placeholder nodes standing in for blocks the parser
	// could not classify at all. It is not a declarable kind.
	KindInvalid Kind = "invalid"
)

// AllKinds lists every kind in a fixed order, used when deterministic
// iteration over kinds is required.
var AllKinds = []Kind{
	KindResource,
	KindDataSource,
	KindVariable,
	KindOutput,
	KindLocal,
	KindProvider,
	KindModule,
	KindTerraformSettings,
}
