package model

import "strings"

// Address is the composite identity of a configuration object. Type is only
// meaningful for resources, data sources and providers; for providers Name
// holds the alias (empty for the default provider configuration).
type Address struct {
	Kind Kind
	Type string
	Name string
}

// String renders the address in the form used throughout Terraform
// expressions, e.g. "aws_instance.web", "data.aws_ami.ubuntu", "var.region".
func (a Address) String() string {
	switch a.Kind {
	case KindResource:
		return a.Type + "." + a.Name
	case KindDataSource:
		return "data." + a.Type + "." + a.Name
	case KindVariable:
		return "var." + a.Name
	case KindOutput:
		return "output." + a.Name
	case KindLocal:
		return "local." + a.Name
	case KindModule:
		return "module." + a.Name
	case KindProvider:
		if a.Name == "" {
			return "provider." + a.Type
		}
		return "provider." + a.Type + "." + a.Name
	case KindTerraformSettings:
		return "terraform"
	case KindInvalid:
		return "invalid." + a.Name
	}
	return string(a.Kind) + "." + a.Type + "." + a.Name
}

// Less orders addresses lexicographically by their rendered form, with the
// kind as a tiebreaker so distinct identities never compare equal.
func (a Address) Less(other Address) bool {
	as, os := a.String(), other.String()
	if as != os {
		return as < os
	}
	return a.Kind < other.Kind
}

// ResourceAddress builds the address of a managed resource.
func ResourceAddress(resourceType, name string) Address {
	return Address{Kind: KindResource, Type: resourceType, Name: name}
}

// DataAddress builds the address of a data source.
func DataAddress(dataType, name string) Address {
	return Address{Kind: KindDataSource, Type: dataType, Name: name}
}

// VariableAddress builds the address of an input variable.
func VariableAddress(name string) Address {
	return Address{Kind: KindVariable, Name: name}
}

// OutputAddress builds the address of an output value.
func OutputAddress(name string) Address {
	return Address{Kind: KindOutput, Name: name}
}

// LocalAddress builds the address of a local value.
func LocalAddress(name string) Address {
	return Address{Kind: KindLocal, Name: name}
}

// ModuleAddress builds the address of a module call.
func ModuleAddress(name string) Address {
	return Address{Kind: KindModule, Name: name}
}

// ProviderAddress builds the address of a provider configuration. An empty
// alias identifies the default configuration for that provider type.
func ProviderAddress(providerType, alias string) Address {
	return Address{Kind: KindProvider, Type: providerType, Name: alias}
}

// TerraformSettingsAddress is the identity of the merged terraform settings
// block.
func TerraformSettingsAddress() Address {
	return Address{Kind: KindTerraformSettings}
}

// BaseName strips a trailing index or attribute path from a rendered
// reference, e.g. "aws_instance.web[0].id" -> "aws_instance.web". It operates
// on the textual form only; it never consults declared objects.
func BaseName(ref string) string {
	if i := strings.IndexByte(ref, '['); i >= 0 {
		ref = ref[:i]
	}
	return ref
}
