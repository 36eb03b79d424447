package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfkit/internal/loader"
	"github.com/vk/tfkit/internal/model"
)

func parse(t *testing.T, filename, src string) model.RawFile {
	t.Helper()
	return loader.ParseSource(context.Background(), filename, []byte(src))
}

func TestBuild_EmptyInputIsFatal(t *testing.T) {
	t.Parallel()

	_, err := Build(context.Background(), nil)
	require.ErrorIs(t, err, model.ErrNoInput)
}

// TestBuild_DuplicateFirstWins validates the merge contract: the first
// declaration of an identity survives, the second is recorded as a build
// error and dropped.
func TestBuild_DuplicateFirstWins(t *testing.T) {
	t.Parallel()

	first := parse(t, "a.tf", `
variable "region" {
  default = "eu-west-1"
}
`)
	second := parse(t, "b.tf", `
variable "region" {
  default = "us-east-1"
}
`)

	res, err := Build(context.Background(), []model.RawFile{first, second})
	require.NoError(t, err)

	require.Len(t, res.Nodes, 1)
	assert.Equal(t, "a.tf", res.Nodes[0].Location.File)

	require.Len(t, res.Errors, 1)
	var dup *model.DuplicateDeclarationError
	require.True(t, errors.As(res.Errors[0], &dup))
	assert.Equal(t, model.VariableAddress("region"), dup.Addr)
	assert.Equal(t, "a.tf", dup.First.File)
	assert.Equal(t, "b.tf", dup.Shadowed.File)
}

// TestBuild_SameNameDifferentKindsCoexist validates that identity is scoped
// per kind: a variable and an output may share a name.
func TestBuild_SameNameDifferentKindsCoexist(t *testing.T) {
	t.Parallel()

	file := parse(t, "main.tf", `
variable "ip" {
  type = string
}

output "ip" {
  value = var.ip
}
`)

	res, err := Build(context.Background(), []model.RawFile{file})
	require.NoError(t, err)
	assert.Len(t, res.Nodes, 2)
	assert.Empty(t, res.Errors)
}

// TestBuild_TerraformSettingsMerge validates the singleton merge: terraform
// blocks across files fold into one node instead of colliding.
func TestBuild_TerraformSettingsMerge(t *testing.T) {
	t.Parallel()

	a := parse(t, "versions.tf", `
terraform {
  required_version = ">= 1.5"
}
`)
	b := parse(t, "backend.tf", `
terraform {
  backend "s3" {
    bucket = "state"
  }
}
`)

	res, err := Build(context.Background(), []model.RawFile{a, b})
	require.NoError(t, err)
	require.Len(t, res.Nodes, 1)
	assert.Empty(t, res.Errors)

	settings := res.Nodes[0]
	assert.Equal(t, model.KindTerraformSettings, settings.Kind)
	assert.Len(t, settings.Attrs, 1)
	assert.Len(t, settings.Blocks, 1)
}

// TestBuild_ProviderAliases validates that aliased provider blocks get
// distinct identities while unaliased ones keep the bare type.
func TestBuild_ProviderAliases(t *testing.T) {
	t.Parallel()

	file := parse(t, "providers.tf", `
provider "aws" {
  region = "eu-west-1"
}

provider "aws" {
  alias  = "us"
  region = "us-east-1"
}
`)

	res, err := Build(context.Background(), []model.RawFile{file})
	require.NoError(t, err)
	require.Len(t, res.Nodes, 2)
	assert.Empty(t, res.Errors)

	assert.Equal(t, "provider.aws", res.Nodes[0].Addr.String())
	assert.Equal(t, "provider.aws.us", res.Nodes[1].Addr.String())
}

// TestBuild_MalformedBlockBecomesPlaceholder validates degradation: a
// malformed block yields a placeholder node plus a recorded error, and the
// rest of the file still builds.
func TestBuild_MalformedBlockBecomesPlaceholder(t *testing.T) {
	t.Parallel()

	file := parse(t, "main.tf", `
resource "aws_instance" {
  ami = "ami-123"
}

variable "region" {
  type = string
}
`)

	res, err := Build(context.Background(), []model.RawFile{file})
	require.NoError(t, err)
	require.Len(t, res.Nodes, 2)

	var placeholder *model.Node
	for _, n := range res.Nodes {
		if n.IsPlaceholder() {
			placeholder = n
		}
	}
	require.NotNil(t, placeholder)
	assert.Equal(t, model.KindInvalid, placeholder.Kind)

	var malformed *model.MalformedBlockError
	require.Len(t, res.Errors, 1)
	require.True(t, errors.As(res.Errors[0], &malformed))
}

// TestBuild_MetaFlags validates presence detection of meta-arguments without
// evaluating them.
func TestBuild_MetaFlags(t *testing.T) {
	t.Parallel()

	file := parse(t, "main.tf", `
resource "aws_instance" "web" {
  count      = 3
  ami        = "ami-123"
  depends_on = [aws_vpc.main]
}

resource "aws_vpc" "main" {
  cidr_block = "10.0.0.0/16"
}

variable "password" {
  sensitive = true
  default   = ""
}
`)

	res, err := Build(context.Background(), []model.RawFile{file})
	require.NoError(t, err)
	require.Len(t, res.Nodes, 3)

	byAddr := make(map[string]*model.Node)
	for _, n := range res.Nodes {
		byAddr[n.Addr.String()] = n
	}

	web := byAddr["aws_instance.web"]
	require.NotNil(t, web)
	assert.True(t, web.Meta.Count)
	assert.True(t, web.Meta.DependsOn)
	assert.False(t, web.Meta.ForEach)

	password := byAddr["var.password"]
	require.NotNil(t, password)
	assert.True(t, password.Meta.Sensitive)
	assert.True(t, password.Meta.Default)
}

// TestBuild_NodesSortedByAddress validates that the published node order
// does not depend on file order.
func TestBuild_NodesSortedByAddress(t *testing.T) {
	t.Parallel()

	a := parse(t, "a.tf", `
variable "zeta" {}
`)
	b := parse(t, "b.tf", `
variable "alpha" {}
`)

	forward, err := Build(context.Background(), []model.RawFile{a, b})
	require.NoError(t, err)
	reverse, err := Build(context.Background(), []model.RawFile{b, a})
	require.NoError(t, err)

	require.Len(t, forward.Nodes, 2)
	require.Len(t, reverse.Nodes, 2)
	assert.Equal(t, forward.Nodes[0].Addr, reverse.Nodes[0].Addr)
	assert.Equal(t, forward.Nodes[1].Addr, reverse.Nodes[1].Addr)
}
