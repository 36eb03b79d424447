package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfkit/internal/builder"
	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/loader"
	"github.com/vk/tfkit/internal/model"
	"github.com/vk/tfkit/internal/resolver"
)

func buildGraph(t *testing.T, src string) *Graph {
	t.Helper()
	ctx := context.Background()
	raw := loader.ParseSource(ctx, "main.tf", []byte(src))
	built, err := builder.Build(ctx, []model.RawFile{raw})
	require.NoError(t, err)
	resolved := resolver.Resolve(ctx, built.Nodes)
	return New(built.Nodes, resolved.Edges, resolved.FailuresByOwner(), built.Errors)
}

func addrStrings(nodes []*model.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Addr.String()
	}
	return out
}

// TestGraph_EdgeDeduplication validates that duplicate (from, to) pairs
// collapse at publication with the first edge's tag surviving.
func TestGraph_EdgeDeduplication(t *testing.T) {
	t.Parallel()

	web := model.ResourceAddress("aws_instance", "web")
	vpc := model.ResourceAddress("aws_vpc", "main")
	nodes := []*model.Node{
		{Kind: model.KindResource, Addr: web},
		{Kind: model.KindResource, Addr: vpc},
	}
	edges := []model.Edge{
		{From: web, To: vpc, Via: model.ViaDependsOn},
		{From: web, To: vpc, Via: model.ViaImplicit},
	}

	g := New(nodes, edges, nil, nil)
	require.Len(t, g.Edges(), 1)
	assert.Equal(t, model.ViaDependsOn, g.Edges()[0].Via)
}

// TestGraph_Unused validates that variables, locals and data sources with no
// inbound edges are reported while referenced ones are not.
func TestGraph_Unused(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
variable "used" {}
variable "never" {}

locals {
  idle = "x"
}

data "aws_ami" "lonely" {
  owners = ["self"]
}

resource "aws_instance" "web" {
  ami = var.used
}
`)

	unused := addrStrings(g.Unused(false))
	assert.ElementsMatch(t, []string{"var.never", "local.idle", "data.aws_ami.lonely"}, unused)
}

// TestGraph_UnusedSensitiveExemption validates the opt-in exemption for
// sensitive-flagged variables.
func TestGraph_UnusedSensitiveExemption(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
variable "password" {
  sensitive = true
}
`)

	assert.Len(t, g.Unused(false), 1)
	assert.Empty(t, g.Unused(true))
}

// TestGraph_OrphanedOutputs validates that outputs carrying only literals
// are orphaned while connected outputs are not.
func TestGraph_OrphanedOutputs(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
resource "aws_instance" "web" {
  ami = "ami-123"
}

output "connected" {
  value = aws_instance.web.id
}

output "dead" {
  value = "fixed"
}
`)

	orphaned := addrStrings(g.OrphanedOutputs())
	assert.Equal(t, []string{"output.dead"}, orphaned)
}

// TestGraph_Incomplete validates the three incompleteness triggers: own
// resolution failures, a missing required attribute, and an empty resource
// body.
func TestGraph_Incomplete(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
module "vpc" {
  version = "1.0"
}

resource "aws_instance" "empty" {
}

resource "aws_instance" "dangling" {
  ami = var.nope
}

resource "aws_instance" "fine" {
  ami = "ami-123"
}
`)

	incomplete := addrStrings(g.Incomplete(config.Default().RequiredAttributes))
	assert.ElementsMatch(t,
		[]string{"module.vpc", "aws_instance.empty", "aws_instance.dangling"},
		incomplete)
}

// TestGraph_ReachableFrom validates the reachability walk from default
// roots.
func TestGraph_ReachableFrom(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
variable "ami" {}
variable "island" {}

resource "aws_instance" "web" {
  ami = var.ami
}
`)

	reachable := g.ReachableFrom(g.DefaultRoots())
	assert.True(t, reachable[model.ResourceAddress("aws_instance", "web")])
	assert.True(t, reachable[model.VariableAddress("ami")])
	assert.False(t, reachable[model.VariableAddress("island")])
}

// TestGraph_AccessorsReturnCopies validates that mutating a returned slice
// does not corrupt the graph.
func TestGraph_AccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, `
variable "a" {}
variable "b" {}
`)

	nodes := g.Nodes()
	require.Len(t, nodes, 2)
	nodes[0], nodes[1] = nodes[1], nodes[0]
	assert.Equal(t, "var.a", g.Nodes()[0].Addr.String())
}

func TestScore_Bounds(t *testing.T) {
	t.Parallel()

	w := config.Default().ScoreWeights
	assert.Equal(t, 100, Score(w, 0, 0, 0, 0, 0))
	assert.Equal(t, 0, Score(w, 50, 0, 0, 50, 0), "score clamps at zero")
	assert.Equal(t, 90, Score(w, 1, 1, 1, 0, 0))
	assert.Equal(t, 77, Score(w, 1, 1, 1, 1, 1))
}
