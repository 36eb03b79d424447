package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/model"
)

func writeConfig(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, src := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644))
	}
}

func runScan(t *testing.T, opts config.Options, files map[string]string) *Result {
	t.Helper()
	dir := t.TempDir()
	writeConfig(t, dir, files)

	scanner, err := New(opts)
	require.NoError(t, err)
	res, err := scanner.Scan(context.Background(), dir)
	require.NoError(t, err)
	return res
}

// TestScan_UnusedVariableScenario validates the canonical small scenario: a
// variable nothing references, one resource, one connected output.
func TestScan_UnusedVariableScenario(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"main.tf": `
variable "region" {
  type        = string
  description = "unused region"
}

resource "aws_instance" "web" {
  ami           = "ami-123"
  instance_type = "t3.micro"
  tags = {
    Name = "web"
  }
}

output "ip" {
  value       = aws_instance.web.public_ip
  description = "instance address"
}
`,
	})

	assert.Equal(t, 1, res.Health.UnusedCount)
	assert.Equal(t, 0, res.Health.OrphanedCount)
	assert.Equal(t, 0, res.Health.IncompleteCount)
	assert.Zero(t, res.Errors)

	referencesWarnings := 0
	for _, issue := range res.Issues {
		if issue.Category == model.CategoryReferences && issue.Severity == model.SeverityWarning {
			referencesWarnings++
			assert.Equal(t, "var.region", issue.Resource)
		}
	}
	assert.Equal(t, 1, referencesWarnings)
}

// TestScan_NoInputIsFatal validates the single fatal precondition.
func TestScan_NoInputIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	scanner, err := New(config.Options{})
	require.NoError(t, err)

	_, err = scanner.Scan(context.Background(), dir)
	require.ErrorIs(t, err, model.ErrNoInput)
}

// TestScan_BrokenFileDoesNotAbort validates aggregation: a file full of
// syntax errors produces issues, not a failed scan.
func TestScan_BrokenFileDoesNotAbort(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"broken.tf": `resource "aws_instance" {{{`,
		"good.tf": `
output "constant" {
  value       = "fixed"
  description = "hardwired"
}
`,
	})

	require.NotEmpty(t, res.Issues)
	syntaxErrors := 0
	for _, issue := range res.Issues {
		if issue.Category == model.CategorySyntax {
			syntaxErrors++
			assert.Equal(t, model.SeverityError, issue.Severity)
		}
	}
	assert.Equal(t, 1, syntaxErrors)
	assert.Equal(t, 1, res.Health.OrphanedCount, "the healthy file is still analyzed")
}

// TestScan_DeterministicAcrossFileLayout validates that splitting the same
// declarations differently across files changes nothing but file names:
// counts, score and issue ordering rules all hold.
func TestScan_DeterministicAcrossFileLayout(t *testing.T) {
	t.Parallel()

	combined := runScan(t, config.Options{}, map[string]string{
		"all.tf": `
variable "ami" {
  type        = string
  description = "machine image"
}

resource "aws_instance" "web" {
  ami  = var.ami
  tags = {
    Name = "web"
  }
}

output "id" {
  value       = aws_instance.web.id
  description = "instance id"
}
`,
	})

	split := runScan(t, config.Options{}, map[string]string{
		"variables.tf": `
variable "ami" {
  type        = string
  description = "machine image"
}
`,
		"compute.tf": `
resource "aws_instance" "web" {
  ami  = var.ami
  tags = {
    Name = "web"
  }
}
`,
		"outputs.tf": `
output "id" {
  value       = aws_instance.web.id
  description = "instance id"
}
`,
	})

	assert.Equal(t, combined.Health.Score, split.Health.Score)
	assert.Equal(t, combined.Health.TotalObjects, split.Health.TotalObjects)
	assert.Equal(t, len(combined.Issues), len(split.Issues))
	assert.Empty(t, cmp.Diff(combined.Snapshot.Edges, split.Snapshot.Edges))
}

// TestScan_RepeatedRunsIdentical validates run-to-run determinism over the
// same tree.
func TestScan_RepeatedRunsIdentical(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeConfig(t, dir, map[string]string{
		"main.tf": `
variable "a" {}
variable "b" {}

resource "aws_instance" "one" {
  ami = var.a
}

resource "aws_instance" "two" {
  ami = var.missing
}

locals {
  x = local.y
  y = local.x
}
`,
	})

	scanner, err := New(config.Options{})
	require.NoError(t, err)

	first, err := scanner.Scan(context.Background(), dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := scanner.Scan(context.Background(), dir)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(first.Issues, again.Issues))
		assert.Empty(t, cmp.Diff(first.Snapshot, again.Snapshot))
		assert.Equal(t, first.Health, again.Health)
	}
}

// TestScan_CycleSurfacesEverywhere validates that a two-local cycle shows
// up in the health summary and as ERROR issues on both members.
func TestScan_CycleSurfacesEverywhere(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"locals.tf": `
locals {
  a = local.b
  b = local.a
}
`,
	})

	require.Len(t, res.Health.Cycles, 1)
	assert.Equal(t, []string{"local.a", "local.b"}, res.Health.Cycles[0])

	cycleErrors := 0
	for _, issue := range res.Issues {
		if issue.RuleID == "TF012" {
			cycleErrors++
			assert.Equal(t, model.SeverityError, issue.Severity)
		}
	}
	assert.Equal(t, 2, cycleErrors)
	assert.True(t, res.Failed(config.Default()))
}

// TestScan_DanglingReferenceSuggestsFix validates the typo suggestion
// travels all the way to the issue.
func TestScan_DanglingReferenceSuggestsFix(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"main.tf": `
variable "region" {
  type        = string
  description = "deployment region"
}

output "echo" {
  value       = var.regon
  description = "typo inside"
}
`,
	})

	var dangling *model.Issue
	for i := range res.Issues {
		if res.Issues[i].RuleID == "TF010" {
			dangling = &res.Issues[i]
		}
	}
	require.NotNil(t, dangling)
	assert.Contains(t, dangling.Suggestion, "var.region")
}

// TestScan_FailOnWarningGate validates the CI verdict under both gates.
func TestScan_FailOnWarningGate(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"main.tf": `
variable "never_used" {
  type        = string
  description = "kept for later"
}
`,
	})

	assert.Zero(t, res.Errors)
	assert.Positive(t, res.Warnings)

	relaxed := config.Default()
	assert.False(t, res.Failed(relaxed))

	gated := config.Default()
	gated.FailOnWarning = true
	assert.True(t, res.Failed(gated))
}

// TestScan_HealthInventory validates the object inventory counts.
func TestScan_HealthInventory(t *testing.T) {
	t.Parallel()

	res := runScan(t, config.Options{}, map[string]string{
		"main.tf": `
provider "aws" {
  region = "eu-west-1"
}

variable "ami" {
  type        = string
  description = "machine image"
}

variable "spare" {
  type        = string
  description = "not wired yet"
}

data "aws_vpc" "default" {
  default = true
}

resource "aws_instance" "web" {
  ami       = var.ami
  subnet_id = data.aws_vpc.default.main_route_table_id
  tags = {
    Name = "web"
  }
}

module "dns" {
  source = "./modules/dns"
}

output "id" {
  value       = aws_instance.web.id
  description = "instance id"
}
`,
	})

	h := res.Health
	assert.Equal(t, 7, h.TotalObjects)
	assert.Equal(t, 1, h.Resources)
	assert.Equal(t, 1, h.DataSources)
	assert.Equal(t, 1, h.Modules)
	assert.Equal(t, 2, h.Variables.Total)
	assert.Equal(t, 1, h.Variables.Used)
	assert.Equal(t, 1, h.Outputs.Total)
	assert.Equal(t, 0, h.Outputs.Orphaned)
	assert.Equal(t, []string{"provider.aws"}, h.Providers)
	assert.NotEmpty(t, res.ScanID)
}
