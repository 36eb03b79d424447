package validator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/tfkit/internal/config"
	"github.com/vk/tfkit/internal/graph"
	"github.com/vk/tfkit/internal/model"
)

// sensitivePorts are services that should never face the open internet.
var sensitivePorts = map[int]string{
	22:    "ssh",
	23:    "telnet",
	1433:  "mssql",
	3306:  "mysql",
	3389:  "rdp",
	5432:  "postgres",
	6379:  "redis",
	9200:  "elasticsearch",
	27017: "mongodb",
}

func checkOpenIngress(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() {
			continue
		}
		switch n.Addr.Type {
		case "aws_security_group":
			for _, ingress := range n.NestedBlocks("ingress") {
				if issue, ok := openIngressIssue(n, ingress.Attrs, ingress.Line); ok {
					issues = append(issues, issue)
				}
			}
		case "aws_security_group_rule":
			if a, ok := n.Attr("type"); !ok || !strings.Contains(a.Expr, "ingress") {
				continue
			}
			if issue, ok := openIngressIssue(n, n.Attrs, n.Location.Line); ok {
				issues = append(issues, issue)
			}
		}
	}
	return issues
}

func openIngressIssue(n *model.Node, attrs []model.RawAttr, line int) (model.Issue, bool) {
	if !unrestrictedCIDR(attrs) {
		return model.Issue{}, false
	}
	service, exposed := exposedService(attrs)
	if !exposed {
		return model.Issue{}, false
	}
	msg := "ingress open to the internet"
	if service != "" {
		msg = fmt.Sprintf("ingress open to the internet on a sensitive port (%s)", service)
	}
	return model.Issue{
		File:       n.Location.File,
		Line:       line,
		Resource:   n.Addr.String(),
		Message:    msg,
		Suggestion: "restrict the source CIDR",
	}, true
}

func unrestrictedCIDR(attrs []model.RawAttr) bool {
	for _, a := range attrs {
		if a.Name != "cidr_blocks" && a.Name != "ipv6_cidr_blocks" {
			continue
		}
		if strings.Contains(a.Expr, "0.0.0.0/0") || strings.Contains(a.Expr, "::/0") {
			return true
		}
	}
	return false
}

// exposedService reports whether the rule's port range covers a sensitive
// port. An unparseable range is treated as exposed: a rule whose ports come
// from an expression cannot be proven safe here.
func exposedService(attrs []model.RawAttr) (string, bool) {
	from, fromOK := portAttr(attrs, "from_port")
	to, toOK := portAttr(attrs, "to_port")
	if !fromOK || !toOK {
		return "", true
	}
	if from == 0 && to == 0 {
		// from=0 to=0 with protocol -1 means every port.
		return "", true
	}
	for port, service := range sensitivePorts {
		if from <= port && port <= to {
			return service, true
		}
	}
	return "", false
}

func portAttr(attrs []model.RawAttr, name string) (int, bool) {
	for _, a := range attrs {
		if a.Name != name {
			continue
		}
		port, err := strconv.Atoi(strings.TrimSpace(a.Expr))
		if err != nil {
			return 0, false
		}
		return port, true
	}
	return 0, false
}

func checkPublicStorage(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() {
			continue
		}
		if n.Addr.Type != "aws_s3_bucket" && n.Addr.Type != "aws_s3_bucket_acl" {
			continue
		}
		a, ok := n.Attr("acl")
		if !ok {
			continue
		}
		acl, ok := literalString(a)
		if !ok || (acl != "public-read" && acl != "public-read-write") {
			continue
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       a.Line,
			Resource:   n.Addr.String(),
			Message:    fmt.Sprintf("bucket ACL %q grants public access", acl),
			Suggestion: "use a private ACL and grant access through policies",
		})
	}
	return issues
}

func checkPublicDatabase(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() {
			continue
		}
		switch n.Addr.Type {
		case "aws_db_instance", "aws_rds_cluster_instance", "aws_redshift_cluster":
		default:
			continue
		}
		a, ok := n.Attr("publicly_accessible")
		if !ok {
			continue
		}
		if public, ok := literalBool(a); !ok || !public {
			continue
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       a.Line,
			Resource:   n.Addr.String(),
			Message:    "database is publicly accessible",
			Suggestion: "set publicly_accessible to false",
		})
	}
	return issues
}

// encryptionAttrs maps resource types to the attribute that enables
// encryption at rest.
var encryptionAttrs = map[string]string{
	"aws_db_instance":      "storage_encrypted",
	"aws_rds_cluster":      "storage_encrypted",
	"aws_ebs_volume":       "encrypted",
	"aws_efs_file_system":  "encrypted",
	"aws_redshift_cluster": "encrypted",
}

func checkEncryption(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.NodesOfKind(model.KindResource) {
		if n.IsPlaceholder() {
			continue
		}
		attrName, ok := encryptionAttrs[n.Addr.Type]
		if !ok {
			continue
		}
		line := n.Location.Line
		if a, ok := n.Attr(attrName); ok {
			enabled, literal := literalBool(a)
			if !literal || enabled {
				continue
			}
			line = a.Line
		}
		issues = append(issues, model.Issue{
			File:       n.Location.File,
			Line:       line,
			Resource:   n.Addr.String(),
			Message:    "encryption at rest is not enabled",
			Suggestion: fmt.Sprintf("set %s = true", attrName),
		})
	}
	return issues
}

var secretAttrName = regexp.MustCompile(`(?i)(password|passwd|secret|token|api_key|apikey|access_key|private_key|credential)`)

var secretNameExemptions = regexp.MustCompile(`(?i)(_arn|_id|_name|_version|_path)$`)

func checkHardcodedSecrets(g *graph.Graph, _ config.Options) []model.Issue {
	var issues []model.Issue
	for _, n := range g.Nodes() {
		if n.IsPlaceholder() || n.Kind == model.KindVariable {
			continue
		}
		for _, a := range n.Attrs {
			if !secretAttrName.MatchString(a.Name) || secretNameExemptions.MatchString(a.Name) {
				continue
			}
			value, ok := literalString(a)
			if !ok || value == "" {
				continue
			}
			issues = append(issues, model.Issue{
				File:       n.Location.File,
				Line:       a.Line,
				Resource:   n.Addr.String(),
				Message:    fmt.Sprintf("%s looks like a hardcoded credential", a.Name),
				Suggestion: "read the value from a variable or secrets manager",
			})
		}
	}
	return issues
}
