// Package loader adapts the external HCL parser into the raw block tree
// consumed by the semantic model builder. Everything downstream of this
// package is parser-agnostic: it sees unevaluated expression text plus the
// symbol candidates extracted here, never HCL types.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/tfkit/internal/ctxlog"
	"github.com/vk/tfkit/internal/fsutil"
	"github.com/vk/tfkit/internal/model"
)

// Load discovers and parses every .tf file under the given paths. Parse
// failures never abort the load: a file the parser rejects contributes a
// single malformed placeholder block and the scan carries on.
func Load(ctx context.Context, paths ...string) ([]model.RawFile, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindConfigFiles(paths...)
	if err != nil {
		return nil, fmt.Errorf("discovering configuration files: %w", err)
	}
	logger.Debug("discovered configuration files", "count", len(files))
	if len(files) == 0 {
		return nil, model.ErrNoInput
	}

	rawFiles := make([]model.RawFile, 0, len(files))
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file, err)
		}
		rawFiles = append(rawFiles, ParseSource(ctx, file, src))
	}
	return rawFiles, nil
}

// ParseSource parses one file's bytes into a raw block tree. It never
// returns an error: syntax the parser cannot handle degrades to malformed
// placeholder blocks.
func ParseSource(ctx context.Context, filename string, src []byte) model.RawFile {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		logger.Debug("file failed to parse, emitting placeholder", "file", filename, "error", diags.Error())
		return model.RawFile{
			Path:   filename,
			Blocks: []model.RawBlock{placeholderBlock(filename, 1, diags.Error())},
		}
	}

	body, ok := hclFile.Body.(*hclsyntax.Body)
	if !ok {
		return model.RawFile{
			Path:   filename,
			Blocks: []model.RawBlock{placeholderBlock(filename, 1, "unsupported syntax")},
		}
	}

	conv := &converter{src: src, file: filename}
	raw := model.RawFile{Path: filename}
	for _, block := range body.Blocks {
		raw.Blocks = append(raw.Blocks, conv.topLevel(block)...)
	}
	logger.Debug("parsed configuration file", "file", filename, "blocks", len(raw.Blocks))
	return raw
}

// placeholderBlock builds the stand-in for a block (or whole file) the
// parser could not trust. Its label keeps identities unique per file.
func placeholderBlock(filename string, line int, detail string) model.RawBlock {
	name := fmt.Sprintf("%s_%d", sanitizeName(filepath.Base(filename)), line)
	return model.RawBlock{
		Kind:      model.KindInvalid,
		Labels:    []string{name},
		File:      filename,
		Line:      line,
		Malformed: detail,
	}
}

func sanitizeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
