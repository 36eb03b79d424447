// Package fsutil provides file system utility functions.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FindConfigFiles walks all given paths and returns a sorted, de-duplicated
// list of Terraform configuration files (.tf). A path may be a single file or
// a directory; directories are walked recursively. Paths that do not exist
// are skipped rather than reported as errors.
func FindConfigFiles(paths ...string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})

	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		if !info.IsDir() {
			if isConfigFile(path) {
				add(path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Module caches hold third-party code the user did not write.
				if d.Name() == ".terraform" {
					return filepath.SkipDir
				}
				return nil
			}
			if isConfigFile(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Stable input order regardless of the order paths were supplied in.
	sort.Strings(files)
	return files, nil
}

func isConfigFile(path string) bool {
	return strings.HasSuffix(path, ".tf") && !strings.HasPrefix(filepath.Base(path), ".")
}
