/*
Copyright 2026 The Actias Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bundle

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/actiasdev/actias/pkg/apperr"
)

// globIncludes walks dir and returns the sorted, root-relative paths of
// every file matching any of includes and none of ignore, always
// excluding the manifest file itself (spec.md §4.5).
func globIncludes(dir string, includes, ignore []string) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == ManifestFileName {
			return nil
		}

		included := false
		for _, pattern := range includes {
			if ok, _ := matchGlob(pattern, rel); ok {
				included = true
				break
			}
		}
		if !included {
			return nil
		}
		for _, pattern := range ignore {
			if ok, _ := matchGlob(pattern, rel); ok {
				return nil
			}
		}
		matched = append(matched, rel)
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "walk project directory")
	}

	sort.Strings(matched)
	return matched, nil
}

// matchGlob matches a "**"-aware glob pattern against a slash-separated
// relative path. filepath.Match alone has no notion of "**" meaning "any
// number of path segments" (including zero), so patterns are matched
// segment-by-segment instead.
func matchGlob(pattern, name string) (bool, error) {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/")), nil
}

func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		if matchSegments(pattern[1:], name) {
			return true
		}
		if len(name) > 0 && matchSegments(pattern, name[1:]) {
			return true
		}
		return false
	}
	if len(name) == 0 {
		return false
	}
	if ok, _ := filepath.Match(pattern[0], name[0]); !ok {
		return false
	}
	return matchSegments(pattern[1:], name[1:])
}
