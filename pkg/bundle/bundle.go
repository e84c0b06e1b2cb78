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
	"os"
	"path/filepath"

	"github.com/actiasdev/actias/pkg/apperr"
)

// File is one uncompressed file of a Bundle, relative to a project root.
type File struct {
	FileName string
	FilePath string
	Content  []byte
}

// Bundle is the in-memory envelope built from a project directory and
// delivered to the worker (spec.md §3).
type Bundle struct {
	EntryPoint string
	Files      []File
}

// Build canonicalizes the project directory at dir into a Bundle and its
// Manifest, matching every file named by manifest.Includes minus
// manifest.Ignore, sorted for reproducibility (spec.md §4.5).
func Build(dir string) (*Bundle, *Manifest, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, nil, err
	}

	paths, err := globIncludes(dir, m.Includes, m.Ignore)
	if err != nil {
		return nil, nil, err
	}

	found := false
	files := make([]File, 0, len(paths))
	for _, rel := range paths {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, nil, apperr.Wrap(err, apperr.KindIO, "read bundle file")
		}
		files = append(files, File{
			FileName: filepath.Base(rel),
			FilePath: rel,
			Content:  content,
		})
		if rel == m.EntryPoint || filepath.Base(rel) == m.EntryPoint {
			found = true
		}
	}
	if !found {
		return nil, nil, apperr.NewValidationError("entry_point does not name a file in the bundle's file set")
	}

	return &Bundle{EntryPoint: m.EntryPoint, Files: files}, m, nil
}
