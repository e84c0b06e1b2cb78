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

// Clone writes a revision's files back out under dir, creating parent
// directories as needed, then writes manifest as the root config file
// (spec.md §4.5's "cloning" paragraph).
//
// It refuses to touch a non-empty directory unless that directory already
// holds a manifest whose ID equals manifest.ID — i.e. cloning the same
// script back into its own checkout is allowed, cloning over an unrelated
// non-empty directory is not.
func Clone(dir string, manifest *Manifest, files []File) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			return apperr.Wrap(err, apperr.KindIO, "stat target directory")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return apperr.Wrap(err, apperr.KindIO, "create target directory")
		}
		entries = nil
	}

	if len(entries) > 0 {
		existing, err := LoadManifest(dir)
		if err != nil {
			return apperr.NewValidationError("target directory is non-empty and has no matching manifest")
		}
		if existing.ID == nil || manifest.ID == nil || *existing.ID != *manifest.ID {
			return apperr.NewValidationError("target directory holds an unrelated project")
		}
	}

	for _, f := range files {
		dest := filepath.Join(dir, filepath.FromSlash(f.FilePath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return apperr.Wrap(err, apperr.KindIO, "create parent directory")
		}
		if err := os.WriteFile(dest, f.Content, 0o644); err != nil {
			return apperr.Wrap(err, apperr.KindIO, "write bundle file")
		}
	}

	return WriteManifest(dir, manifest)
}
