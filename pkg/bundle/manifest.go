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

// Package bundle canonicalizes a project directory into the in-memory
// envelope the worker and script service exchange, and reverses the
// process for cloning a revision back to disk.
package bundle

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/actiasdev/actias/pkg/apperr"
)

// ManifestFileName is the root config file every bundle directory carries.
// Its own entry is always excluded from a bundle's file set.
const ManifestFileName = "actias.manifest.json"

// Manifest names a project's entry point and the globs that select its
// file set, plus the script id once the project has been published at
// least once.
type Manifest struct {
	ID         *string  `json:"id,omitempty"`
	EntryPoint string   `json:"entry_point"`
	Includes   []string `json:"includes"`
	Ignore     []string `json:"ignore,omitempty"`
}

// LoadManifest reads and parses the manifest file at the root of dir.
func LoadManifest(dir string) (*Manifest, error) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "read manifest")
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInvalidArgument, "parse manifest")
	}
	if m.EntryPoint == "" {
		return nil, apperr.NewValidationError("manifest missing entry_point")
	}
	if len(m.Includes) == 0 {
		return nil, apperr.NewValidationError("manifest missing includes")
	}
	return &m, nil
}

// WriteManifest writes m as the root config file of dir.
func WriteManifest(dir string, m *Manifest) error {
	raw, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return apperr.Wrap(err, apperr.KindInternal, "marshal manifest")
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFileName), raw, 0o644); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "write manifest")
	}
	return nil
}

// Marshal renders m as the script_config JSON string the script service
// persists verbatim (spec.md §4.3).
func (m *Manifest) Marshal() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInternal, "marshal manifest")
	}
	return string(raw), nil
}

// ParseManifestJSON parses a persisted script_config string back into a
// Manifest, used by the server to validate the embedded id against the
// target script on CreateRevision.
func ParseManifestJSON(raw string) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInvalidArgument, "parse script_config")
	}
	return &m, nil
}
