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

// Package proto defines the script service's wire messages (spec.md §6.3).
// They are plain, JSON-tagged Go structs rather than protoc-generated types
// — see DESIGN.md for why — transported over real gRPC via pkg/rpccodec.
package proto

// Script mirrors the scripts table (spec.md §6.5).
type Script struct {
	ID                string  `json:"id"`
	ProjectID         string  `json:"project_id"`
	PublicIdentifier  string  `json:"public_identifier"`
	LastUpdated       int64   `json:"last_updated"`
	CurrentRevisionID *string `json:"current_revision_id,omitempty"`
}

// Revision mirrors the revisions table plus its optional bundle.
type Revision struct {
	ID           string  `json:"id"`
	ScriptID     string  `json:"script_id"`
	Created      int64   `json:"created"`
	EntryPoint   string  `json:"entry_point"`
	ScriptConfig string  `json:"script_config"`
	Bundle       *Bundle `json:"bundle,omitempty"`
}

// Bundle is the in-memory envelope delivered to a worker.
type Bundle struct {
	EntryPoint string  `json:"entry_point"`
	Files      []*File `json:"files"`
}

// File is one uncompressed file within a Bundle (content is always
// uncompressed on the wire; see pkg/bundle for the at-rest codec).
type File struct {
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	Content    []byte `json:"content"`
	RevisionID string `json:"revision_id"`
}

type CreateScriptRequest struct {
	ProjectID        string `json:"project_id"`
	PublicIdentifier string `json:"public_identifier"`
}

type QueryScriptRequest struct {
	ID               *string `json:"id,omitempty"`
	PublicIdentifier *string `json:"public_identifier,omitempty"`
}

type DeleteScriptRequest struct {
	ID string `json:"id"`
}

type DeleteProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// CreateRevisionRequest carries the manifest as a raw JSON string
// (script_config), exactly as persisted — the server never interprets it
// beyond extracting the embedded "id" field for the script-match check.
type CreateRevisionRequest struct {
	ScriptID         string  `json:"script_id"`
	ScriptConfigJSON string  `json:"script_config_json"`
	Bundle           *Bundle `json:"bundle"`
}

type GetRevisionRequest struct {
	ID         string `json:"id"`
	WithBundle bool   `json:"with_bundle"`
}

// SessionRevisionRequest resolves the optional live-script overlay
// (SPEC_FULL.md §3 supplement) in place of a persisted revision.
type SessionRevisionRequest struct {
	ScriptID  string `json:"script_id"`
	SessionID string `json:"session_id"`
}

// PutSessionRevisionRequest registers an unpublished, in-memory revision
// for immediate execution without going through CreateRevision.
type PutSessionRevisionRequest struct {
	ScriptID         string  `json:"script_id"`
	ScriptConfigJSON string  `json:"script_config_json"`
	Bundle           *Bundle `json:"bundle"`
}

type PutSessionRevisionResponse struct {
	SessionID string `json:"session_id"`
}

type ListRevisionsRequest struct {
	ScriptID *string `json:"script_id,omitempty"`
	Page     int32   `json:"page"`
	PageSize int32   `json:"page_size"`
}

type ListRevisionsResponse struct {
	Page       int32       `json:"page"`
	TotalPages int32       `json:"total_pages"`
	Items      []*Revision `json:"items"`
}

type DeleteRevisionRequest struct {
	RevisionID string `json:"revision_id"`
}

type DeleteRevisionResponse struct {
	ScriptID             string  `json:"script_id"`
	NewCurrentRevisionID *string `json:"new_current_revision_id,omitempty"`
}

type SetScriptRevisionRequest struct {
	ScriptID   string `json:"script_id"`
	RevisionID string `json:"revision_id"`
}

type SetScriptRevisionResponse struct {
	ScriptID   string `json:"script_id"`
	RevisionID string `json:"revision_id"`
}

// Empty is returned by operations with no meaningful response payload.
type Empty struct{}
