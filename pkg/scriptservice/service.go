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

// Package scriptservice implements spec.md §4.3: persistence and
// retrieval of scripts and their revisions.
package scriptservice

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/bundle"
	"github.com/actiasdev/actias/pkg/metrics"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

var validate = validator.New()

// Service is the business-logic layer between the gRPC surface (server.go)
// and the transactional store.
type Service struct {
	store    *Store
	sessions *SessionStore
	log      logr.Logger
}

func NewService(store *Store, sessions *SessionStore, log logr.Logger) *Service {
	return &Service{store: store, sessions: sessions, log: log}
}

func (s *Service) CreateScript(ctx context.Context, projectID, publicIdentifier string) (*proto.Script, error) {
	if err := validate.Var(projectID, "uuid"); err != nil {
		return nil, apperr.NewValidationError("project_id must be a UUID")
	}
	if err := validate.Var(publicIdentifier, "required"); err != nil {
		return nil, apperr.NewValidationError("public_identifier must not be empty")
	}
	return s.store.CreateScript(ctx, uuid.NewString(), projectID, publicIdentifier)
}

func (s *Service) QueryScript(ctx context.Context, id, publicIdentifier *string) (*proto.Script, error) {
	switch {
	case id != nil:
		return s.store.GetScriptByID(ctx, *id)
	case publicIdentifier != nil:
		return s.store.GetScriptByPublicIdentifier(ctx, *publicIdentifier)
	default:
		return nil, apperr.NewValidationError("one of id or public_identifier is required")
	}
}

func (s *Service) DeleteScript(ctx context.Context, id string) error {
	if err := s.store.DeleteScript(ctx, id); err != nil {
		return err
	}
	return s.sessions.DeleteScript(ctx, id)
}

func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	return s.store.DeleteProject(ctx, projectID)
}

// CreateRevision validates the manifest's embedded id against scriptID,
// compresses the bundle's files, and persists the revision atomically.
func (s *Service) CreateRevision(ctx context.Context, scriptID, scriptConfigJSON string, b *proto.Bundle) (*proto.Revision, error) {
	manifest, err := bundle.ParseManifestJSON(scriptConfigJSON)
	if err != nil {
		return nil, err
	}
	if manifest.ID == nil || *manifest.ID != scriptID {
		return nil, apperr.NewValidationError("manifest id does not match target script_id")
	}
	if b == nil {
		return nil, apperr.NewValidationError("bundle is required")
	}

	found := false
	bFiles := make([]bundle.File, 0, len(b.Files))
	for _, f := range b.Files {
		bFiles = append(bFiles, bundle.File{FileName: f.FileName, FilePath: f.FilePath, Content: f.Content})
		if f.FilePath == b.EntryPoint || f.FileName == b.EntryPoint {
			found = true
		}
	}
	if !found {
		return nil, apperr.NewValidationError("entry_point does not name a file in the bundle's file set")
	}

	compressed, err := bundle.Compress(&bundle.Bundle{EntryPoint: b.EntryPoint, Files: bFiles})
	if err != nil {
		return nil, err
	}

	rev, err := s.store.CreateRevision(ctx, uuid.NewString(), scriptID, b.EntryPoint, scriptConfigJSON, compressed)
	if err != nil {
		return nil, err
	}
	metrics.RevisionsPublished.WithLabelValues(scriptID).Inc()
	return rev, nil
}

func (s *Service) GetRevision(ctx context.Context, id string, withBundle bool) (*proto.Revision, error) {
	rev, err := s.store.GetRevisionMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	if !withBundle {
		return rev, nil
	}

	compressed, err := s.store.ListFiles(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := bundle.Decompress(rev.EntryPoint, compressed)
	if err != nil {
		return nil, err
	}

	files := make([]*proto.File, 0, len(b.Files))
	for _, f := range b.Files {
		files = append(files, &proto.File{FileName: f.FileName, FilePath: f.FilePath, Content: f.Content, RevisionID: id})
	}
	rev.Bundle = &proto.Bundle{EntryPoint: b.EntryPoint, Files: files}
	return rev, nil
}

func (s *Service) ListRevisions(ctx context.Context, scriptID *string, page, pageSize int32) (*proto.ListRevisionsResponse, error) {
	if page < 0 {
		return nil, apperr.NewValidationError("page must not be negative")
	}
	// page_size == 0 returns an empty page with total_pages == 0 rather
	// than substituting a default (spec.md §8 boundary behavior).
	if pageSize == 0 {
		return &proto.ListRevisionsResponse{Page: page, TotalPages: 0, Items: nil}, nil
	}
	if pageSize < 0 {
		return nil, apperr.NewValidationError("page_size must not be negative")
	}

	items, total, err := s.store.ListRevisions(ctx, scriptID, page, pageSize)
	if err != nil {
		return nil, err
	}

	var totalPages int32
	if total > 0 {
		totalPages = int32((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return &proto.ListRevisionsResponse{Page: page, TotalPages: totalPages, Items: items}, nil
}

func (s *Service) DeleteRevision(ctx context.Context, revisionID string) (*proto.DeleteRevisionResponse, error) {
	scriptID, newCurrent, err := s.store.DeleteRevision(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	return &proto.DeleteRevisionResponse{ScriptID: scriptID, NewCurrentRevisionID: newCurrent}, nil
}

func (s *Service) SetScriptRevision(ctx context.Context, scriptID, revisionID string) (*proto.SetScriptRevisionResponse, error) {
	rev, err := s.store.GetRevisionMeta(ctx, revisionID)
	if err != nil {
		return nil, err
	}
	if rev.ScriptID != scriptID {
		return nil, apperr.NewValidationError(fmt.Sprintf("revision %s does not belong to script %s", revisionID, scriptID))
	}
	if err := s.store.SetScriptRevision(ctx, scriptID, revisionID); err != nil {
		return nil, err
	}
	return &proto.SetScriptRevisionResponse{ScriptID: scriptID, RevisionID: revisionID}, nil
}

// SessionRevision resolves the live-script overlay (SPEC_FULL.md §3
// supplement): an unpublished bundle a development client uploaded for
// immediate execution, bypassing the store entirely.
func (s *Service) SessionRevision(ctx context.Context, scriptID, sessionID string) (*proto.Revision, error) {
	return s.sessions.Get(ctx, scriptID, sessionID)
}

// PutSessionRevision registers rev as a new live-script session and
// returns its session id.
func (s *Service) PutSessionRevision(ctx context.Context, scriptID string, rev *proto.Revision) (string, error) {
	return s.sessions.Put(ctx, scriptID, rev)
}
