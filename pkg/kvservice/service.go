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

package kvservice

import (
	"context"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
	"github.com/actiasdev/actias/pkg/metrics"
)

var validate = validator.New()

// ValueTypes is the canonical value-type enumeration (spec.md §4.4 /
// §9's resolution of conflicting historical drafts): string, integer,
// number, boolean, json. Older persisted data under a different code
// (e.g. "object") is out of scope for migration here.
var ValueTypes = map[string]bool{
	"string":  true,
	"integer": true,
	"number":  true,
	"boolean": true,
	"json":    true,
}

const defaultPageSize = 50

// Service is the business-logic layer between the gRPC surface and the
// store/cache.
type Service struct {
	store *Store
	cache *NamespaceCache
	log   logr.Logger
}

func NewService(store *Store, cache *NamespaceCache, log logr.Logger) *Service {
	return &Service{store: store, cache: cache, log: log}
}

func (s *Service) GetPair(ctx context.Context, req *proto.PairRequest) (*proto.Pair, error) {
	if err := validate.Var(req.ProjectID, "uuid"); err != nil {
		return nil, apperr.NewValidationError("project_id must be a UUID")
	}
	return s.store.GetPair(ctx, req.ProjectID, req.Namespace, req.Key)
}

func (s *Service) SetPairs(ctx context.Context, pairs []*proto.Pair) error {
	for _, p := range pairs {
		if err := validate.Var(p.ProjectID, "uuid"); err != nil {
			return apperr.NewValidationError("project_id must be a UUID")
		}
		if !ValueTypes[p.Type] {
			return apperr.NewValidationError("unknown value type: " + p.Type)
		}
	}

	if err := s.store.SetPairs(ctx, pairs); err != nil {
		return err
	}

	for _, p := range pairs {
		if err := s.cache.Bump(ctx, p.ProjectID, p.Namespace, 1); err != nil {
			s.log.Error(err, "namespace cache bump failed", "project_id", p.ProjectID, "namespace", p.Namespace)
		}
	}
	return nil
}

func (s *Service) DeletePairs(ctx context.Context, refs []*proto.PairRequest) error {
	if err := s.store.DeletePairs(ctx, refs); err != nil {
		return err
	}
	for _, r := range refs {
		if err := s.cache.Bump(ctx, r.ProjectID, r.Namespace, -1); err != nil {
			s.log.Error(err, "namespace cache bump failed", "project_id", r.ProjectID, "namespace", r.Namespace)
		}
	}
	return nil
}

func (s *Service) ListPairs(ctx context.Context, req *proto.ListPairsRequest) (*proto.ListPairsResponse, error) {
	pageSize := int(req.PageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var tokenStr string
	if req.Token != nil {
		tokenStr = *req.Token
	}
	pageState, err := decodeToken(tokenStr)
	if err != nil {
		return nil, err
	}

	pairs, nextState, err := s.store.ListPairsPage(ctx, req.ProjectID, req.Namespace, pageSize, pageState)
	if err != nil {
		return nil, err
	}

	metrics.KVPagesServed.WithLabelValues(req.ProjectID).Inc()

	resp := &proto.ListPairsResponse{PageSize: req.PageSize, Pairs: pairs}
	if next := encodeToken(nextState); next != "" {
		resp.Token = &next
	}
	return resp, nil
}

func (s *Service) ListNamespaces(ctx context.Context, projectID string) (*proto.ListNamespacesResponse, error) {
	namespaces, err := s.cache.List(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &proto.ListNamespacesResponse{Namespaces: namespaces}, nil
}

func (s *Service) DeleteNamespace(ctx context.Context, projectID, namespace string) error {
	if err := s.store.DeleteNamespace(ctx, projectID, namespace); err != nil {
		return err
	}
	return s.cache.Invalidate(ctx, projectID, namespace)
}

func (s *Service) DeleteProject(ctx context.Context, projectID string) error {
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	return s.cache.InvalidateProject(ctx, projectID)
}
