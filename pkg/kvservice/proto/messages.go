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

// Package proto defines the KV service's wire messages (spec.md §6.4), as
// plain JSON-tagged Go structs transported over real gRPC via pkg/rpccodec
// (see DESIGN.md for why these aren't protoc-generated).
package proto

// Pair mirrors one row of the pairs wide-column table (spec.md §6.5).
type Pair struct {
	ProjectID string `json:"project_id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
	TTL       *int64 `json:"ttl,omitempty"`
}

// PairRequest addresses a single pair by its primary key.
type PairRequest struct {
	ProjectID string `json:"project_id"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

type SetPairsRequest struct {
	Pairs []*Pair `json:"pairs"`
}

type DeletePairsRequest struct {
	Pairs []*PairRequest `json:"pairs"`
}

type ListPairsRequest struct {
	ProjectID string  `json:"project_id"`
	Namespace string  `json:"namespace"`
	PageSize  int32   `json:"page_size"`
	Token     *string `json:"token,omitempty"`
}

// ListPairsResponse's Token is an opaque, base64-RawURLEncoding-wrapped
// continuation; absent once the scan is exhausted (spec.md §4.4/§9).
type ListPairsResponse struct {
	PageSize int32   `json:"page_size"`
	Token    *string `json:"token,omitempty"`
	Pairs    []*Pair `json:"pairs"`
}

type NamespaceInfo struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

type ListNamespacesRequest struct {
	ProjectID string `json:"project_id"`
}

type ListNamespacesResponse struct {
	Namespaces []*NamespaceInfo `json:"namespaces"`
}

type DeleteNamespaceRequest struct {
	ProjectID string `json:"project_id"`
	Namespace string `json:"namespace"`
}

type DeleteProjectRequest struct {
	ProjectID string `json:"project_id"`
}

// Empty is returned by operations with no meaningful response payload.
type Empty struct{}
