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

// Package kvservice implements spec.md §4.4: per-project, namespaced
// key/value pairs backed by a wide-column store, with paginated scans and
// an eventually-consistent namespace listing cache.
package kvservice

import (
	"context"

	"github.com/gocql/gocql"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/kvservice/proto"
)

// Store is the gocql-backed row store behind the pairs table of spec.md
// §6.5: `pairs(project_id, namespace, key, value, type) PRIMARY KEY
// ((project_id), namespace, key)` with per-row TTL.
type Store struct {
	session  *gocql.Session
	keyspace string
}

// NewStore opens a session against the cluster at the given hosts.
func NewStore(hosts []string, keyspace string, username, password string) (*Store, error) {
	cluster := gocql.NewCluster(hosts...)
	cluster.Keyspace = keyspace
	cluster.Consistency = gocql.Quorum
	if username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{Username: username, Password: password}
	}

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "create cassandra session")
	}
	return &Store{session: session, keyspace: keyspace}, nil
}

// Close releases the session.
func (s *Store) Close() { s.session.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS pairs (
	project_id uuid,
	namespace  text,
	key        text,
	value      text,
	type       text,
	PRIMARY KEY ((project_id), namespace, key)
);
`

// Migrate creates the pairs table if it does not already exist.
func (s *Store) Migrate() error {
	if err := s.session.Query(schema).Exec(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "migrate schema")
	}
	return nil
}

func (s *Store) GetPair(ctx context.Context, projectID, namespace, key string) (*proto.Pair, error) {
	var value, typ string
	err := s.session.Query(
		`SELECT value, type FROM pairs WHERE project_id = ? AND namespace = ? AND key = ?`,
		projectID, namespace, key).WithContext(ctx).Scan(&value, &typ)
	if err != nil {
		if err == gocql.ErrNotFound {
			return nil, apperr.NewNotFoundError("pair")
		}
		return nil, apperr.Wrap(err, apperr.KindIO, "get pair")
	}
	return &proto.Pair{ProjectID: projectID, Namespace: namespace, Key: key, Value: value, Type: typ}, nil
}

// SetPairs upserts every pair in a single unlogged batch — the pairs in a
// call may span namespaces but always share ProjectID validity checked by
// the caller (Service.SetPairs).
func (s *Store) SetPairs(ctx context.Context, pairs []*proto.Pair) error {
	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, p := range pairs {
		if p.TTL != nil && *p.TTL > 0 {
			batch.Query(
				`INSERT INTO pairs (project_id, namespace, key, value, type) VALUES (?, ?, ?, ?, ?) USING TTL ?`,
				p.ProjectID, p.Namespace, p.Key, p.Value, p.Type, *p.TTL)
		} else {
			batch.Query(
				`INSERT INTO pairs (project_id, namespace, key, value, type) VALUES (?, ?, ?, ?, ?)`,
				p.ProjectID, p.Namespace, p.Key, p.Value, p.Type)
		}
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "set pairs")
	}
	return nil
}

func (s *Store) DeletePairs(ctx context.Context, refs []*proto.PairRequest) error {
	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, r := range refs {
		batch.Query(`DELETE FROM pairs WHERE project_id = ? AND namespace = ? AND key = ?`, r.ProjectID, r.Namespace, r.Key)
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete pairs")
	}
	return nil
}

// ListPairsPage scans one page of a (project_id, namespace) partition,
// returning the continuation's raw page state (wrapped by
// pkg/kvservice/pagination.go) alongside the rows it read.
func (s *Store) ListPairsPage(ctx context.Context, projectID, namespace string, pageSize int, pageState []byte) ([]*proto.Pair, []byte, error) {
	q := s.session.Query(
		`SELECT key, value, type FROM pairs WHERE project_id = ? AND namespace = ?`, projectID, namespace).
		WithContext(ctx).PageSize(pageSize).PageState(pageState)

	iter := q.Iter()
	var pairs []*proto.Pair
	var key, value, typ string
	for iter.Scan(&key, &value, &typ) {
		pairs = append(pairs, &proto.Pair{ProjectID: projectID, Namespace: namespace, Key: key, Value: value, Type: typ})
	}
	nextState := iter.PageState()
	if err := iter.Close(); err != nil {
		return nil, nil, apperr.Wrap(err, apperr.KindIO, "list pairs")
	}
	return pairs, nextState, nil
}

// ScanNamespaces walks every pair of a project to recompute namespace
// cardinality from scratch, in the shape NamespaceCache.Seed accepts.
// Nothing in this repository calls it (spec.md's ListNamespaces is served
// from cache; see pkg/kvservice/namespacecache.go).
func (s *Store) ScanNamespaces(ctx context.Context, projectID string) (map[string]int64, error) {
	iter := s.session.Query(`SELECT namespace FROM pairs WHERE project_id = ?`, projectID).WithContext(ctx).Iter()
	counts := map[string]int64{}
	var namespace string
	for iter.Scan(&namespace) {
		counts[namespace]++
	}
	if err := iter.Close(); err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "scan namespaces")
	}
	return counts, nil
}

func (s *Store) DeleteNamespace(ctx context.Context, projectID, namespace string) error {
	iter := s.session.Query(`SELECT key FROM pairs WHERE project_id = ? AND namespace = ?`, projectID, namespace).WithContext(ctx).Iter()
	var keys []string
	var key string
	for iter.Scan(&key) {
		keys = append(keys, key)
	}
	if err := iter.Close(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "scan namespace keys")
	}

	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, k := range keys {
		batch.Query(`DELETE FROM pairs WHERE project_id = ? AND namespace = ? AND key = ?`, projectID, namespace, k)
	}
	if batch.Size() == 0 {
		return nil
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete namespace")
	}
	return nil
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	iter := s.session.Query(`SELECT namespace, key FROM pairs WHERE project_id = ?`, projectID).WithContext(ctx).Iter()
	type ref struct{ namespace, key string }
	var refs []ref
	var namespace, key string
	for iter.Scan(&namespace, &key) {
		refs = append(refs, ref{namespace, key})
	}
	if err := iter.Close(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "scan project keys")
	}

	batch := s.session.NewBatch(gocql.UnloggedBatch).WithContext(ctx)
	for _, r := range refs {
		batch.Query(`DELETE FROM pairs WHERE project_id = ? AND namespace = ? AND key = ?`, projectID, r.namespace, r.key)
	}
	if batch.Size() == 0 {
		return nil
	}
	if err := s.session.ExecuteBatch(batch); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete project")
	}
	return nil
}
