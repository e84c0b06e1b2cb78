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

package scriptservice

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

// SessionStore holds unpublished live-script sessions: a development
// client's bundle kept available for immediate execution without going
// through CreateRevision (SPEC_FULL.md §3 supplement). Sessions live in
// Redis as a hash per script id, keyed by session id, mirroring the
// put_session/get_session design this supplement is grounded on.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Put stores rev as a new session for scriptID and returns the session id.
func (s *SessionStore) Put(ctx context.Context, scriptID string, rev *proto.Revision) (string, error) {
	if rev.ScriptID != scriptID {
		return "", apperr.NewValidationError("revision script_id does not match target script_id")
	}

	sessionID := uuid.NewString()
	raw, err := json.Marshal(rev)
	if err != nil {
		return "", apperr.Wrap(err, apperr.KindInternal, "marshal session revision")
	}

	if err := s.rdb.HSet(ctx, scriptID, sessionID, raw).Err(); err != nil {
		return "", apperr.Wrap(err, apperr.KindIO, "store session")
	}
	return sessionID, nil
}

// Get retrieves a session's revision.
func (s *SessionStore) Get(ctx context.Context, scriptID, sessionID string) (*proto.Revision, error) {
	raw, err := s.rdb.HGet(ctx, scriptID, sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, apperr.NewNotFoundError("session")
		}
		return nil, apperr.Wrap(err, apperr.KindIO, "load session")
	}

	var rev proto.Revision
	if err := json.Unmarshal([]byte(raw), &rev); err != nil {
		return nil, apperr.Wrap(err, apperr.KindInternal, "unmarshal session revision")
	}
	return &rev, nil
}

// Delete removes a single session.
func (s *SessionStore) Delete(ctx context.Context, scriptID, sessionID string) error {
	if err := s.rdb.HDel(ctx, scriptID, sessionID).Err(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete session")
	}
	return nil
}

// DeleteScript removes every session for scriptID, called alongside
// Service.DeleteScript so stale live-script state never outlives its
// script.
func (s *SessionStore) DeleteScript(ctx context.Context, scriptID string) error {
	if err := s.rdb.Del(ctx, scriptID).Err(); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete script sessions")
	}
	return nil
}
