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
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actiasdev/actias/pkg/apperr"
	"github.com/actiasdev/actias/pkg/bundle"
	"github.com/actiasdev/actias/pkg/scriptservice/proto"
)

// Store is the transactional row store behind the script service: the
// scripts/revisions/files tables of spec.md §6.5, spoken to directly over
// pgx rather than database/sql.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore dials postgres at dsn.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "connect to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "ping postgres")
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }

const schema = `
CREATE TABLE IF NOT EXISTS scripts (
	id                  uuid PRIMARY KEY,
	project_id          uuid NOT NULL,
	public_identifier   text NOT NULL UNIQUE,
	last_updated        timestamptz NOT NULL,
	current_revision    uuid
);

CREATE TABLE IF NOT EXISTS revisions (
	id             uuid PRIMARY KEY,
	script_id      uuid NOT NULL REFERENCES scripts(id),
	created        timestamptz NOT NULL,
	entry_point    text NOT NULL,
	script_config  jsonb NOT NULL
);
CREATE INDEX IF NOT EXISTS revisions_script_id_created_idx ON revisions (script_id, created);

CREATE TABLE IF NOT EXISTS files (
	revision_id  uuid NOT NULL REFERENCES revisions(id),
	file_name    text NOT NULL,
	file_path    text NOT NULL,
	content      bytea NOT NULL,
	UNIQUE (revision_id, file_path)
);
`

// Migrate creates the schema if it does not already exist. Real deployments
// would drive this with pressly/goose migration files instead of an inline
// string; these idempotent statements are kept here to keep the service
// runnable standalone.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "migrate schema")
	}
	return nil
}

func (s *Store) CreateScript(ctx context.Context, id, projectID, publicIdentifier string) (*proto.Script, error) {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO scripts (id, project_id, public_identifier, last_updated) VALUES ($1, $2, $3, $4)`,
		id, projectID, publicIdentifier, now)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperr.NewAlreadyExistsError(fmt.Sprintf("script with public_identifier %q", publicIdentifier))
		}
		return nil, apperr.Wrap(err, apperr.KindIO, "insert script")
	}
	return &proto.Script{ID: id, ProjectID: projectID, PublicIdentifier: publicIdentifier, LastUpdated: now.Unix()}, nil
}

func (s *Store) scanScript(row pgx.Row) (*proto.Script, error) {
	var sc proto.Script
	var lastUpdated time.Time
	var currentRevision *string
	if err := row.Scan(&sc.ID, &sc.ProjectID, &sc.PublicIdentifier, &lastUpdated, &currentRevision); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFoundError("script")
		}
		return nil, apperr.Wrap(err, apperr.KindIO, "scan script")
	}
	sc.LastUpdated = lastUpdated.Unix()
	sc.CurrentRevisionID = currentRevision
	return &sc, nil
}

func (s *Store) GetScriptByID(ctx context.Context, id string) (*proto.Script, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, public_identifier, last_updated, current_revision FROM scripts WHERE id = $1`, id)
	return s.scanScript(row)
}

func (s *Store) GetScriptByPublicIdentifier(ctx context.Context, publicIdentifier string) (*proto.Script, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, project_id, public_identifier, last_updated, current_revision FROM scripts WHERE public_identifier = $1`, publicIdentifier)
	return s.scanScript(row)
}

func (s *Store) DeleteScript(ctx context.Context, id string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Wrap(err, apperr.KindIO, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE revision_id IN (SELECT id FROM revisions WHERE script_id = $1)`, id); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete files")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM revisions WHERE script_id = $1`, id); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete revisions")
	}
	tag, err := tx.Exec(ctx, `DELETE FROM scripts WHERE id = $1`, id)
	if err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete script")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFoundError("script")
	}
	return tx.Commit(ctx)
}

func (s *Store) DeleteProject(ctx context.Context, projectID string) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return apperr.Wrap(err, apperr.KindIO, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE revision_id IN (
		SELECT r.id FROM revisions r JOIN scripts sc ON sc.id = r.script_id WHERE sc.project_id = $1)`, projectID); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete files")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM revisions WHERE script_id IN (SELECT id FROM scripts WHERE project_id = $1)`, projectID); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete revisions")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM scripts WHERE project_id = $1`, projectID); err != nil {
		return apperr.Wrap(err, apperr.KindIO, "delete scripts")
	}
	return tx.Commit(ctx)
}

// CreateRevision atomically inserts the revision row, its file rows, and
// repoints scripts.current_revision — spec.md §4.3's "Transactional
// discipline" paragraph.
func (s *Store) CreateRevision(ctx context.Context, id, scriptID, entryPoint, scriptConfigJSON string, files []bundle.CompressedFile) (*proto.Revision, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx,
		`INSERT INTO revisions (id, script_id, created, entry_point, script_config) VALUES ($1, $2, $3, $4, $5)`,
		id, scriptID, now, entryPoint, scriptConfigJSON); err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "insert revision")
	}

	batch := &pgx.Batch{}
	for _, f := range files {
		batch.Queue(`INSERT INTO files (revision_id, file_name, file_path, content) VALUES ($1, $2, $3, $4)`,
			id, f.FileName, f.FilePath, f.Content)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return nil, apperr.Wrap(err, apperr.KindIO, "insert file")
			}
		}
		if err := br.Close(); err != nil {
			return nil, apperr.Wrap(err, apperr.KindIO, "close file batch")
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE scripts SET current_revision = $1, last_updated = $2 WHERE id = $3`, id, now, scriptID); err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "update current_revision")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "commit revision")
	}

	return &proto.Revision{ID: id, ScriptID: scriptID, Created: now.Unix(), EntryPoint: entryPoint, ScriptConfig: scriptConfigJSON}, nil
}

func (s *Store) GetRevisionMeta(ctx context.Context, id string) (*proto.Revision, error) {
	row := s.pool.QueryRow(ctx, `SELECT id, script_id, created, entry_point, script_config FROM revisions WHERE id = $1`, id)
	var rev proto.Revision
	var created time.Time
	if err := row.Scan(&rev.ID, &rev.ScriptID, &created, &rev.EntryPoint, &rev.ScriptConfig); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NewNotFoundError("revision")
		}
		return nil, apperr.Wrap(err, apperr.KindIO, "scan revision")
	}
	rev.Created = created.Unix()
	return &rev, nil
}

func (s *Store) ListFiles(ctx context.Context, revisionID string) ([]bundle.CompressedFile, error) {
	rows, err := s.pool.Query(ctx, `SELECT file_name, file_path, content FROM files WHERE revision_id = $1 ORDER BY file_path`, revisionID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindIO, "query files")
	}
	defer rows.Close()

	var out []bundle.CompressedFile
	for rows.Next() {
		var f bundle.CompressedFile
		if err := rows.Scan(&f.FileName, &f.FilePath, &f.Content); err != nil {
			return nil, apperr.Wrap(err, apperr.KindIO, "scan file")
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *Store) ListRevisions(ctx context.Context, scriptID *string, page, pageSize int32) ([]*proto.Revision, int64, error) {
	var (
		rows     pgx.Rows
		err      error
		total    int64
		offset   = page * pageSize
		countRow pgx.Row
	)

	if scriptID != nil {
		countRow = s.pool.QueryRow(ctx, `SELECT count(*) FROM revisions WHERE script_id = $1`, *scriptID)
	} else {
		countRow = s.pool.QueryRow(ctx, `SELECT count(*) FROM revisions`)
	}
	if err := countRow.Scan(&total); err != nil {
		return nil, 0, apperr.Wrap(err, apperr.KindIO, "count revisions")
	}

	if scriptID != nil {
		rows, err = s.pool.Query(ctx,
			`SELECT id, script_id, created, entry_point, script_config FROM revisions WHERE script_id = $1 ORDER BY created DESC LIMIT $2 OFFSET $3`,
			*scriptID, pageSize, offset)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, script_id, created, entry_point, script_config FROM revisions ORDER BY created DESC LIMIT $1 OFFSET $2`,
			pageSize, offset)
	}
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.KindIO, "query revisions")
	}
	defer rows.Close()

	var out []*proto.Revision
	for rows.Next() {
		var rev proto.Revision
		var created time.Time
		if err := rows.Scan(&rev.ID, &rev.ScriptID, &created, &rev.EntryPoint, &rev.ScriptConfig); err != nil {
			return nil, 0, apperr.Wrap(err, apperr.KindIO, "scan revision")
		}
		rev.Created = created.Unix()
		out = append(out, &rev)
	}
	return out, total, rows.Err()
}

// DeleteRevision deletes the revision and, if it was the script's current
// one, repoints current_revision to the oldest remaining revision of that
// script (spec.md §4.3's promotion rule), all within one transaction.
func (s *Store) DeleteRevision(ctx context.Context, revisionID string) (scriptID string, newCurrent *string, err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `SELECT script_id FROM revisions WHERE id = $1`, revisionID)
	if err := row.Scan(&scriptID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, apperr.NewNotFoundError("revision")
		}
		return "", nil, apperr.Wrap(err, apperr.KindIO, "find revision")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM files WHERE revision_id = $1`, revisionID); err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "delete files")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM revisions WHERE id = $1`, revisionID); err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "delete revision")
	}

	var scriptCurrent *string
	row = tx.QueryRow(ctx, `SELECT current_revision FROM scripts WHERE id = $1`, scriptID)
	if err := row.Scan(&scriptCurrent); err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "read script pointer")
	}
	if scriptCurrent == nil || *scriptCurrent != revisionID {
		// the deleted revision wasn't current; nothing to repoint.
		if err := tx.Commit(ctx); err != nil {
			return "", nil, apperr.Wrap(err, apperr.KindIO, "commit")
		}
		return scriptID, scriptCurrent, nil
	}

	var oldestID *string
	row = tx.QueryRow(ctx, `SELECT id FROM revisions WHERE script_id = $1 ORDER BY created ASC LIMIT 1`, scriptID)
	if err := row.Scan(&oldestID); err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "find oldest revision")
	}

	if _, err := tx.Exec(ctx, `UPDATE scripts SET current_revision = $1 WHERE id = $2`, oldestID, scriptID); err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "update current_revision")
	}

	if err := tx.Commit(ctx); err != nil {
		return "", nil, apperr.Wrap(err, apperr.KindIO, "commit")
	}
	return scriptID, oldestID, nil
}

func (s *Store) SetScriptRevision(ctx context.Context, scriptID, revisionID string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE scripts SET current_revision = $1, last_updated = $2 WHERE id = $3`, revisionID, time.Now().UTC(), scriptID)
	if err != nil {
		return apperr.Wrap(err, apperr.KindIO, "update current_revision")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NewNotFoundError("script")
	}
	return nil
}
