package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/iksnae/tourmate/internal"

	_ "modernc.org/sqlite"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS tourmate_sessions (
	id            TEXT PRIMARY KEY,
	source        TEXT NOT NULL,
	created_at    TEXT,
	updated_at    TEXT,
	message_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS tourmate_messages (
	session_id TEXT NOT NULL,
	seq        INTEGER NOT NULL,
	id         TEXT,
	timestamp  TEXT,
	actor      TEXT NOT NULL,
	content    TEXT NOT NULL,
	attributes TEXT,
	PRIMARY KEY (session_id, seq)
);`

// Archive is a SQLite file that accumulates exported sessions. Saving a
// session again replaces its earlier snapshot.
type Archive struct {
	db   *sql.DB
	path string
}

// OpenArchive opens or creates an archive database at path
func OpenArchive(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &internal.ExportError{Format: "sqlite", Path: path, Err: fmt.Errorf("failed to open database: %w", err)}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &internal.ExportError{Format: "sqlite", Path: path, Err: fmt.Errorf("database ping failed: %w", err)}
	}
	if _, err := db.ExecContext(ctx, archiveSchema); err != nil {
		db.Close()
		return nil, &internal.ExportError{Format: "sqlite", Path: path, Err: fmt.Errorf("failed to create schema: %w", err)}
	}
	return &Archive{db: db, path: path}, nil
}

// Save writes a session snapshot in one transaction
func (a *Archive) Save(ctx context.Context, session *internal.Session) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return a.wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tourmate_messages WHERE session_id = ?`, session.ID); err != nil {
		return a.wrap(err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO tourmate_sessions (id, source, created_at, updated_at, message_count) VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.Source, session.Metadata.CreatedAt, session.Metadata.UpdatedAt, len(session.Messages),
	); err != nil {
		return a.wrap(err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tourmate_messages (session_id, seq, id, timestamp, actor, content, attributes) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return a.wrap(err)
	}
	defer stmt.Close()

	for i, msg := range session.Messages {
		var attrs sql.NullString
		if len(msg.Attributes) > 0 {
			data, err := json.Marshal(msg.Attributes)
			if err != nil {
				return a.wrap(err)
			}
			attrs = sql.NullString{String: string(data), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, session.ID, i, msg.ID, msg.Timestamp, msg.Actor, msg.Content, attrs); err != nil {
			return a.wrap(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return a.wrap(err)
	}
	internal.LogInfo("Archived session %s (%d messages) to %s", session.ID, len(session.Messages), a.path)
	return nil
}

// Load reads a session back from the archive
func (a *Archive) Load(ctx context.Context, sessionID string) (*internal.Session, error) {
	session := &internal.Session{ID: sessionID}
	var created, updated sql.NullString
	err := a.db.QueryRowContext(ctx,
		`SELECT source, created_at, updated_at, message_count FROM tourmate_sessions WHERE id = ?`, sessionID,
	).Scan(&session.Source, &created, &updated, &session.Metadata.MessageCount)
	if err == sql.ErrNoRows {
		return nil, internal.ErrSessionNotFound
	}
	if err != nil {
		return nil, a.wrap(err)
	}
	session.Metadata.CreatedAt = created.String
	session.Metadata.UpdatedAt = updated.String

	rows, err := a.db.QueryContext(ctx,
		`SELECT id, timestamp, actor, content, attributes FROM tourmate_messages WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, a.wrap(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			msg              internal.Message
			id, ts, attrsRaw sql.NullString
		)
		if err := rows.Scan(&id, &ts, &msg.Actor, &msg.Content, &attrsRaw); err != nil {
			return nil, a.wrap(err)
		}
		msg.ID, msg.Timestamp = id.String, ts.String
		if attrsRaw.Valid {
			if err := json.Unmarshal([]byte(attrsRaw.String), &msg.Attributes); err != nil {
				return nil, a.wrap(err)
			}
		}
		session.Messages = append(session.Messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, a.wrap(err)
	}
	return session, nil
}

// Sessions lists archived session IDs
func (a *Archive) Sessions(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id FROM tourmate_sessions ORDER BY id`)
	if err != nil {
		return nil, a.wrap(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, a.wrap(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Path returns the database file path
func (a *Archive) Path() string {
	return a.path
}

// Close closes the database
func (a *Archive) Close() error {
	return a.db.Close()
}

func (a *Archive) wrap(err error) error {
	return &internal.ExportError{Format: "sqlite", Path: a.path, Err: err}
}
