// Package storage provides durable persistence for playlists and
// preferences on a local SQLite database.
package storage

import (
	"database/sql"
	"encoding/json"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/ysdkhr/tubebox/internal/app/store"
)

const (
	// namespace keys the single state row so other tools can share the file.
	namespace = "tubebox.player"

	// schemaVersion tags every persisted blob. Older blobs run through the
	// migration hook before the state is accepted.
	schemaVersion = 1
)

// Store is the SQLite-backed persistence adapter.
// It implements the playback store's Persister interface.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS app_state (
			ns      TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			payload BLOB NOT NULL
		)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create app_state table")
	}

	return &Store{db: db}, nil
}

// Save writes the durable state blob through, replacing any previous one.
func (s *Store) Save(state store.SavedState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to marshal state")
	}

	_, err = s.db.Exec(`
		INSERT INTO app_state (ns, version, payload) VALUES (?, ?, ?)
		ON CONFLICT(ns) DO UPDATE SET version = excluded.version, payload = excluded.payload`,
		namespace, schemaVersion, payload)
	if err != nil {
		return errors.Wrap(err, "failed to write state")
	}
	return nil
}

// Load reads the persisted state. The second return value is false when
// nothing has been persisted yet.
func (s *Store) Load() (store.SavedState, bool, error) {
	var version int
	var payload []byte
	err := s.db.QueryRow(
		`SELECT version, payload FROM app_state WHERE ns = ?`, namespace,
	).Scan(&version, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return store.SavedState{}, false, nil
	}
	if err != nil {
		return store.SavedState{}, false, errors.Wrap(err, "failed to read state")
	}

	if version > schemaVersion {
		return store.SavedState{}, false, errors.Newf("state blob has schema version %d, newer than supported %d", version, schemaVersion)
	}
	if version < schemaVersion {
		payload, err = migrate(version, payload)
		if err != nil {
			return store.SavedState{}, false, err
		}
	}

	var state store.SavedState
	if err := json.Unmarshal(payload, &state); err != nil {
		return store.SavedState{}, false, errors.Wrap(err, "failed to unmarshal state")
	}
	return state, true, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate upgrades an older blob to the current schema.
// No schema changes have shipped yet, so older blobs pass through as-is.
func migrate(from int, payload []byte) ([]byte, error) {
	zlog.Debug().Msgf("storage: migrating state blob from schema version %d to %d", from, schemaVersion)
	return payload, nil
}
