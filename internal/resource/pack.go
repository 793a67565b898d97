package resource

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/soundfx/internal/db"
)

const (
	appName      = "soundfx"
	packFileName = "sounds.db"
)

// Pack is a sqlite sound pack: every sound is stored as a blob keyed by name.
type Pack struct {
	db   *sql.DB
	path string
}

// DefaultPackPath returns the pack location under the XDG data home.
func DefaultPackPath() (string, error) {
	return xdg.DataFile(appName + "/" + packFileName)
}

// OpenPack opens or creates the pack at path.
func OpenPack(path string) (*Pack, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := initPackSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &Pack{db: conn, path: path}, nil
}

func initPackSchema(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS sounds (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			size INTEGER NOT NULL,
			added_at INTEGER NOT NULL
		);
	`)
	return err
}

// Open implements Bundle.
func (p *Pack) Open(name string) (io.ReadCloser, error) {
	for _, c := range candidates(name) {
		var data []byte
		err := p.db.QueryRow(`SELECT data FROM sounds WHERE name = ?`, c).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, notFound(name, p)
}

// List implements Lister.
func (p *Pack) List() ([]Entry, error) {
	rows, err := p.db.Query(`SELECT name, size FROM sounds ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Size); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Put stores data under name, replacing any previous sound with that name.
func (p *Pack) Put(name string, data []byte) error {
	return putSound(p.db, name, data)
}

// Remove deletes name from the pack. Removing a missing name is a no-op.
func (p *Pack) Remove(name string) error {
	_, err := p.db.Exec(`DELETE FROM sounds WHERE name = ?`, name)
	return err
}

// Import copies every sound listed by src into the pack in one
// transaction and returns the number of sounds imported.
func (p *Pack) Import(ctx context.Context, src interface {
	Bundle
	Lister
},
) (int, error) {
	entries, err := src.List()
	if err != nil {
		return 0, err
	}

	imported := 0
	err = db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		for _, e := range entries {
			data, err := ReadAll(src, e.Name)
			if err != nil {
				return fmt.Errorf("%s: %w", e.Name, err)
			}
			if err := putSound(tx, e.Name, data); err != nil {
				return fmt.Errorf("%s: %w", e.Name, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

// Path returns the pack's database path.
func (p *Pack) Path() string { return p.path }

// Close closes the underlying database.
func (p *Pack) Close() error { return p.db.Close() }

func (p *Pack) String() string { return "pack:" + p.path }

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func putSound(e execer, name string, data []byte) error {
	_, err := e.Exec(`
		INSERT INTO sounds (name, data, size, added_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET data = excluded.data, size = excluded.size, added_at = excluded.added_at
	`, name, data, len(data), time.Now().Unix())
	return err
}
