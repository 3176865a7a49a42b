package frames

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Recorder is notified of every artifact written during a run
type Recorder interface {
	Record(Artifact) error
}

// Catalog is a SQLite database recording the artifacts produced by each run.
// It implements the Recorder interface.
type Catalog struct {
	db *sql.DB
}

// NewCatalog opens, creating if necessary, the catalog database in file
func NewCatalog(file string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS artifact (id INTEGER PRIMARY KEY NOT NULL, kind TEXT NOT NULL, idx INTEGER NOT NULL, left_x INTEGER NOT NULL, right_x INTEGER NOT NULL, sha1 TEXT NOT NULL, path TEXT NOT NULL, UNIQUE(kind, idx))"); err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{
		db: db,
	}, nil
}

// Record stores the artifact, replacing any previous entry with the same
// kind and index
func (c *Catalog) Record(a Artifact) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO artifact (kind, idx, left_x, right_x, sha1, path) VALUES (?, ?, ?, ?, ?, ?)", a.Kind.String(), a.Region.Index, a.Region.Left, a.Region.Right, a.SHA1, a.Path); err != nil {
		return err
	}
	return nil
}

// ArtifactsByIndex returns the recorded artifacts for a frame index, walk
// before idle
func (c *Catalog) ArtifactsByIndex(idx int) ([]Artifact, error) {
	rows, err := c.db.Query("SELECT kind, idx, left_x, right_x, sha1, path FROM artifact WHERE idx = ? ORDER BY kind DESC", idx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		var kind string
		if err := rows.Scan(&kind, &a.Region.Index, &a.Region.Left, &a.Region.Right, &a.SHA1, &a.Path); err != nil {
			return nil, err
		}
		if a.Kind, err = ParseKind(kind); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	return artifacts, rows.Err()
}

// Count returns the number of recorded artifacts
func (c *Catalog) Count() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM artifact").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}
