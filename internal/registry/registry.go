// Package registry implements the external map-weights registry
// collaborator described in §6 and §9: weights are built once, cached
// under an opaque uid, and are immutable until dropped. The core never
// mutates a cached weight through the registry; it only reads or
// replaces whole entries. Persistence follows the teacher's db package
// idiom (database/sql over modernc.org/sqlite) with schema migrations
// applied through golang-migrate instead of an inline CREATE TABLE
// string, since the registry's schema now has more than one table and
// benefits from versioning.
package registry

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/geoda-core/internal/graph"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// WeightsRecord is the persisted descriptor for one cached weights
// graph, matching §3's "Weights descriptor" plus the map_uid it was
// built against.
type WeightsRecord struct {
	UID         string
	MapUID      string
	Kind        graph.Kind
	IsBinary    bool
	IsSymmetric bool
	NumObs      int
	MinNbrs     int
	MaxNbrs     int
	MeanNbrs    float64
	MedianNbrs  float64
	Sparsity    float64
}

// Store is the registry contract LISA and the CLI depend on.
type Store interface {
	Put(mapUID string, g *graph.Graph) (string, error)
	Get(uid string) (*graph.Graph, WeightsRecord, bool, error)
	Drop(uid string) error
	Close() error
}

// SQLiteStore is a Store backed by a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (creating if necessary) a SQLite-backed registry at path,
// applies pragmas, and runs any pending migrations.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("registry: open %s: %w", path, err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// applyPragmas sets the pragmas Drop's ON DELETE CASCADE and concurrent
// access depend on; SQLite does not enable foreign key enforcement by
// default, so without this a Drop leaves orphaned weights_edges rows.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("registry: apply %q: %w", p, err)
		}
	}
	return nil
}

func migrateUp(db *sql.DB) error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("registry: load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("registry: migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("registry: migrate init: %w", err)
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("registry: migrate up: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Put finalizes g (assigning it a fresh uid), persists its descriptor
// and edge list, and returns the uid.
func (s *SQLiteStore) Put(mapUID string, g *graph.Graph) (string, error) {
	uid := uuid.NewString()
	desc := g.Finalize(uid)

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("registry: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO weights (uid, map_uid, kind, is_binary, is_symmetric, num_obs, min_nbrs, max_nbrs, mean_nbrs, median_nbrs, sparsity)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uid, mapUID, int(desc.Kind), g.IsBinary(), desc.IsSymmetric, desc.NumObs,
		desc.Stats.Min, desc.Stats.Max, desc.Stats.Mean, desc.Stats.Median, desc.Stats.Sparsity,
	)
	if err != nil {
		return "", fmt.Errorf("registry: insert weights: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO weights_edges (weights_uid, observer_id, neighbor_id, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("registry: prepare edge insert: %w", err)
	}
	defer stmt.Close()
	for i := 0; i < g.N(); i++ {
		for _, e := range g.Row(i) {
			if _, err := stmt.Exec(uid, i, e.Neighbor, e.Weight); err != nil {
				return "", fmt.Errorf("registry: insert edge: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("registry: commit: %w", err)
	}
	return uid, nil
}

// Get reconstructs the graph and descriptor stored under uid. The
// returned bool is false (with a zero graph and record) if uid is
// unknown, matching §7's LookupFailure taxonomy: no error, just an
// invalid result.
func (s *SQLiteStore) Get(uid string) (*graph.Graph, WeightsRecord, bool, error) {
	var rec WeightsRecord
	var kindInt int
	row := s.db.QueryRow(
		`SELECT uid, map_uid, kind, is_binary, is_symmetric, num_obs, min_nbrs, max_nbrs, mean_nbrs, median_nbrs, sparsity
		 FROM weights WHERE uid = ?`, uid)
	err := row.Scan(&rec.UID, &rec.MapUID, &kindInt, &rec.IsBinary, &rec.IsSymmetric, &rec.NumObs,
		&rec.MinNbrs, &rec.MaxNbrs, &rec.MeanNbrs, &rec.MedianNbrs, &rec.Sparsity)
	if err == sql.ErrNoRows {
		return nil, WeightsRecord{}, false, nil
	}
	if err != nil {
		return nil, WeightsRecord{}, false, fmt.Errorf("registry: get %s: %w", uid, err)
	}
	rec.Kind = graph.Kind(kindInt)

	g := graph.New(rec.NumObs, rec.Kind, rec.IsBinary)
	rows, err := s.db.Query(`SELECT observer_id, neighbor_id, weight FROM weights_edges WHERE weights_uid = ? ORDER BY observer_id, rowid`, uid)
	if err != nil {
		return nil, WeightsRecord{}, false, fmt.Errorf("registry: get edges %s: %w", uid, err)
	}
	defer rows.Close()
	for rows.Next() {
		var i, j int
		var w float64
		if err := rows.Scan(&i, &j, &w); err != nil {
			return nil, WeightsRecord{}, false, fmt.Errorf("registry: scan edge: %w", err)
		}
		var addErr error
		if i == j {
			addErr = g.AddSelfLoop(i, w)
		} else {
			addErr = g.AddEdge(i, j, w)
		}
		if addErr != nil {
			return nil, WeightsRecord{}, false, fmt.Errorf("registry: reconstruct %s: %w", uid, addErr)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, WeightsRecord{}, false, err
	}
	g.Finalize(uid)
	return g, rec, true, nil
}

// Drop removes uid's weights record and edges.
func (s *SQLiteStore) Drop(uid string) error {
	_, err := s.db.Exec(`DELETE FROM weights WHERE uid = ?`, uid)
	if err != nil {
		return fmt.Errorf("registry: drop %s: %w", uid, err)
	}
	return nil
}

var _ Store = (*SQLiteStore)(nil)
