package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/tracedoc-labs/tracedoc/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/tracedoc-labs/tracedoc/internal/core/domain"
	"github.com/tracedoc-labs/tracedoc/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.VectorCollection = (*Collection)(nil)

// dbFileName is the collection's on-disk name inside the data directory.
const dbFileName = "collection.db"

// Collection is the SQLite-backed vector collection.
type Collection struct {
	db   *sql.DB
	path string
}

// NewCollection opens (creating if needed) the collection database under
// dataDir. If dataDir is empty, defaults to ~/.tracedoc/data.
func NewCollection(dataDir string) (*Collection, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".tracedoc", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// WAL mode for better concurrency between the TUI and CLI.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	c := &Collection{
		db:   db,
		path: dbPath,
	}

	if err := c.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *Collection) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Collection) Path() string {
	return c.path
}

// Count returns the number of stored records.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var count int
	row := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records")
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return count, nil
}

// AddBatch inserts records in one transaction. Conflicts on chunk ID are
// ignored, so a repeated population pass cannot create duplicates.
func (c *Collection) AddBatch(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (chunk_id, text, page, kind, level, embedding)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if rec.ChunkID == "" {
			return fmt.Errorf("%w: record without chunk ID", domain.ErrInvalidInput)
		}
		if len(rec.Embedding) == 0 {
			return fmt.Errorf("%w: record %s without embedding", domain.ErrInvalidInput, rec.ChunkID)
		}

		embeddingBlob := float32SliceToBytes(rec.Embedding)

		if _, err := stmt.ExecContext(ctx, rec.ChunkID, rec.Text, rec.Page,
			rec.Kind.String(), rec.Level, embeddingBlob); err != nil {
			return fmt.Errorf("inserting record %s: %w", rec.ChunkID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Query returns the k most similar records to the embedding, ranked by
// cosine similarity in non-increasing order.
func (c *Collection) Query(ctx context.Context, embedding []float32, k int) ([]domain.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("%w: empty query embedding", domain.ErrInvalidInput)
	}

	rows, err := c.db.QueryContext(ctx, "SELECT chunk_id, text, page, embedding FROM records")
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var hits []domain.VectorHit
	for rows.Next() {
		var hit domain.VectorHit
		var blob []byte
		if err := rows.Scan(&hit.ChunkID, &hit.Text, &hit.Page, &blob); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		stored := bytesToFloat32Slice(blob)
		if len(stored) != len(embedding) {
			return nil, fmt.Errorf("record %s: dimension mismatch, stored %d vs query %d",
				hit.ChunkID, len(stored), len(embedding))
		}
		hit.Score = cosineSimilarity(embedding, stored)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// migrate runs all pending migrations.
func (c *Collection) migrate(fsys embed.FS) error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := c.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := c.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := c.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two vectors
// of equal length. Zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
