// Package storage provides the SQLite implementation of Storage.
package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/musubi/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		age INTEGER,
		institution TEXT,
		interests TEXT,
		traits TEXT NOT NULL,
		confidence REAL NOT NULL DEFAULT 0,
		vector BLOB,
		semantic BLOB,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_people_created_at ON people(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// SavePerson inserts or replaces a person record.
func (s *SQLiteStorage) SavePerson(ctx context.Context, p *models.Person) error {
	interestsJSON, err := json.Marshal(p.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}
	traitsJSON, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("failed to marshal traits: %w", err)
	}
	now := time.Now()
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO people (id, display_name, age, institution, interests, traits, confidence, vector, semantic, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			age = excluded.age,
			institution = excluded.institution,
			interests = excluded.interests,
			traits = excluded.traits,
			confidence = excluded.confidence,
			vector = excluded.vector,
			semantic = excluded.semantic,
			updated_at = excluded.updated_at
	`, p.ID, p.DisplayName, p.Age, p.Institution, string(interestsJSON), string(traitsJSON),
		p.Confidence, float32SliceToBytes(p.Vector), float32SliceToBytes(p.Semantic), createdAt, now)
	if err != nil {
		return fmt.Errorf("failed to save person: %w", err)
	}
	return nil
}

// GetPerson returns the person with the given id, or sql.ErrNoRows wrapped.
func (s *SQLiteStorage) GetPerson(ctx context.Context, id string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, age, institution, interests, traits, confidence, vector, semantic, created_at, updated_at
		FROM people WHERE id = ?`, id)
	return scanPerson(row)
}

// LoadAll returns every person record ordered by id.
func (s *SQLiteStorage) LoadAll(ctx context.Context) ([]*models.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, age, institution, interests, traits, confidence, vector, semantic, created_at, updated_at
		FROM people ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []*models.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// CountPeople returns the number of stored records.
func (s *SQLiteStorage) CountPeople(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n)
	return n, err
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row rowScanner) (*models.Person, error) {
	var p models.Person
	var interestsJSON, traitsJSON string
	var vectorBytes, semanticBytes []byte
	err := row.Scan(&p.ID, &p.DisplayName, &p.Age, &p.Institution, &interestsJSON, &traitsJSON,
		&p.Confidence, &vectorBytes, &semanticBytes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan person: %w", err)
	}
	if interestsJSON != "" {
		if err := json.Unmarshal([]byte(interestsJSON), &p.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
	}
	if err := json.Unmarshal([]byte(traitsJSON), &p.Traits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal traits: %w", err)
	}
	p.Vector = bytesToFloat32Slice(vectorBytes)
	p.Semantic = bytesToFloat32Slice(semanticBytes)
	return &p, nil
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
