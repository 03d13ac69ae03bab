// Package store keeps free-form key/value notes in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/dtsynthetic/postman-dynatrace-converter/json"
)

var (
	ErrEmptyKey   = errors.New("key must not be empty")
	ErrEmptyValue = errors.New("value must not be empty")
)

type ExportFormat string

const (
	ExportFormatYAML ExportFormat = "yaml"
	ExportFormatJSON ExportFormat = "json"
)

type Entry struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type IStoreClient interface {
	Set(ctx context.Context, key string, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	List(ctx context.Context) ([]Entry, error)
	Delete(ctx context.Context, key string) (bool, error)
	Clear(ctx context.Context) (int64, error)
	Export(ctx context.Context, format ExportFormat, w io.Writer) error
	Close() error
}

type StoreClient struct {
	db     *sql.DB
	Path   string
	Logger *logrus.Logger
}

// NewStoreClient opens or creates the database at path. The parent
// directory must already exist.
func NewStoreClient(path string, logger *logrus.Logger) (*StoreClient, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	storeClient := &StoreClient{
		db:     db,
		Path:   path,
		Logger: logger,
	}

	if err := storeClient.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Debugf("Opened note store at %s", path)
	return storeClient, nil
}

func (storeClient *StoreClient) Close() error {
	return storeClient.db.Close()
}

func (storeClient *StoreClient) createSchema() error {
	_, err := storeClient.db.Exec(`CREATE TABLE IF NOT EXISTS notes (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Set trims both sides and inserts or replaces the note.
func (storeClient *StoreClient) Set(ctx context.Context, key string, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return ErrEmptyKey
	}
	if value == "" {
		return ErrEmptyValue
	}

	_, err := storeClient.db.ExecContext(ctx,
		`INSERT INTO notes (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing %q: %w", key, err)
	}

	storeClient.Logger.Debugf("Stored note %q", key)
	return nil
}

func (storeClient *StoreClient) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := storeClient.db.QueryRowContext(ctx,
		`SELECT value FROM notes WHERE key = ?`, strings.TrimSpace(key),
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return value, true, nil
}

// List returns every note ordered by key.
func (storeClient *StoreClient) List(ctx context.Context) ([]Entry, error) {
	rows, err := storeClient.db.QueryContext(ctx, `SELECT key, value, updated_at FROM notes ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var entry Entry
		var updatedAt string
		if err := rows.Scan(&entry.Key, &entry.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		entry.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt)
		if err != nil {
			storeClient.Logger.Warnf("Note %q has an unreadable timestamp %q", entry.Key, updatedAt)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (storeClient *StoreClient) Delete(ctx context.Context, key string) (bool, error) {
	result, err := storeClient.db.ExecContext(ctx, `DELETE FROM notes WHERE key = ?`, strings.TrimSpace(key))
	if err != nil {
		return false, fmt.Errorf("deleting %q: %w", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting %q: %w", key, err)
	}
	return affected > 0, nil
}

// Clear removes every note and reports how many were removed.
func (storeClient *StoreClient) Clear(ctx context.Context) (int64, error) {
	result, err := storeClient.db.ExecContext(ctx, `DELETE FROM notes`)
	if err != nil {
		return 0, fmt.Errorf("clearing notes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clearing notes: %w", err)
	}

	storeClient.Logger.Infof("Cleared %d notes from %s", affected, storeClient.Path)
	return affected, nil
}

// Export writes all notes as a single key/value mapping.
func (storeClient *StoreClient) Export(ctx context.Context, format ExportFormat, w io.Writer) error {
	entries, err := storeClient.List(ctx)
	if err != nil {
		return err
	}

	notes := make(map[string]string, len(entries))
	for _, entry := range entries {
		notes[entry.Key] = entry.Value
	}

	switch format {
	case ExportFormatYAML, "":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(notes); err != nil {
			return fmt.Errorf("encoding notes as yaml: %w", err)
		}
		return encoder.Close()
	case ExportFormatJSON:
		return json.NewJsonClient(false, storeClient.Logger).Write(notes, w)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}
