package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zjrosen/connmux/internal/log"
	"github.com/zjrosen/connmux/internal/workspace"
)

// LayoutNotFoundError is returned when a named layout does not exist.
type LayoutNotFoundError struct {
	Name string
}

func (e *LayoutNotFoundError) Error() string {
	return fmt.Sprintf("layout %q not found", e.Name)
}

// LayoutInfo describes one saved layout without its tree payload.
type LayoutInfo struct {
	Name     string
	TabCount int
	SavedAt  time.Time
}

// LayoutStore saves and restores workspace snapshots as JSON rows.
type LayoutStore struct {
	db *sql.DB
}

func newLayoutStore(db *sql.DB) *LayoutStore {
	return &LayoutStore{db: db}
}

// Save persists a named layout, replacing any previous snapshot under
// the same name.
func (s *LayoutStore) Save(name string, tabs []workspace.TabSnapshot) error {
	data, err := json.Marshal(tabs)
	if err != nil {
		return fmt.Errorf("encoding layout: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO layouts (name, tabs, tab_count, saved_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET tabs = excluded.tabs,
		 tab_count = excluded.tab_count, saved_at = excluded.saved_at`,
		name, string(data), len(tabs), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("saving layout: %w", err)
	}
	log.Debug(log.CatStore, "layout saved", "name", name, "tabs", len(tabs))
	return nil
}

// Load retrieves a named layout.
func (s *LayoutStore) Load(name string) ([]workspace.TabSnapshot, error) {
	var data string
	err := s.db.QueryRow(`SELECT tabs FROM layouts WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &LayoutNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("loading layout: %w", err)
	}
	var tabs []workspace.TabSnapshot
	if err := json.Unmarshal([]byte(data), &tabs); err != nil {
		return nil, fmt.Errorf("decoding layout: %w", err)
	}
	return tabs, nil
}

// Delete removes a named layout. Deleting a layout that does not exist
// returns LayoutNotFoundError.
func (s *LayoutStore) Delete(name string) error {
	result, err := s.db.Exec(`DELETE FROM layouts WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("deleting layout: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return &LayoutNotFoundError{Name: name}
	}
	return nil
}

// List returns every saved layout, most recently saved first.
func (s *LayoutStore) List() ([]LayoutInfo, error) {
	rows, err := s.db.Query(
		`SELECT name, tab_count, saved_at FROM layouts ORDER BY saved_at DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var infos []LayoutInfo
	for rows.Next() {
		var (
			info  LayoutInfo
			saved int64
		)
		if err := rows.Scan(&info.Name, &info.TabCount, &saved); err != nil {
			return nil, fmt.Errorf("scanning layout row: %w", err)
		}
		info.SavedAt = time.Unix(saved, 0)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layout rows: %w", err)
	}
	return infos, nil
}
