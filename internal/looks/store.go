package looks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"gradectl/internal/cdl"
	"gradectl/internal/config"
)

// Look is a named CDL correction in the library.
type Look struct {
	ID          string
	Name        string
	Description string
	Correction  cdl.ColorCorrection
	Builtin     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrNotFound indicates no look with the requested name exists.
var ErrNotFound = errors.New("look not found")

// ErrBuiltin indicates an attempt to overwrite or delete a seeded look.
var ErrBuiltin = errors.New("builtin looks cannot be modified")

// Store manages look persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the look database, applies the schema,
// and seeds builtin looks that are missing.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := sql.Open("sqlite", cfg.Paths.LooksDB)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: cfg.Paths.LooksDB}
	if err := store.applySchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.seedBuiltins(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// List returns all looks ordered builtin-first, then by name.
func (s *Store) List(ctx context.Context) ([]Look, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" FROM looks ORDER BY builtin DESC, name ASC")
	if err != nil {
		return nil, fmt.Errorf("list looks: %w", err)
	}
	defer rows.Close()

	var looks []Look
	for rows.Next() {
		look, err := scanLook(rows)
		if err != nil {
			return nil, err
		}
		looks = append(looks, look)
	}
	return looks, rows.Err()
}

// Get fetches a look by name (case-insensitive).
func (s *Store) Get(ctx context.Context, name string) (Look, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM looks WHERE name = ? COLLATE NOCASE", strings.TrimSpace(name))
	look, err := scanLook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Look{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return look, err
}

// Save inserts a new user look, or updates an existing user look of the
// same name. Builtin names are protected.
func (s *Store) Save(ctx context.Context, look Look) (Look, error) {
	look.Name = strings.TrimSpace(look.Name)
	if look.Name == "" {
		return Look{}, errors.New("look name must not be empty")
	}
	if err := look.Correction.Validate(); err != nil {
		return Look{}, err
	}

	existing, err := s.Get(ctx, look.Name)
	switch {
	case err == nil:
		if existing.Builtin {
			return Look{}, fmt.Errorf("%q: %w", look.Name, ErrBuiltin)
		}
		look.ID = existing.ID
		look.CreatedAt = existing.CreatedAt
		look.UpdatedAt = time.Now().UTC()
		if err := s.update(ctx, look); err != nil {
			return Look{}, err
		}
		return look, nil
	case errors.Is(err, ErrNotFound):
		look.ID = uuid.NewString()
		now := time.Now().UTC()
		look.CreatedAt = now
		look.UpdatedAt = now
		if err := s.insert(ctx, look); err != nil {
			return Look{}, err
		}
		return look, nil
	default:
		return Look{}, err
	}
}

// Delete removes a user look by name.
func (s *Store) Delete(ctx context.Context, name string) error {
	look, err := s.Get(ctx, name)
	if err != nil {
		return err
	}
	if look.Builtin {
		return fmt.Errorf("%q: %w", name, ErrBuiltin)
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM looks WHERE id = ?", look.ID); err != nil {
		return fmt.Errorf("delete look: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, name, description,
	slope_r, slope_g, slope_b,
	offset_r, offset_g, offset_b,
	power_r, power_g, power_b,
	saturation, builtin, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLook(row rowScanner) (Look, error) {
	var look Look
	var builtin int
	var created, updated string
	err := row.Scan(
		&look.ID, &look.Name, &look.Description,
		&look.Correction.Slope[0], &look.Correction.Slope[1], &look.Correction.Slope[2],
		&look.Correction.Offset[0], &look.Correction.Offset[1], &look.Correction.Offset[2],
		&look.Correction.Power[0], &look.Correction.Power[1], &look.Correction.Power[2],
		&look.Correction.Saturation, &builtin, &created, &updated,
	)
	if err != nil {
		return Look{}, err
	}
	look.Builtin = builtin != 0
	look.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
	look.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
	return look, nil
}

func (s *Store) insert(ctx context.Context, look Look) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO looks (
		id, name, description,
		slope_r, slope_g, slope_b,
		offset_r, offset_g, offset_b,
		power_r, power_g, power_b,
		saturation, builtin, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		look.ID, look.Name, look.Description,
		look.Correction.Slope[0], look.Correction.Slope[1], look.Correction.Slope[2],
		look.Correction.Offset[0], look.Correction.Offset[1], look.Correction.Offset[2],
		look.Correction.Power[0], look.Correction.Power[1], look.Correction.Power[2],
		look.Correction.Saturation, boolToInt(look.Builtin),
		look.CreatedAt.Format(time.RFC3339Nano), look.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert look: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, look Look) error {
	_, err := s.db.ExecContext(ctx, `UPDATE looks SET
		description = ?,
		slope_r = ?, slope_g = ?, slope_b = ?,
		offset_r = ?, offset_g = ?, offset_b = ?,
		power_r = ?, power_g = ?, power_b = ?,
		saturation = ?, updated_at = ?
	WHERE id = ?`,
		look.Description,
		look.Correction.Slope[0], look.Correction.Slope[1], look.Correction.Slope[2],
		look.Correction.Offset[0], look.Correction.Offset[1], look.Correction.Offset[2],
		look.Correction.Power[0], look.Correction.Power[1], look.Correction.Power[2],
		look.Correction.Saturation, look.UpdatedAt.Format(time.RFC3339Nano),
		look.ID,
	)
	if err != nil {
		return fmt.Errorf("update look: %w", err)
	}
	return nil
}

func (s *Store) seedBuiltins(ctx context.Context) error {
	for _, look := range Builtins() {
		look.ID = uuid.NewString()
		look.Builtin = true
		now := time.Now().UTC()
		look.CreatedAt = now
		look.UpdatedAt = now
		_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO looks (
			id, name, description,
			slope_r, slope_g, slope_b,
			offset_r, offset_g, offset_b,
			power_r, power_g, power_b,
			saturation, builtin, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			look.ID, look.Name, look.Description,
			look.Correction.Slope[0], look.Correction.Slope[1], look.Correction.Slope[2],
			look.Correction.Offset[0], look.Correction.Offset[1], look.Correction.Offset[2],
			look.Correction.Power[0], look.Correction.Power[1], look.Correction.Power[2],
			look.Correction.Saturation, 1,
			look.CreatedAt.Format(time.RFC3339Nano), look.UpdatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("seed builtin look %q: %w", look.Name, err)
		}
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
