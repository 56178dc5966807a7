package store

import (
	"database/sql"
	"image"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/ayusman/emojidraw/internal/shape"
)

// Source says where a classified canvas came from.
type Source string

const (
	// SourceLive is a canvas drawn in front of the camera.
	SourceLive Source = "live"
	// SourceUpload is a canvas posted to the HTTP API.
	SourceUpload Source = "upload"
)

// Attempt is one stored classification.
type Attempt struct {
	ID          string
	Label       shape.Label
	Source      Source
	Center      image.Point
	Area        float64
	Circularity float64
	AspectRatio float64
	Corners     int
	Solidity    float64
	DeepDefects int
	Points      int
	Path        []image.Point
	CreatedAt   time.Time
}

// NewAttempt builds an attempt from a classification result.
func NewAttempt(src Source, r shape.Result, path []image.Point) *Attempt {
	return &Attempt{
		Label:       r.Label,
		Source:      src,
		Center:      r.Center,
		Area:        r.Features.Area,
		Circularity: r.Features.Circularity,
		AspectRatio: r.Features.AspectRatio,
		Corners:     r.Features.Corners,
		Solidity:    r.Features.Solidity,
		DeepDefects: r.Features.DeepDefects,
		Points:      len(path),
		Path:        path,
	}
}

// AttemptRepository provides operations on stored attempts.
type AttemptRepository struct {
	db *sql.DB
}

// Attempts returns the attempt repository for this store.
func (s *Store) Attempts() *AttemptRepository {
	return &AttemptRepository{db: s.db}
}

const attemptColumns = `id, label, source, center_x, center_y, area, circularity, aspect_ratio,
		 corners, solidity, deep_defects, points, created_at`

// Create inserts an attempt and its stroke path in a single transaction.
// An empty ID is filled with a new UUID.
func (r *AttemptRepository) Create(a *Attempt) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Source == "" {
		a.Source = SourceLive
	}
	a.CreatedAt = time.Now()

	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO attempts (`+attemptColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Label.String(), string(a.Source), a.Center.X, a.Center.Y,
		a.Area, a.Circularity, a.AspectRatio, a.Corners, a.Solidity, a.DeepDefects,
		a.Points, a.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "insert attempt")
	}

	if len(a.Path) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO attempt_points (attempt_id, sequence, x, y) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return errors.Wrap(err, "prepare points")
		}
		defer stmt.Close()

		for i, p := range a.Path {
			if _, err := stmt.Exec(a.ID, i, p.X, p.Y); err != nil {
				return errors.Wrapf(err, "insert point %d", i)
			}
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAttempt(row rowScanner) (*Attempt, error) {
	a := &Attempt{}
	var label, source string

	err := row.Scan(&a.ID, &label, &source, &a.Center.X, &a.Center.Y,
		&a.Area, &a.Circularity, &a.AspectRatio, &a.Corners, &a.Solidity, &a.DeepDefects,
		&a.Points, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	a.Label = shape.ParseLabel(label)
	a.Source = Source(source)
	return a, nil
}

// GetByID retrieves an attempt with its stroke path.
func (r *AttemptRepository) GetByID(id string) (*Attempt, error) {
	a, err := scanAttempt(r.db.QueryRow(
		`SELECT `+attemptColumns+` FROM attempts WHERE id = ?`, id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.db.Query(
		`SELECT x, y FROM attempt_points WHERE attempt_id = ? ORDER BY sequence`, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p image.Point
		if err := rows.Scan(&p.X, &p.Y); err != nil {
			return nil, err
		}
		a.Path = append(a.Path, p)
	}

	return a, rows.Err()
}

// List retrieves the most recent attempts, newest first, without paths.
// A limit of zero or less returns every attempt.
func (r *AttemptRepository) List(limit int) ([]*Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM attempts ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []*Attempt
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return attempts, nil
}

// CountByLabel returns how many attempts ended with each label.
func (r *AttemptRepository) CountByLabel() (map[shape.Label]int, error) {
	rows, err := r.db.Query(`SELECT label, COUNT(*) FROM attempts GROUP BY label`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[shape.Label]int)
	for rows.Next() {
		var label string
		var n int
		if err := rows.Scan(&label, &n); err != nil {
			return nil, err
		}
		counts[shape.ParseLabel(label)] += n
	}

	return counts, rows.Err()
}

// Delete removes an attempt and its path.
func (r *AttemptRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM attempts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
