package draft

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a draft id does not exist.
var ErrNotFound = errors.New("draft not found")

// Draft represents a saved wizard session.
type Draft struct {
	ID        string
	Name      string
	Snapshot  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repo handles draft rows.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Save inserts or replaces a draft, bumping updated_at on replace.
func (r *Repo) Save(ctx context.Context, d Draft) error {
	if d.ID == "" || d.Name == "" {
		return fmt.Errorf("save draft: id and name are required")
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO drafts(id, name, snapshot, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 snapshot=excluded.snapshot,
	 updated_at=CURRENT_TIMESTAMP;
	`, d.ID, d.Name, d.Snapshot)
	return err
}

// Get returns one draft by id.
func (r *Repo) Get(ctx context.Context, id string) (Draft, error) {
	var d Draft
	err := r.db.QueryRowContext(ctx, `
	SELECT id, name, snapshot, created_at, updated_at FROM drafts WHERE id = ?`, id).
		Scan(&d.ID, &d.Name, &d.Snapshot, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, err
	}
	return d, nil
}

// List returns all drafts, most recently updated first.
func (r *Repo) List(ctx context.Context) ([]Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, name, snapshot, created_at, updated_at FROM drafts ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Draft
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.Name, &d.Snapshot, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a draft. Deleting an unknown id is ErrNotFound.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
