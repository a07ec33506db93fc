package history

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

// PGRepo implements Repo on the history_entries table.
type PGRepo struct {
	DB *sql.DB
}

const entryColumns = `id, job_title, company, created_at, status, job_description, tailored_resume, cover_letter, resume_preview`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (Entry, error) {
	var e Entry
	var status string
	if err := row.Scan(
		&e.ID,
		&e.JobTitle,
		&e.Company,
		&e.CreatedAt,
		&status,
		&e.JobDescription,
		&e.TailoredResume,
		&e.CoverLetter,
		&e.ResumePreview,
	); err != nil {
		return Entry{}, err
	}
	parsed, ok := ParseStatus(status)
	if !ok {
		return Entry{}, ErrInvalidStatus
	}
	e.Status = parsed
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}

// List returns all entries, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Entry, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+entryColumns+` FROM history_entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Append inserts a new PENDING entry.
func (r *PGRepo) Append(ctx context.Context, in NewEntry) (Entry, error) {
	e := buildEntry(in)
	const query = `
INSERT INTO history_entries (
	id, job_title, company, created_at, status, job_description, tailored_resume, cover_letter, resume_preview
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.JobTitle,
		e.Company,
		e.CreatedAt,
		string(e.Status),
		e.JobDescription,
		e.TailoredResume,
		e.CoverLetter,
		e.ResumePreview,
	)
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

// UpdateStatus sets status on one row and returns the updated entry.
func (r *PGRepo) UpdateStatus(ctx context.Context, id string, status Status) (Entry, error) {
	if !status.Terminal() {
		return Entry{}, ErrInvalidStatus
	}
	// Non-UUID ids cannot exist in the table; Postgres would reject the cast.
	if _, err := uuid.Parse(id); err != nil {
		return Entry{}, ErrNotFound
	}
	const query = `
UPDATE history_entries
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + entryColumns
	e, err := scanEntry(r.DB.QueryRowContext(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	return e, nil
}
