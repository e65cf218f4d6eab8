package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGRepo implements Repo using Postgres. The document body lives in a JSONB
// content column; identity and ownership are first-class columns.
type PGRepo struct {
	DB *sql.DB
}

// Save upserts a resume by identifier.
func (r *PGRepo) Save(ctx context.Context, doc Resume) (Resume, error) {
	content, err := json.Marshal(doc)
	if err != nil {
		return Resume{}, fmt.Errorf("marshal resume: %w", err)
	}

	const query = `
INSERT INTO resumes (id, user_id, title, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, to_timestamp($5 / 1000.0), now())
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  content = EXCLUDED.content,
  updated_at = now()
WHERE resumes.user_id = EXCLUDED.user_id`

	res, err := r.DB.ExecContext(ctx, query, doc.ID, doc.UserID, doc.DisplayTitle(), content, doc.CreatedAt)
	if err != nil {
		return Resume{}, fmt.Errorf("save resume id=%s: %w", doc.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Resume{}, ErrNotFound
	}
	doc.UpdatedAt = time.Now().UTC()
	return doc, nil
}

// GetByID returns a resume owned by the user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT user_id, content, updated_at
FROM resumes
WHERE id = $1 AND user_id = $2
LIMIT 1`

	var owner string
	var content []byte
	var updatedAt time.Time
	err := r.DB.QueryRowContext(ctx, query, resumeID, userID).Scan(&owner, &content, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, fmt.Errorf("get resume id=%s: %w", resumeID, err)
	}

	doc, err := unmarshalResume(content)
	if err != nil {
		return Resume{}, err
	}
	doc.UserID = owner
	doc.UpdatedAt = updatedAt
	return doc, nil
}

// ListByUser returns the user's resumes, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Resume, error) {
	const query = `
SELECT content, updated_at
FROM resumes
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list resumes user=%s: %w", userID, err)
	}
	defer rows.Close()

	var docs []Resume
	for rows.Next() {
		var content []byte
		var updatedAt time.Time
		if err := rows.Scan(&content, &updatedAt); err != nil {
			return nil, err
		}
		doc, err := unmarshalResume(content)
		if err != nil {
			return nil, err
		}
		doc.UserID = userID
		doc.UpdatedAt = updatedAt
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []Resume{}
	}
	return docs, nil
}

// CountByUser returns the number of resumes the user owns.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT count(*) FROM resumes WHERE user_id = $1`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count resumes user=%s: %w", userID, err)
	}
	return count, nil
}

// Delete removes a resume owned by the user.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	const query = `DELETE FROM resumes WHERE id = $1 AND user_id = $2`
	res, err := r.DB.ExecContext(ctx, query, resumeID, userID)
	if err != nil {
		return fmt.Errorf("delete resume id=%s: %w", resumeID, err)
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

func unmarshalResume(content []byte) (Resume, error) {
	var doc Resume
	if err := json.Unmarshal(content, &doc); err != nil {
		return Resume{}, fmt.Errorf("unmarshal resume content: %w", err)
	}
	return doc, nil
}

// ClaimGuest reassigns every resume owned by the guest identity to the
// signed-in identity and returns how many moved.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE resumes SET user_id = $1, updated_at = now() WHERE user_id = $2`,
		authedUserID, guestUserID,
	)
	if err != nil {
		return 0, fmt.Errorf("claim resumes: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("claim resumes rows: %w", err)
	}
	return int(n), nil
}
