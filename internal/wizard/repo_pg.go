package wizard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"resumebuilder-backend/internal/resumes"
)

// PGRepo stores drafts in Postgres with the document as JSONB.
type PGRepo struct {
	DB *sql.DB
}

func NewPGRepo(db *sql.DB) *PGRepo {
	return &PGRepo{DB: db}
}

func (r *PGRepo) Create(ctx context.Context, d Draft) error {
	content, err := json.Marshal(d.Document)
	if err != nil {
		return fmt.Errorf("marshal draft document: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO wizard_drafts (id, user_id, step, content, refining_id, rewrite_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())`,
		d.ID, d.UserID, d.Step, content, d.RefiningID, d.RewriteToken,
	)
	if err != nil {
		return fmt.Errorf("insert draft: %w", err)
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID, draftID string) (Draft, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, step, content, refining_id, rewrite_token, created_at, updated_at
		FROM wizard_drafts
		WHERE id = $1 AND user_id = $2`,
		draftID, userID,
	)
	return scanDraft(row)
}

func (r *PGRepo) Update(ctx context.Context, d Draft) error {
	content, err := json.Marshal(d.Document)
	if err != nil {
		return fmt.Errorf("marshal draft document: %w", err)
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE wizard_drafts
		SET step = $3, content = $4, refining_id = $5, rewrite_token = $6, updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		d.ID, d.UserID, d.Step, content, d.RefiningID, d.RewriteToken,
	)
	if err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update draft rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, draftID string) error {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM wizard_drafts WHERE id = $1 AND user_id = $2`,
		draftID, userID,
	)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete draft rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanDraft(row *sql.Row) (Draft, error) {
	var d Draft
	var content []byte
	err := row.Scan(&d.ID, &d.UserID, &d.Step, &content, &d.RefiningID, &d.RewriteToken, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return Draft{}, ErrNotFound
	}
	if err != nil {
		return Draft{}, fmt.Errorf("scan draft: %w", err)
	}
	var doc resumes.Resume
	if err := json.Unmarshal(content, &doc); err != nil {
		return Draft{}, fmt.Errorf("unmarshal draft document: %w", err)
	}
	doc.UserID = d.UserID
	d.Document = doc
	return d, nil
}

// ClaimGuest reassigns every draft owned by the guest identity to the
// signed-in identity and returns how many moved.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE wizard_drafts SET user_id = $1, updated_at = now() WHERE user_id = $2`,
		authedUserID, guestUserID,
	)
	if err != nil {
		return 0, fmt.Errorf("claim drafts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("claim drafts rows: %w", err)
	}
	return int(n), nil
}
