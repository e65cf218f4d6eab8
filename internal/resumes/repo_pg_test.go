package resumes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveUpsertsByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := New("guest:u1")
	doc.Title = "Backend Resume"

	mock.ExpectExec("INSERT INTO resumes").
		WithArgs(doc.ID, doc.UserID, "Backend Resume", sqlmock.AnyArg(), doc.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveForeignOwnerIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	doc := New("guest:intruder")

	// The upsert guard rejects a write against a row owned by someone else.
	mock.ExpectExec("INSERT INTO resumes").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if _, err := repo.Save(context.Background(), doc); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Save: expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT user_id, content, updated_at").
		WithArgs("missing", "guest:u1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "content", "updated_at"}))

	if _, err := repo.GetByID(context.Background(), "guest:u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID: expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM resumes").
		WithArgs("missing", "guest:u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "guest:u1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoClaimGuestCountsMoves(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("UPDATE resumes SET user_id").
		WithArgs("google:u1", "guest:abc").
		WillReturnResult(sqlmock.NewResult(0, 2))

	moved, err := repo.ClaimGuest(context.Background(), "guest:abc", "google:u1")
	if err != nil {
		t.Fatalf("ClaimGuest: %v", err)
	}
	if moved != 2 {
		t.Fatalf("ClaimGuest: expected 2 moved, got %d", moved)
	}
}
