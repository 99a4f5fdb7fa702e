package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"bandofmen/internal/models"
)

func newSessionRepoWithMock(t *testing.T) (SessionRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewSessionRepository(db), mock, db
}

func TestSessionReplace_UpsertsOnUserID(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(7 * 24 * time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(2, time.Now())
	q := `(?s)^\s*INSERT\s+INTO\s+sessions\s*\(user_id,\s*token,\s*expires_at,\s*created_at\).*` +
		`ON\s+CONFLICT\s+\(user_id\)\s+DO\s+UPDATE\s+SET\s+token\s*=\s*EXCLUDED\.token`
	mock.ExpectQuery(q).WithArgs(9, "tok", exp).WillReturnRows(rows)

	s := &models.Session{UserID: 9, Token: "tok", ExpiresAt: exp}
	if err := repo.Replace(context.Background(), s); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	if s.ID != 2 {
		t.Fatalf("unexpected id: %d", s.ID)
	}
}

func TestSessionGetByToken_NotFound(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	s, err := repo.GetByToken(context.Background(), "nope")
	if err != nil {
		t.Fatalf("want nil error on no rows, got %v", err)
	}
	if s != nil {
		t.Fatalf("want nil session, got %+v", s)
	}
}

func TestSessionReplace_SingleStatement(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	exp := time.Now().Add(time.Hour)
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(3, time.Now())
	mock.ExpectQuery(`ON\s+CONFLICT\s+\(user_id\)`).WithArgs(9, "tok2", exp).WillReturnRows(rows)

	s := &models.Session{UserID: 9, Token: "tok2", ExpiresAt: exp}
	if err := repo.Replace(context.Background(), s); err != nil {
		t.Fatalf("Replace error: %v", err)
	}
	// вытеснение и вставка идут одним запросом, отдельного DELETE нет
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSessionDeleteByToken_MissingRowIsNotError(t *testing.T) {
	repo, mock, db := newSessionRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+sessions\s+WHERE\s+token\s*=\s*\$1`).
		WithArgs("gone").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.DeleteByToken(context.Background(), "gone"); err != nil {
		t.Fatalf("DeleteByToken error: %v", err)
	}
}
