package blob

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	ctx := t.Context()
	p := NewPostgres(db)

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS workpad_blobs")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := p.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() failed: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM workpad_blobs WHERE key = $1")).
		WithArgs("workspace.json").
		WillReturnRows(sqlmock.NewRows([]string{"data"}))
	if _, err := p.Get(ctx, "workspace.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on missing row error = %v, want %v", err, ErrNotFound)
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workpad_blobs (key, data, updated_at)")).
		WithArgs("workspace.json", []byte(`{"a.md":"hi"}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := p.Put(ctx, "workspace.json", []byte(`{"a.md":"hi"}`)); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT data FROM workpad_blobs WHERE key = $1")).
		WithArgs("workspace.json").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"a.md":"hi"}`)))
	got, err := p.Get(ctx, "workspace.json")
	if err != nil || string(got) != `{"a.md":"hi"}` {
		t.Errorf("Get() = %q, %v", got, err)
	}

	dbErr := errors.New("connection reset")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO workpad_blobs")).WillReturnError(dbErr)
	if err := p.Put(ctx, "workspace.json", nil); !errors.Is(err, dbErr) {
		t.Errorf("Put() error = %v, want %v", err, dbErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
