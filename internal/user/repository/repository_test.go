package repository

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	"github.com/AlibekovAA/memorize-api/internal/user/domain"
)

const testUserID = "3f2b8c1e-9a4d-4c5e-8f7a-1b2c3d4e5f60"

type fakeRow struct {
	scanFunc func(dest ...interface{}) error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	return r.scanFunc(dest...)
}

type fakeQuerier struct {
	queries  []string
	args     [][]interface{}
	rowFunc  func(sql string, args []interface{}) pgx.Row
	execFunc func(sql string, args []interface{}) (pgconn.CommandTag, error)
}

func (q *fakeQuerier) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	if q.execFunc != nil {
		return q.execFunc(sql, args)
	}
	return nil, nil
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...interface{}) pgx.Row {
	q.queries = append(q.queries, sql)
	q.args = append(q.args, args)
	if q.rowFunc != nil {
		return q.rowFunc(sql, args)
	}
	return fakeRow{scanFunc: func(...interface{}) error { return pgx.ErrNoRows }}
}

type fixedIDGenerator struct {
	id  string
	err error
}

func (g fixedIDGenerator) NewID() (string, error) {
	return g.id, g.err
}

func profileRow(id, name, email, memorize string, createdAt time.Time) pgx.Row {
	return fakeRow{scanFunc: func(dest ...interface{}) error {
		*dest[0].(*domain.ID) = domain.ID(id)
		*dest[1].(*string) = name
		*dest[2].(*string) = email
		*dest[3].(*[]byte) = []byte(memorize)
		*dest[4].(*time.Time) = createdAt
		return nil
	}}
}

func TestPgRepository_Create_AssignsID(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{
		rowFunc: func(sql string, args []interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error {
				*dest[0].(*time.Time) = created
				return nil
			}}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: testUserID})

	user, err := repo.Create(context.Background(), domain.User{
		Name:         "A",
		Email:        "a@x.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != testUserID {
		t.Errorf("expected id %s, got %s", testUserID, user.ID)
	}
	if !user.CreatedAt.Equal(created) {
		t.Errorf("expected created_at %v, got %v", created, user.CreatedAt)
	}

	args := q.args[0]
	if args[0] != testUserID || args[1] != "A" || args[2] != "a@x.com" || args[3] != "hash" {
		t.Errorf("unexpected insert args: %v", args)
	}
	if string(args[4].([]byte)) != "[]" {
		t.Errorf("expected empty memorize array, got %s", args[4])
	}
}

func TestPgRepository_Create_StoreError(t *testing.T) {
	cause := errors.New("connection refused")
	q := &fakeQuerier{
		rowFunc: func(string, []interface{}) pgx.Row {
			return fakeRow{scanFunc: func(...interface{}) error { return cause }}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{id: testUserID})

	_, err := repo.Create(context.Background(), domain.User{Name: "A"})
	if !errors.Is(err, cause) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
}

func TestPgRepository_Create_IDGenerationError(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPgRepository(q, fixedIDGenerator{err: errors.New("entropy")})

	if _, err := repo.Create(context.Background(), domain.User{}); err == nil {
		t.Fatal("expected error")
	}
	if len(q.queries) != 0 {
		t.Error("expected no query when id generation fails")
	}
}

func TestPgRepository_FindByID_Success(t *testing.T) {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	q := &fakeQuerier{
		rowFunc: func(sql string, args []interface{}) pgx.Row {
			return profileRow(testUserID, "A", "a@x.com", `[{"w":"casa"},"dois"]`, created)
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{})

	user, err := repo.FindByID(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("expected password hash to be excluded")
	}
	if strings.Contains(q.queries[0], "password_hash") {
		t.Error("profile query must not select password_hash")
	}
	if len(user.Memorize) != 2 || string(user.Memorize[1]) != `"dois"` {
		t.Errorf("unexpected memorize items: %s", user.Memorize)
	}
}

func TestPgRepository_FindByID_NotFound(t *testing.T) {
	repo := NewPgRepository(&fakeQuerier{}, fixedIDGenerator{})

	_, err := repo.FindByID(context.Background(), testUserID)
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPgRepository_FindByID_MalformedID(t *testing.T) {
	q := &fakeQuerier{}
	repo := NewPgRepository(q, fixedIDGenerator{})

	_, err := repo.FindByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if len(q.queries) != 0 {
		t.Error("expected no query for malformed id")
	}
}

func TestPgRepository_FindByEmail_IncludesHash(t *testing.T) {
	q := &fakeQuerier{
		rowFunc: func(sql string, args []interface{}) pgx.Row {
			return fakeRow{scanFunc: func(dest ...interface{}) error {
				*dest[0].(*domain.ID) = testUserID
				*dest[1].(*string) = "A"
				*dest[2].(*string) = "a@x.com"
				*dest[3].(*string) = "hash"
				*dest[4].(*[]byte) = []byte(`[]`)
				return nil
			}}
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{})

	user, err := repo.FindByEmail(context.Background(), "a@x.com")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.PasswordHash != "hash" {
		t.Errorf("expected hash, got %q", user.PasswordHash)
	}
	if q.args[0][0] != "a@x.com" {
		t.Errorf("unexpected args %v", q.args[0])
	}
}

func TestPgRepository_FindByEmail_NotFound(t *testing.T) {
	repo := NewPgRepository(&fakeQuerier{}, fixedIDGenerator{})

	_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestBuildUpdateQuery(t *testing.T) {
	name := "B"
	email := "b@x.com"
	items := []json.RawMessage{json.RawMessage(`"um"`)}

	query, args, err := buildUpdateQuery(testUserID, domain.UpdateFields{
		Name:     &name,
		Email:    &email,
		Memorize: &items,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := `UPDATE users SET name = $1, email = $2, memorize = $3 WHERE id = $4 RETURNING id, name, email, memorize, created_at`
	if query != want {
		t.Errorf("unexpected query:\n got %s\nwant %s", query, want)
	}
	wantArgs := []interface{}{"B", "b@x.com", []byte(`["um"]`), testUserID}
	if !reflect.DeepEqual(args, wantArgs) {
		t.Errorf("unexpected args: %v", args)
	}
}

func TestBuildUpdateQuery_SingleField(t *testing.T) {
	email := "c@x.com"

	query, args, err := buildUpdateQuery(testUserID, domain.UpdateFields{Email: &email})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.HasPrefix(query, "UPDATE users SET email = $1 WHERE id = $2") {
		t.Errorf("unexpected query %s", query)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %d", len(args))
	}
}

func TestPgRepository_UpdateByID_EmptyFieldsReadsBack(t *testing.T) {
	q := &fakeQuerier{
		rowFunc: func(sql string, args []interface{}) pgx.Row {
			return profileRow(testUserID, "A", "a@x.com", `[]`, time.Now())
		},
	}
	repo := NewPgRepository(q, fixedIDGenerator{})

	user, err := repo.UpdateByID(context.Background(), testUserID, domain.UpdateFields{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Name != "A" {
		t.Errorf("expected current record, got %+v", user)
	}
	if !strings.HasPrefix(q.queries[0], "SELECT") {
		t.Errorf("expected a read, got %s", q.queries[0])
	}
}

func TestPgRepository_UpdateByID_NotFound(t *testing.T) {
	name := "B"
	repo := NewPgRepository(&fakeQuerier{}, fixedIDGenerator{})

	_, err := repo.UpdateByID(context.Background(), testUserID, domain.UpdateFields{Name: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPgRepository_UpdateByID_MalformedID(t *testing.T) {
	name := "B"
	q := &fakeQuerier{}
	repo := NewPgRepository(q, fixedIDGenerator{})

	_, err := repo.UpdateByID(context.Background(), "123", domain.UpdateFields{Name: &name})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if len(q.queries) != 0 {
		t.Error("expected no query for malformed id")
	}
}
