package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	pgx "github.com/jackc/pgx/v4"

	commoncrypto "github.com/AlibekovAA/memorize-api/internal/common/crypto"
	"github.com/AlibekovAA/memorize-api/internal/common/db"
	commonerrors "github.com/AlibekovAA/memorize-api/internal/common/errors"
	"github.com/AlibekovAA/memorize-api/internal/user/domain"
)

const usersTable = "users"

// Repository is the user directory. It does not enforce email uniqueness;
// callers that need it check FindByEmail first.
type Repository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	UpdateByID(ctx context.Context, id domain.ID, fields domain.UpdateFields) (domain.User, error)
}

// Querier is the subset of *pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

var ErrUserNotFound = commonerrors.ErrUserNotFound

type PgRepository struct {
	db          Querier
	idGenerator commoncrypto.IDGenerator
}

func NewPgRepository(db Querier, idGenerator commoncrypto.IDGenerator) *PgRepository {
	return &PgRepository{db: db, idGenerator: idGenerator}
}

func (r *PgRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	id, err := r.idGenerator.NewID()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to generate user id: %w", err)
	}
	user.ID = domain.ID(id)

	memorize, err := encodeMemorize(user.Memorize)
	if err != nil {
		return domain.User{}, err
	}

	start := time.Now()
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, memorize)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		memorize,
	).Scan(&user.CreatedAt)
	if err := db.HandleExecError(err, "create user", usersTable, start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// FindByID never selects the password hash.
func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if !isValidID(id) {
		return domain.User{}, ErrUserNotFound
	}

	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, email, memorize, created_at FROM users WHERE id = $1`,
		string(id),
	)

	user, err := scanProfile(row)
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by id", usersTable, start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// FindByEmail returns the oldest record with the given email, hash included.
func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.db.QueryRow(
		ctx,
		`SELECT id, name, email, password_hash, memorize, created_at
		 FROM users
		 WHERE email = $1
		 ORDER BY created_at ASC
		 LIMIT 1`,
		email,
	)

	var (
		user     domain.User
		memorize []byte
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &memorize, &user.CreatedAt)
	if err == nil {
		user.Memorize, err = decodeMemorize(memorize)
	}
	if err := db.HandleQueryError(err, ErrUserNotFound, "find user by email", usersTable, start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

// UpdateByID overwrites the non-nil fields and returns the updated record
// without its hash. An empty field set just reads the record back.
func (r *PgRepository) UpdateByID(ctx context.Context, id domain.ID, fields domain.UpdateFields) (domain.User, error) {
	if fields.IsEmpty() {
		return r.FindByID(ctx, id)
	}
	if !isValidID(id) {
		return domain.User{}, ErrUserNotFound
	}

	query, args, err := buildUpdateQuery(id, fields)
	if err != nil {
		return domain.User{}, err
	}

	start := time.Now()
	user, err := scanProfile(r.db.QueryRow(ctx, query, args...))
	if err := db.HandleQueryError(err, ErrUserNotFound, "update user", usersTable, start); err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func buildUpdateQuery(id domain.ID, fields domain.UpdateFields) (string, []interface{}, error) {
	var (
		sets []string
		args []interface{}
	)

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Email != nil {
		add("email", *fields.Email)
	}
	if fields.Memorize != nil {
		memorize, err := encodeMemorize(*fields.Memorize)
		if err != nil {
			return "", nil, err
		}
		add("memorize", memorize)
	}

	args = append(args, string(id))
	query := fmt.Sprintf(
		`UPDATE users SET %s WHERE id = $%d RETURNING id, name, email, memorize, created_at`,
		strings.Join(sets, ", "),
		len(args),
	)
	return query, args, nil
}

func scanProfile(row pgx.Row) (domain.User, error) {
	var (
		user     domain.User
		memorize []byte
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &memorize, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	items, err := decodeMemorize(memorize)
	if err != nil {
		return domain.User{}, err
	}
	user.Memorize = items
	return user, nil
}

func encodeMemorize(items []json.RawMessage) ([]byte, error) {
	if items == nil {
		items = []json.RawMessage{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode memorize items: %w", err)
	}
	return b, nil
}

func decodeMemorize(raw []byte) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return []json.RawMessage{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to decode memorize items: %w", err)
	}
	if items == nil {
		items = []json.RawMessage{}
	}
	return items, nil
}

func isValidID(id domain.ID) bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
