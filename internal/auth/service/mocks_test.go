package service_test

import (
	"context"
	"io"
	"testing"

	"github.com/AlibekovAA/memorize-api/internal/auth/service"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	userdomain "github.com/AlibekovAA/memorize-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/memorize-api/internal/user/repository"
)

type mockUserRepo struct {
	createFunc      func(ctx context.Context, user userdomain.User) (userdomain.User, error)
	findByIDFunc    func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
	findByEmailFunc func(ctx context.Context, email string) (userdomain.User, error)
	updateByIDFunc  func(ctx context.Context, id userdomain.ID, fields userdomain.UpdateFields) (userdomain.User, error)

	createCalls int
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) (userdomain.User, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = "11111111-1111-4111-8111-111111111111"
	return user, nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

func (m *mockUserRepo) UpdateByID(ctx context.Context, id userdomain.ID, fields userdomain.UpdateFields) (userdomain.User, error) {
	if m.updateByIDFunc != nil {
		return m.updateByIDFunc(ctx, id, fields)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error

	hashCalls int
}

func (m *mockHasher) Hash(password string) (string, error) {
	m.hashCalls++
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed_" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash != "hashed_"+password {
		return errMismatch
	}
	return nil
}

type mockSigner struct {
	issueFunc func(subjectID string) (string, error)
}

func (m *mockSigner) Issue(subjectID string) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(subjectID)
	}
	return "token-for-" + subjectID, nil
}

func setupAuthService(t *testing.T) (*service.AuthService, *mockUserRepo, *mockHasher, *mockSigner) {
	t.Helper()
	repo := &mockUserRepo{}
	hasher := &mockHasher{}
	signer := &mockSigner{}
	log := logger.NewWithWriter(io.Discard, "test", "debug")
	return service.NewAuthService(repo, hasher, signer, log), repo, hasher, signer
}
