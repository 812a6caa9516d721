package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	commoncrypto "github.com/AlibekovAA/memorize-api/internal/common/crypto"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	userdomain "github.com/AlibekovAA/memorize-api/internal/user/domain"
	userrepo "github.com/AlibekovAA/memorize-api/internal/user/repository"
)

type AuthService struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	tokens TokenSigner
	log    *logger.Logger
}

func NewAuthService(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	tokens TokenSigner,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
	}
}

type RegisterInput struct {
	Name            string `validate:"required"`
	Email           string `validate:"required"`
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

type LoginInput struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

type LoginResult struct {
	User  userdomain.User
	Token string
}

// Register creates a user after checking that the email is unused. The check
// and the insert are not atomic: two concurrent registrations with the same
// email can both succeed.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (userdomain.User, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "register_attempt",
	}).Info("register attempt")

	if err := validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return userdomain.User{}, err
	}

	_, err := s.repo.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_email_taken",
		}).Warn("register failed: email already in use")
		return userdomain.User{}, ErrEmailTaken
	case !errors.Is(err, userrepo.ErrUserNotFound):
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_lookup_failed",
		}).Errorf("register failed: email lookup error: %v", err)
		return userdomain.User{}, storeError(err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return userdomain.User{}, internalError(err)
	}

	user, err := s.repo.Create(ctx, userdomain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Memorize:     []json.RawMessage{},
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "register_create_failed",
		}).Errorf("register failed: %v", err)
		return userdomain.User{}, storeError(err)
	}

	incrementUsersRegistered()
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "register_success",
	}).Info("register success")

	user.PasswordHash = ""
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	s.log.WithFields(ctx, logger.Fields{
		"email":  input.Email,
		"action": "login_attempt",
	}).Info("login attempt")

	if err := validateInput(input); err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_validation_failed",
		}).Warnf("login validation failed: %v", err)
		return LoginResult{}, err
	}

	user, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			observeLogin(loginOutcomeUnknownEmail)
			s.log.WithFields(ctx, logger.Fields{
				"email":  input.Email,
				"action": "login_user_not_found",
			}).Warn("login failed: not found")
			return LoginResult{}, ErrUserNotFound
		}
		observeLogin(loginOutcomeError)
		s.log.WithFields(ctx, logger.Fields{
			"email":  input.Email,
			"action": "login_fetch_failed",
		}).Errorf("login failed: %v", err)
		return LoginResult{}, storeError(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, input.Password); err != nil {
		observeLogin(loginOutcomeInvalidPassword)
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_invalid_password",
		}).Warn("login failed: invalid password")
		return LoginResult{}, ErrInvalidPassword
	}

	token, err := s.tokens.Issue(string(user.ID))
	if err != nil {
		observeLogin(loginOutcomeError)
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_token_issue_failed",
		}).Errorf("login failed: token issue error: %v", err)
		return LoginResult{}, internalError(err)
	}

	current, err := s.repo.FindByID(ctx, user.ID)
	if err != nil {
		observeLogin(loginOutcomeError)
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(user.ID),
			"action":  "login_profile_failed",
		}).Errorf("login failed: profile lookup error: %v", err)
		return LoginResult{}, storeError(err)
	}

	observeLogin(loginOutcomeSuccess)
	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login success")

	current.PasswordHash = ""
	return LoginResult{User: current, Token: token}, nil
}

func (s *AuthService) GetProfile(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			return userdomain.User{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "profile_fetch_failed",
		}).Errorf("profile fetch failed: %v", err)
		return userdomain.User{}, storeError(err)
	}
	user.PasswordHash = ""
	return user, nil
}

// EditProfile overwrites the given fields. Any valid token may edit any id.
func (s *AuthService) EditProfile(ctx context.Context, id userdomain.ID, fields userdomain.UpdateFields) (userdomain.User, error) {
	user, err := s.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": string(id),
				"action":  "edit_user_not_found",
			}).Warn("edit failed: not found")
			return userdomain.User{}, ErrUserNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": string(id),
			"action":  "edit_failed",
		}).Errorf("edit failed: %v", err)
		return userdomain.User{}, storeError(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": string(id),
		"action":  "edit_success",
	}).Info("edit success")

	user.PasswordHash = ""
	return user, nil
}

// GetMemorizeItem returns the item at the decimal index itemID. Anything that
// is not a canonical non-negative integer inside the list is not found.
func (s *AuthService) GetMemorizeItem(ctx context.Context, id userdomain.ID, itemID string) (json.RawMessage, error) {
	user, err := s.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}

	index, err := strconv.Atoi(itemID)
	if err != nil || strconv.Itoa(index) != itemID {
		return nil, ErrMemorizeNotFound
	}

	item, ok := user.MemorizeItem(index)
	if !ok {
		return nil, ErrMemorizeNotFound
	}
	return item, nil
}
