package service

import (
	"context"
	"errors"
	"fmt"

	"submission-service/internal/auth"
	"submission-service/internal/hashing"
	"submission-service/internal/metrics"
	"submission-service/internal/models"
	"submission-service/internal/repository"
	"submission-service/internal/validation"

	"go.uber.org/zap"
)

// AdminService owns the single admin account and its session tokens
type AdminService struct {
	admins repository.AdminRepository
	hasher *hashing.Hasher
	tokens *auth.TokenManager
	opts   options
	logger *zap.Logger
}

func NewAdminService(
	admins repository.AdminRepository,
	hasher *hashing.Hasher,
	tokens *auth.TokenManager,
	logger *zap.Logger,
	opts ...Option,
) *AdminService {
	return &AdminService{
		admins: admins,
		hasher: hasher,
		tokens: tokens,
		opts:   buildOptions(opts),
		logger: logger,
	}
}

// RegisterAdmin creates the admin account if none exists yet. The existence
// check and the insert are not atomic; two concurrent first registrations
// can both succeed.
func (s *AdminService) RegisterAdmin(ctx context.Context, body []byte) (*models.AdminSummary, error) {
	creds, err := validation.ParseRegister(body)
	if err != nil {
		return nil, err
	}

	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	exists, err := s.admins.AnyAdmin(qctx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if exists {
		s.logger.Warn("Rejected admin registration, account already exists")
		return nil, ErrAdminExists
	}

	hash, err := s.hasher.Hash(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	admin := &models.AdminAccount{
		ID:           s.opts.newID(),
		Email:        creds.Email,
		PasswordHash: hash,
		CreatedAt:    s.opts.now(),
	}

	qctx, cancel = context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()
	if err := s.admins.Create(qctx, admin); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.logger.Info("Admin registered", zap.String("admin_id", admin.ID))
	return &models.AdminSummary{Email: admin.Email}, nil
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password, after the same amount of hashing work.
func (s *AdminService) Login(ctx context.Context, body []byte) (*models.Session, error) {
	creds, err := validation.ParseLogin(body)
	if err != nil {
		return nil, err
	}

	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	admin, err := s.admins.GetByEmail(qctx, creds.Email)
	cancel()

	switch {
	case errors.Is(err, repository.ErrNotFound):
		s.hasher.VerifyDummy(creds.Password)
		s.logger.Warn("Admin login failed", zap.String("reason", "unknown_email"))
		metrics.Login("invalid")
		return nil, ErrInvalidCredentials
	case err != nil:
		metrics.Login("error")
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	ok, err := s.hasher.Verify(admin.PasswordHash, creds.Password)
	if err != nil {
		metrics.Login("error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !ok {
		s.logger.Warn("Admin login failed", zap.String("reason", "wrong_password"))
		metrics.Login("invalid")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(admin.ID, admin.Email)
	if err != nil {
		metrics.Login("error")
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	s.logger.Info("Admin logged in", zap.String("admin_id", admin.ID))
	metrics.Login("success")
	return &models.Session{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyToken checks signature and expiry, then confirms the subject still
// exists in the store.
func (s *AdminService) VerifyToken(ctx context.Context, token string) (*models.Principal, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}

	claims, err := s.tokens.Parse(token)
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()

	admin, err := s.admins.GetByID(qctx, claims.ID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrSubjectNotFound
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return &models.Principal{SubjectID: admin.ID, SubjectEmail: admin.Email}, nil
}
