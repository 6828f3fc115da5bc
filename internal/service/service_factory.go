package service

import (
	"submission-service/internal/auth"
	"submission-service/internal/hashing"
	"submission-service/internal/repository"

	"go.uber.org/zap"
)

// ServiceFactory creates and manages service instances
type ServiceFactory struct {
	store             *repository.Store
	hasher            *hashing.Hasher
	tokens            *auth.TokenManager
	notifier          Notifier
	logger            *zap.Logger
	opts              []Option
	adminService      *AdminService
	submissionService *SubmissionService
}

func NewServiceFactory(
	store *repository.Store,
	hasher *hashing.Hasher,
	tokens *auth.TokenManager,
	notifier Notifier,
	logger *zap.Logger,
	opts ...Option,
) *ServiceFactory {
	return &ServiceFactory{
		store:    store,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

// AdminService returns the admin service instance (singleton)
func (f *ServiceFactory) AdminService() *AdminService {
	if f.adminService == nil {
		f.adminService = NewAdminService(
			f.store.Admins,
			f.hasher,
			f.tokens,
			f.logger.Named("admin"),
			f.opts...,
		)
	}
	return f.adminService
}

// SubmissionService returns the submission service instance (singleton)
func (f *ServiceFactory) SubmissionService() *SubmissionService {
	if f.submissionService == nil {
		f.submissionService = NewSubmissionService(
			f.store.Contacts,
			f.store.Purchases,
			f.notifier,
			f.logger.Named("submission"),
			f.opts...,
		)
	}
	return f.submissionService
}
