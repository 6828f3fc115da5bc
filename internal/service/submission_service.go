package service

import (
	"context"
	"fmt"

	"submission-service/internal/metrics"
	"submission-service/internal/models"
	"submission-service/internal/repository"
	"submission-service/internal/util"
	"submission-service/internal/validation"

	"go.uber.org/zap"
)

const (
	maxUserAgentBytes = 512
	maxTimezoneBytes  = 64
)

// Notifier is told about stored submissions. Implementations must not block.
type Notifier interface {
	Publish(ctx context.Context, ev models.SubmissionEvent)
}

type noopNotifier struct{}

func (noopNotifier) Publish(context.Context, models.SubmissionEvent) {}

// SubmissionService stores public contact and purchase submissions and
// serves them back to the admin
type SubmissionService struct {
	contacts  repository.ContactRepository
	purchases repository.PurchaseRepository
	notifier  Notifier
	opts      options
	logger    *zap.Logger
}

func NewSubmissionService(
	contacts repository.ContactRepository,
	purchases repository.PurchaseRepository,
	notifier Notifier,
	logger *zap.Logger,
	opts ...Option,
) *SubmissionService {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &SubmissionService{
		contacts:  contacts,
		purchases: purchases,
		notifier:  notifier,
		opts:      buildOptions(opts),
		logger:    logger,
	}
}

func (s *SubmissionService) SubmitContact(ctx context.Context, body []byte, meta models.RequestMeta) error {
	in, err := validation.ParseContact(body)
	if err != nil {
		metrics.Submission(string(models.SubmissionContact), "invalid")
		return err
	}

	c := &models.ContactInquiry{
		ID:        s.opts.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		IPAddress: meta.IPAddress,
		UserAgent: util.Truncate(meta.UserAgent, maxUserAgentBytes),
		Timezone:  util.Truncate(meta.Timezone, maxTimezoneBytes),
		CreatedAt: s.opts.now(),
	}

	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()
	if err := s.contacts.Create(qctx, c); err != nil {
		metrics.Submission(string(models.SubmissionContact), "failed")
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.Submission(string(models.SubmissionContact), "stored")
	s.logger.Info("Contact inquiry stored", zap.String("contact_id", c.ID), zap.String("ip", c.IPAddress))
	s.notifier.Publish(context.WithoutCancel(ctx), models.SubmissionEvent{
		Kind:      models.SubmissionContact,
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
	})
	return nil
}

// SubmitPurchase records the purchase as completed. No payment gateway is
// consulted.
func (s *SubmissionService) SubmitPurchase(ctx context.Context, body []byte, meta models.RequestMeta) (*models.PurchaseConfirmation, error) {
	in, err := validation.ParsePurchase(body)
	if err != nil {
		metrics.Submission(string(models.SubmissionPurchase), "invalid")
		return nil, err
	}

	p := &models.CoursePurchase{
		ID:          s.opts.newID(),
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		CourseSlug:  in.CourseSlug,
		CourseTitle: in.CourseTitle,
		CoursePrice: in.CoursePrice,
		Status:      models.PurchaseCompleted,
		IPAddress:   meta.IPAddress,
		UserAgent:   util.Truncate(meta.UserAgent, maxUserAgentBytes),
		CreatedAt:   s.opts.now(),
	}

	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()
	if err := s.purchases.Create(qctx, p); err != nil {
		metrics.Submission(string(models.SubmissionPurchase), "failed")
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.Submission(string(models.SubmissionPurchase), "stored")
	s.logger.Info("Course purchase stored",
		zap.String("purchase_id", p.ID),
		zap.String("course_slug", p.CourseSlug))
	s.notifier.Publish(context.WithoutCancel(ctx), models.SubmissionEvent{
		Kind:       models.SubmissionPurchase,
		ID:         p.ID,
		CourseSlug: p.CourseSlug,
		CreatedAt:  p.CreatedAt,
	})

	return &models.PurchaseConfirmation{
		PurchaseID:  p.ID,
		CourseTitle: p.CourseTitle,
		Email:       p.Email,
	}, nil
}

func (s *SubmissionService) ListContacts(ctx context.Context) ([]models.ContactInquiry, error) {
	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()

	out, err := s.contacts.List(qctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}

func (s *SubmissionService) ListPurchases(ctx context.Context) ([]models.CoursePurchase, error) {
	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()

	out, err := s.purchases.List(qctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}

// ListPurchasesByEmail lowercases email before the exact-match lookup
func (s *SubmissionService) ListPurchasesByEmail(ctx context.Context, email string) ([]models.CoursePurchase, error) {
	qctx, cancel := context.WithTimeout(ctx, s.opts.queryTimeout)
	defer cancel()

	out, err := s.purchases.ListByEmail(qctx, util.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return out, nil
}
