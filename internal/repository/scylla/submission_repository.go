package scylla

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"submission-service/internal/models"
)

const (
	insertContact = `INSERT INTO contacts (
        bucket, created_at, id, name, email, phone, subject, message,
        ip_address, user_agent, timezone
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectContacts = `SELECT id, name, email, phone, subject, message,
        ip_address, user_agent, timezone, created_at
        FROM contacts WHERE bucket = ?`

	insertPurchase = `INSERT INTO purchases (
        bucket, created_at, id, name, email, phone, course_slug, course_title,
        course_price, status, ip_address, user_agent
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	insertPurchaseByEmail = `INSERT INTO purchases_by_email (
        email, created_at, id, name, phone, course_slug, course_title,
        course_price, status, ip_address, user_agent
    ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectPurchases = `SELECT id, name, email, phone, course_slug, course_title,
        course_price, status, ip_address, user_agent, created_at
        FROM purchases WHERE bucket = ?`

	selectPurchasesByEmail = `SELECT id, name, email, phone, course_slug, course_title,
        course_price, status, ip_address, user_agent, created_at
        FROM purchases_by_email WHERE email = ?`
)

type ContactRepository struct {
	client *ScyllaClient
	logger *zap.Logger
}

func NewContactRepository(client *ScyllaClient, logger *zap.Logger) *ContactRepository {
	return &ContactRepository{client: client, logger: logger}
}

func (r *ContactRepository) Create(ctx context.Context, c *models.ContactInquiry) error {
	err := r.client.Query(ctx, insertContact,
		contactBucket, c.CreatedAt, c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message,
		c.IPAddress, c.UserAgent, c.Timezone,
	).Exec()
	if err != nil {
		r.logger.Error("Failed to insert contact", zap.String("contact_id", c.ID), zap.Error(err))
		return fmt.Errorf("failed to insert contact: %w", err)
	}
	return nil
}

// List relies on the clustering order for newest first
func (r *ContactRepository) List(ctx context.Context) ([]models.ContactInquiry, error) {
	scanner := r.client.Query(ctx, selectContacts, contactBucket).Iter().Scanner()

	out := make([]models.ContactInquiry, 0)
	for scanner.Next() {
		var c models.ContactInquiry
		if err := scanner.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message,
			&c.IPAddress, &c.UserAgent, &c.Timezone, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		out = append(out, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return out, nil
}

type PurchaseRepository struct {
	client *ScyllaClient
	logger *zap.Logger
}

func NewPurchaseRepository(client *ScyllaClient, logger *zap.Logger) *PurchaseRepository {
	return &PurchaseRepository{client: client, logger: logger}
}

// Create writes the purchase and its per-email copy in one logged batch
func (r *PurchaseRepository) Create(ctx context.Context, p *models.CoursePurchase) error {
	batch := r.client.Batch(ctx, gocql.LoggedBatch)
	batch.Query(insertPurchase,
		contactBucket, p.CreatedAt, p.ID, p.Name, p.Email, p.Phone, p.CourseSlug, p.CourseTitle,
		p.CoursePrice, string(p.Status), p.IPAddress, p.UserAgent)
	batch.Query(insertPurchaseByEmail,
		p.Email, p.CreatedAt, p.ID, p.Name, p.Phone, p.CourseSlug, p.CourseTitle,
		p.CoursePrice, string(p.Status), p.IPAddress, p.UserAgent)

	if err := r.client.ExecuteBatch(batch); err != nil {
		r.logger.Error("Failed to insert purchase", zap.String("purchase_id", p.ID), zap.Error(err))
		return fmt.Errorf("failed to insert purchase: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) List(ctx context.Context) ([]models.CoursePurchase, error) {
	return r.scan(r.client.Query(ctx, selectPurchases, contactBucket))
}

func (r *PurchaseRepository) ListByEmail(ctx context.Context, email string) ([]models.CoursePurchase, error) {
	return r.scan(r.client.Query(ctx, selectPurchasesByEmail, email))
}

func (r *PurchaseRepository) scan(q *gocql.Query) ([]models.CoursePurchase, error) {
	scanner := q.Iter().Scanner()

	out := make([]models.CoursePurchase, 0)
	for scanner.Next() {
		var (
			p      models.CoursePurchase
			status string
		)
		if err := scanner.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CourseSlug, &p.CourseTitle,
			&p.CoursePrice, &status, &p.IPAddress, &p.UserAgent, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		p.Status = models.PurchaseStatus(status)
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return out, nil
}
