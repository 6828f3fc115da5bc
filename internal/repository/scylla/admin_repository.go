package scylla

import (
	"context"
	"errors"
	"fmt"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"submission-service/internal/models"
	"submission-service/internal/repository"
)

const (
	insertAdmin        = `INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)`
	insertAdminByEmail = `INSERT INTO admins_by_email (email, id, password_hash, created_at) VALUES (?, ?, ?, ?)`
	selectAdminByID    = `SELECT id, email, password_hash, created_at FROM admins WHERE id = ?`
	selectAdminByEmail = `SELECT id, email, password_hash, created_at FROM admins_by_email WHERE email = ?`
)

type AdminRepository struct {
	client *ScyllaClient
	logger *zap.Logger
}

func NewAdminRepository(client *ScyllaClient, logger *zap.Logger) *AdminRepository {
	return &AdminRepository{client: client, logger: logger}
}

func (r *AdminRepository) AnyAdmin(ctx context.Context) (bool, error) {
	var id string
	err := r.client.Query(ctx, `SELECT id FROM admins LIMIT 1`).Scan(&id)
	if errors.Is(err, gocql.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check for admin: %w", err)
	}
	return true, nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.AdminAccount, error) {
	return r.get(ctx, selectAdminByEmail, email)
}

func (r *AdminRepository) GetByID(ctx context.Context, id string) (*models.AdminAccount, error) {
	return r.get(ctx, selectAdminByID, id)
}

func (r *AdminRepository) get(ctx context.Context, stmt, key string) (*models.AdminAccount, error) {
	a := &models.AdminAccount{}
	err := r.client.Query(ctx, stmt, key).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return a, nil
}

// Create writes the account and its email lookup row together
func (r *AdminRepository) Create(ctx context.Context, admin *models.AdminAccount) error {
	batch := r.client.Batch(ctx, gocql.LoggedBatch)
	batch.Query(insertAdmin, admin.ID, admin.Email, admin.PasswordHash, admin.CreatedAt)
	batch.Query(insertAdminByEmail, admin.Email, admin.ID, admin.PasswordHash, admin.CreatedAt)

	if err := r.client.ExecuteBatch(batch); err != nil {
		r.logger.Error("Failed to create admin", zap.String("admin_id", admin.ID), zap.Error(err))
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
