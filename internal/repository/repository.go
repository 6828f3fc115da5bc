// Package repository declares the record store contracts. Implementations
// live in the memory and scylla subpackages.
package repository

import (
	"context"
	"errors"

	"submission-service/internal/models"
)

var ErrNotFound = errors.New("record not found")

type AdminRepository interface {
	// AnyAdmin reports whether an admin account exists
	AnyAdmin(ctx context.Context) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminAccount, error)
	GetByID(ctx context.Context, id string) (*models.AdminAccount, error)
	Create(ctx context.Context, admin *models.AdminAccount) error
}

// ContactRepository lists newest first
type ContactRepository interface {
	Create(ctx context.Context, c *models.ContactInquiry) error
	List(ctx context.Context) ([]models.ContactInquiry, error)
}

// PurchaseRepository lists newest first. ListByEmail matches exactly; callers
// normalize the address.
type PurchaseRepository interface {
	Create(ctx context.Context, p *models.CoursePurchase) error
	List(ctx context.Context) ([]models.CoursePurchase, error)
	ListByEmail(ctx context.Context, email string) ([]models.CoursePurchase, error)
}

// Store bundles the repositories backed by one connection
type Store struct {
	Admins    AdminRepository
	Contacts  ContactRepository
	Purchases PurchaseRepository
	Health    func(ctx context.Context) error
	Close     func()
}
