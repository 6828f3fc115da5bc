// Package memory keeps records in process memory. It backs tests and
// STORE_DRIVER=memory for local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"submission-service/internal/models"
	"submission-service/internal/repository"
)

type AdminRepository struct {
	mu     sync.RWMutex
	byID   map[string]models.AdminAccount
	emails map[string]string
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		byID:   make(map[string]models.AdminAccount),
		emails: make(map[string]string),
	}
}

func (r *AdminRepository) AnyAdmin(_ context.Context) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID) > 0, nil
}

func (r *AdminRepository) GetByEmail(_ context.Context, email string) (*models.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.emails[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	a := r.byID[id]
	return &a, nil
}

func (r *AdminRepository) GetByID(_ context.Context, id string) (*models.AdminAccount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *AdminRepository) Create(_ context.Context, admin *models.AdminAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[admin.ID] = *admin
	r.emails[admin.Email] = admin.ID
	return nil
}

// Delete removes an account. Only used to simulate out-of-band removal.
func (r *AdminRepository) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.byID[id]; ok {
		delete(r.emails, a.Email)
		delete(r.byID, id)
	}
}

type ContactRepository struct {
	mu      sync.RWMutex
	records []models.ContactInquiry
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{}
}

func (r *ContactRepository) Create(_ context.Context, c *models.ContactInquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *c)
	return nil
}

func (r *ContactRepository) List(_ context.Context) ([]models.ContactInquiry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.ContactInquiry, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		out = append(out, r.records[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type PurchaseRepository struct {
	mu      sync.RWMutex
	records []models.CoursePurchase
}

func NewPurchaseRepository() *PurchaseRepository {
	return &PurchaseRepository{}
}

func (r *PurchaseRepository) Create(_ context.Context, p *models.CoursePurchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *p)
	return nil
}

func (r *PurchaseRepository) List(_ context.Context) ([]models.CoursePurchase, error) {
	return r.filter(func(models.CoursePurchase) bool { return true }), nil
}

func (r *PurchaseRepository) ListByEmail(_ context.Context, email string) ([]models.CoursePurchase, error) {
	return r.filter(func(p models.CoursePurchase) bool { return p.Email == email }), nil
}

// filter returns matches newest first; equal timestamps keep reverse
// insertion order
func (r *PurchaseRepository) filter(keep func(models.CoursePurchase) bool) []models.CoursePurchase {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.CoursePurchase, 0)
	for i := len(r.records) - 1; i >= 0; i-- {
		if keep(r.records[i]) {
			out = append(out, r.records[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// NewStore wires fresh in-memory repositories
func NewStore() *repository.Store {
	return &repository.Store{
		Admins:    NewAdminRepository(),
		Contacts:  NewContactRepository(),
		Purchases: NewPurchaseRepository(),
		Health:    func(context.Context) error { return nil },
		Close:     func() {},
	}
}
