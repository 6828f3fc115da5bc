package memory

import (
	"context"
	"testing"
	"time"

	"submission-service/internal/models"
	"submission-service/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRepository(t *testing.T) {
	ctx := context.Background()
	r := NewAdminRepository()

	exists, err := r.AnyAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = r.GetByEmail(ctx, "admin@site.io")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, r.Create(ctx, &models.AdminAccount{ID: "a1", Email: "admin@site.io", PasswordHash: "h"}))

	exists, _ = r.AnyAdmin(ctx)
	assert.True(t, exists)

	got, err := r.GetByEmail(ctx, "admin@site.io")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.ID)

	r.Delete("a1")
	_, err = r.GetByID(ctx, "a1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPurchaseRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewPurchaseRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, &models.CoursePurchase{ID: "p1", Email: "a@x.io", CreatedAt: base}))
	require.NoError(t, r.Create(ctx, &models.CoursePurchase{ID: "p2", Email: "b@x.io", CreatedAt: base.Add(time.Minute)}))
	require.NoError(t, r.Create(ctx, &models.CoursePurchase{ID: "p3", Email: "a@x.io", CreatedAt: base.Add(time.Minute)}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p2", "p1"}, purchaseIDs(all))

	mine, err := r.ListByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p1"}, purchaseIDs(mine))

	none, err := r.ListByEmail(ctx, "nobody@x.io")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestContactRepository_NewestFirst(t *testing.T) {
	ctx := context.Background()
	r := NewContactRepository()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Create(ctx, &models.ContactInquiry{ID: "c1", CreatedAt: base}))
	require.NoError(t, r.Create(ctx, &models.ContactInquiry{ID: "c2", CreatedAt: base.Add(time.Second)}))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)
}

func purchaseIDs(ps []models.CoursePurchase) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}
