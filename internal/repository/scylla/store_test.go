package scylla

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"submission-service/internal/config"
	"submission-service/internal/models"
	"submission-service/internal/repository"
)

// newTestStore connects to TEST_SCYLLA_NODES, skipping when unset
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	nodes := os.Getenv("TEST_SCYLLA_NODES")
	if nodes == "" {
		t.Skip("TEST_SCYLLA_NODES not set")
	}

	cfg := &config.Config{Scylla: config.ScyllaConfig{
		Nodes:             strings.Split(nodes, ","),
		Keyspace:          "site_test",
		Consistency:       "ONE",
		ReplicationFactor: 1,
		AutoMigrate:       true,
	}}
	client, err := NewScyllaClient(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return NewStore(client, zap.NewNop())
}

func TestAdminRepository_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	admin := &models.AdminAccount{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@site.io",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, store.Admins.Create(ctx, admin))

	byEmail, err := store.Admins.GetByEmail(ctx, admin.Email)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, byEmail.ID)

	byID, err := store.Admins.GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Email, byID.Email)

	_, err = store.Admins.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPurchaseRepository_ListByEmail(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	email := uuid.NewString() + "@example.com"
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, slug := range []string{"first", "second"} {
		require.NoError(t, store.Purchases.Create(ctx, &models.CoursePurchase{
			ID:          uuid.NewString(),
			Name:        "Asha",
			Email:       email,
			CourseSlug:  slug,
			CourseTitle: strings.ToUpper(slug),
			CoursePrice: 10,
			Status:      models.PurchaseCompleted,
			CreatedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := store.Purchases.ListByEmail(ctx, email)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].CourseSlug)
	assert.Equal(t, models.PurchaseCompleted, got[0].Status)
}
