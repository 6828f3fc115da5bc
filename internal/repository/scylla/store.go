package scylla

import (
	"go.uber.org/zap"

	"submission-service/internal/repository"
)

// NewStore wires the Scylla-backed repositories onto one session
func NewStore(client *ScyllaClient, logger *zap.Logger) *repository.Store {
	return &repository.Store{
		Admins:    NewAdminRepository(client, logger),
		Contacts:  NewContactRepository(client, logger),
		Purchases: NewPurchaseRepository(client, logger),
		Health:    client.HealthCheck,
		Close:     client.Close,
	}
}
