package scylla

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"submission-service/internal/config"
	"submission-service/internal/util"
)

// contactBucket is the single partition that holds every contact and
// purchase row so they can be listed newest first. Volume is a marketing
// site's inbox, well inside one partition.
const contactBucket = 0

var schema = []string{
	`CREATE TABLE IF NOT EXISTS admins (
        id text PRIMARY KEY,
        email text,
        password_hash text,
        created_at timestamp
    )`,
	`CREATE TABLE IF NOT EXISTS admins_by_email (
        email text PRIMARY KEY,
        id text,
        password_hash text,
        created_at timestamp
    )`,
	`CREATE TABLE IF NOT EXISTS contacts (
        bucket int,
        created_at timestamp,
        id text,
        name text,
        email text,
        phone text,
        subject text,
        message text,
        ip_address text,
        user_agent text,
        timezone text,
        PRIMARY KEY ((bucket), created_at, id)
    ) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS purchases (
        bucket int,
        created_at timestamp,
        id text,
        name text,
        email text,
        phone text,
        course_slug text,
        course_title text,
        course_price double,
        status text,
        ip_address text,
        user_agent text,
        PRIMARY KEY ((bucket), created_at, id)
    ) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`,
	`CREATE TABLE IF NOT EXISTS purchases_by_email (
        email text,
        created_at timestamp,
        id text,
        name text,
        phone text,
        course_slug text,
        course_title text,
        course_price double,
        status text,
        ip_address text,
        user_agent text,
        PRIMARY KEY ((email), created_at, id)
    ) WITH CLUSTERING ORDER BY (created_at DESC, id DESC)`,
}

type ScyllaClient struct {
	Session *gocql.Session
	config  *config.ScyllaConfig
}

func newCluster(cfg config.ScyllaConfig) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("invalid SCYLLA_CONSISTENCY: %w", err)
	}

	cluster := gocql.NewCluster(cfg.Nodes...)
	cluster.Consistency = consistency
	cluster.Timeout = 5 * time.Second
	cluster.ConnectTimeout = 10 * time.Second
	cluster.NumConns = 2
	cluster.SocketKeepalive = 30 * time.Second
	cluster.PageSize = 1000
	// Failures surface to the caller immediately
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 0}

	if cfg.CAPath != "" {
		cluster.SslOpts = &gocql.SslOptions{
			CaPath:                 cfg.CAPath,
			EnableHostVerification: true,
		}
	}

	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}
	return cluster, nil
}

func NewScyllaClient(cfg *config.Config, logger *zap.Logger) (*ScyllaClient, error) {
	scyllaConfig := cfg.Scylla

	if scyllaConfig.AutoMigrate {
		if err := createKeyspace(scyllaConfig); err != nil {
			return nil, err
		}
	}

	cluster, err := newCluster(scyllaConfig)
	if err != nil {
		return nil, err
	}
	cluster.Keyspace = scyllaConfig.Keyspace

	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create scylla session: %w", err)
	}

	client := &ScyllaClient{
		Session: session,
		config:  &scyllaConfig,
	}

	if scyllaConfig.AutoMigrate {
		if err := client.Migrate(context.Background()); err != nil {
			session.Close()
			return nil, err
		}
	}

	logger.Info("ScyllaDB client initialized",
		zap.Strings("nodes", scyllaConfig.Nodes),
		zap.String("keyspace", scyllaConfig.Keyspace),
		zap.String("consistency", scyllaConfig.Consistency))

	return client, nil
}

func createKeyspace(cfg config.ScyllaConfig) error {
	cluster, err := newCluster(cfg)
	if err != nil {
		return err
	}
	session, err := cluster.CreateSession()
	if err != nil {
		return fmt.Errorf("failed to create scylla session: %w", err)
	}
	defer session.Close()

	stmt := fmt.Sprintf(`CREATE KEYSPACE IF NOT EXISTS %s
        WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}`,
		cfg.Keyspace, cfg.ReplicationFactor)
	if err := session.Query(stmt).Exec(); err != nil {
		return fmt.Errorf("failed to create keyspace %s: %w", cfg.Keyspace, err)
	}
	return nil
}

// Migrate creates any missing tables
func (s *ScyllaClient) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if err := s.Session.Query(stmt).WithContext(ctx).Exec(); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	util.Info("ScyllaDB schema is up to date", zap.Int("tables", len(schema)))
	return nil
}

func (s *ScyllaClient) Close() {
	if s.Session != nil {
		s.Session.Close()
		util.Info("ScyllaDB client closed")
	}
}

// Query builds a statement bound to ctx
func (s *ScyllaClient) Query(ctx context.Context, stmt string, values ...interface{}) *gocql.Query {
	return s.Session.Query(stmt, values...).WithContext(ctx)
}

func (s *ScyllaClient) Batch(ctx context.Context, typ gocql.BatchType) *gocql.Batch {
	return s.Session.NewBatch(typ).WithContext(ctx)
}

func (s *ScyllaClient) ExecuteBatch(batch *gocql.Batch) error {
	return s.Session.ExecuteBatch(batch)
}

func (s *ScyllaClient) HealthCheck(ctx context.Context) error {
	var clusterName string
	err := s.Session.Query(`SELECT cluster_name FROM system.local`).WithContext(ctx).Scan(&clusterName)
	if err != nil {
		return fmt.Errorf("scylla health check failed: %w", err)
	}

	util.Debug("ScyllaDB health check passed", zap.String("cluster_name", clusterName))
	return nil
}
