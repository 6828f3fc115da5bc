package factory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"submission-service/internal/auth"
	"submission-service/internal/client"
	"submission-service/internal/config"
	"submission-service/internal/hashing"
	"submission-service/internal/ratelimit"
	"submission-service/internal/repository"
	"submission-service/internal/repository/memory"
	redisrepo "submission-service/internal/repository/redis"
	"submission-service/internal/repository/scylla"
	"submission-service/internal/service"
	"submission-service/internal/util"
)

// Factory manages the lifecycle of all application dependencies
type Factory struct {
	config *config.Config

	// Clients
	redisClient   *client.RedisClient
	scyllaClient  *scylla.ScyllaClient
	kafkaProducer *client.KafkaProducer

	hasher  *hashing.Hasher
	tokens  *auth.TokenManager
	limiter *ratelimit.Limiter
	store   *repository.Store

	serviceFactory *service.ServiceFactory

	// closers run in reverse registration order on Close
	closers   []func()
	closeOnce sync.Once
	closed    chan struct{}
}

// NewFactory loads configuration and initializes all application dependencies
func NewFactory() (*Factory, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New builds a factory from an already loaded configuration
func New(cfg *config.Config) (*Factory, error) {
	util.Init(cfg.Environment, cfg.Logging.Level, cfg.Logging.Format)

	factory := &Factory{
		config: cfg,
		closed: make(chan struct{}),
	}

	if err := factory.initializeClients(); err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed to initialize clients: %w", err)
	}

	if err := factory.initializeManagers(); err != nil {
		factory.Close()
		return nil, fmt.Errorf("failed to initialize managers: %w", err)
	}

	util.Info("Factory initialized successfully",
		util.String("environment", cfg.Environment),
		util.String("store_driver", cfg.Store.Driver),
		util.String("rate_limit_backend", cfg.RateLimit.Backend),
		util.Bool("kafka_enabled", factory.kafkaProducer != nil),
	)

	return factory, nil
}

// initializeClients connects the record store, the limiter backend and the
// optional event producer. The store and limiter backend are required.
func (f *Factory) initializeClients() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch f.config.Store.Driver {
	case "scylla":
		c, err := scylla.NewScyllaClient(f.config, util.Get())
		if err != nil {
			return fmt.Errorf("scylla: %w", err)
		}
		f.scyllaClient = c
		f.onClose(c.Close)
		if err := c.HealthCheck(ctx); err != nil {
			return fmt.Errorf("scylla health check: %w", err)
		}
		f.store = scylla.NewStore(c, util.Named("scylla"))
		util.Info("ScyllaDB client initialized and healthy")
	default:
		if f.config.IsProduction() {
			util.Warn("Using the in-memory record store in production; records are lost on restart")
		}
		f.store = memory.NewStore()
		f.onClose(f.store.Close)
	}

	if f.config.RateLimit.Backend == "redis" {
		c, err := client.NewRedisClient(f.config, util.Get())
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		f.redisClient = c
		f.onClose(func() { _ = c.Close() })
		util.Info("Redis client initialized and healthy")
	}

	if len(f.config.Kafka.Brokers) > 0 {
		producer, err := client.NewKafkaProducer(f.config, util.Get())
		if err != nil {
			util.Warn("Kafka producer initialization failed - proceeding without Kafka", util.ErrorField(err))
		} else {
			f.kafkaProducer = producer
			f.onClose(func() {
				if err := producer.Close(); err != nil {
					util.Error("Failed to close Kafka producer", util.ErrorField(err))
				} else {
					util.Info("Kafka producer closed")
				}
			})
		}
	}

	return nil
}

// initializeManagers builds the hasher, token manager and rate limiter
func (f *Factory) initializeManagers() error {
	hasher, err := hashing.NewHasher(f.config.Auth.BcryptCost)
	if err != nil {
		return err
	}
	f.hasher = hasher
	f.tokens = auth.NewTokenManager(f.config.Auth.JWTSecret, f.config.Auth.TokenTTL)

	var store ratelimit.Store
	if f.redisClient != nil {
		store = redisrepo.NewRateLimitCache(f.redisClient.Client)
	} else {
		mem := ratelimit.NewMemoryStore(f.config.RateLimit.Shards)
		ctx, cancel := context.WithCancel(context.Background())
		f.onClose(cancel)
		mem.StartJanitor(ctx, f.config.RateLimit.SweepInterval, util.Named("ratelimit"))
		store = mem
	}
	f.limiter = ratelimit.NewLimiter(store, util.Named("ratelimit"), Policies(f.config.RateLimit))

	util.Info("Managers initialized successfully",
		util.Int("bcrypt_cost", f.config.Auth.BcryptCost),
		util.Duration("token_ttl", f.tokens.TTL()),
	)
	return nil
}

// Policies maps the configured windows onto limiter classes
func Policies(cfg config.RateLimitConfig) []ratelimit.Policy {
	return []ratelimit.Policy{
		{Class: ratelimit.ClassGlobal, Window: cfg.Global.Window, Max: cfg.Global.Max},
		{Class: ratelimit.ClassAuth, Window: cfg.Auth.Window, Max: cfg.Auth.Max},
		{Class: ratelimit.ClassSubmission, Window: cfg.Submission.Window, Max: cfg.Submission.Max},
	}
}

// ==============================
// Service Factory
// ==============================
func (f *Factory) ServiceFactory() *service.ServiceFactory {
	if f.serviceFactory == nil {
		var notifier service.Notifier
		if f.kafkaProducer != nil {
			notifier = f.kafkaProducer
		}
		f.serviceFactory = service.NewServiceFactory(
			f.store,
			f.hasher,
			f.tokens,
			notifier,
			util.Get(),
			service.WithQueryTimeout(f.config.Store.QueryTimeout),
		)
	}
	return f.serviceFactory
}

// ==============================
// Health Checks
// ==============================

// HealthCheck pings every backend concurrently and returns the failures by name
func (f *Factory) HealthCheck(ctx context.Context) map[string]error {
	checks := map[string]func(context.Context) error{
		"store": f.store.Health,
	}
	if f.redisClient != nil {
		checks["redis"] = f.redisClient.HealthCheck
	}
	if f.kafkaProducer != nil {
		checks["kafka"] = f.kafkaProducer.HealthCheck
	}

	var (
		mu           sync.Mutex
		healthErrors = make(map[string]error)
		g            errgroup.Group
	)
	for name, check := range checks {
		name, check := name, check
		g.Go(func() error {
			if err := check(ctx); err != nil {
				mu.Lock()
				healthErrors[name] = err
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return healthErrors
}

// Ready reports an error when a required backend is down. Kafka is best-effort
// and never fails readiness.
func (f *Factory) Ready(ctx context.Context) error {
	healthErrors := f.HealthCheck(ctx)
	delete(healthErrors, "kafka")
	if len(healthErrors) == 0 {
		return nil
	}
	names := make([]string, 0, len(healthErrors))
	for name := range healthErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	errs := make([]error, 0, len(names))
	for _, name := range names {
		errs = append(errs, fmt.Errorf("%s: %w", name, healthErrors[name]))
	}
	return errors.Join(errs...)
}

func (f *Factory) IsHealthy(ctx context.Context) bool {
	return f.Ready(ctx) == nil
}

// onClose registers a release step for a client that was just created
func (f *Factory) onClose(fn func()) {
	f.closers = append(f.closers, fn)
}

// Close releases every registered client, newest first. It is safe to call
// on a partially initialized factory and more than once.
func (f *Factory) Close() error {
	f.closeOnce.Do(func() {
		close(f.closed)
		util.Info("Shutting down factory...")

		for i := len(f.closers) - 1; i >= 0; i-- {
			f.closers[i]()
		}
		f.closers = nil

		util.Sync()
		util.Info("Factory shutdown completed")
	})

	return nil
}

func (f *Factory) WaitForClose() {
	<-f.closed
}

func (f *Factory) Config() *config.Config {
	return f.config
}

func (f *Factory) Store() *repository.Store {
	return f.store
}

func (f *Factory) Limiter() *ratelimit.Limiter {
	return f.limiter
}

func (f *Factory) Tokens() *auth.TokenManager {
	return f.tokens
}

func (f *Factory) Hasher() *hashing.Hasher {
	return f.hasher
}
