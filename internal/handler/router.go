package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"submission-service/internal/config"
	"submission-service/internal/metrics"
	"submission-service/internal/ratelimit"
	"submission-service/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

// HealthFunc reports whether the backing services are reachable
type HealthFunc func(ctx context.Context) error

// RouterConfig carries everything NewRouter wires together
type RouterConfig struct {
	Server      config.ServerConfig
	Metrics     config.MetricsConfig
	Limiter     *ratelimit.Limiter
	Admins      *AdminHandler
	Submissions *SubmissionHandler
	Verifier    TokenVerifier
	Health      HealthFunc
	Logger      *zap.Logger
}

// NewRouter creates and configures the Chi router with all middleware and routes
func NewRouter(cfg RouterConfig) chi.Router {
	logger := cfg.Logger
	router := chi.NewRouter()

	trusted, err := ratelimit.TrustedProxies(cfg.Server.TrustedProxyHops)
	if err != nil {
		logger.Error("Ignoring proxy headers, keying clients on the socket peer", zap.Error(err))
		trusted, _ = ratelimit.TrustedProxies(0)
	}

	router.Use(middleware.RequestID)
	router.Use(trusted)
	router.Use(LoggerMiddleware(logger))
	router.Use(Recoverer(logger))
	router.Use(SecurityHeaders())
	router.Use(corsHandler(cfg.Server.CORSOrigins))
	if cfg.Server.RequestTimeout > 0 {
		router.Use(Timeout(cfg.Server.RequestTimeout, logger))
	}
	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.RequestSize(cfg.Server.MaxBodyBytes))
	}

	deny := denyHandler(logger)
	// limit evaluates the classes in order; every route starts with global
	limit := func(classes ...ratelimit.Class) func(http.Handler) http.Handler {
		rules := make([]ratelimit.Rule, 0, len(classes)+1)
		rules = append(rules, ratelimit.Rule{Class: ratelimit.ClassGlobal, Key: ratelimit.ClientIP})
		for _, c := range classes {
			rules = append(rules, ratelimit.Rule{Class: c, Key: ratelimit.ClientIP})
		}
		return cfg.Limiter.Middleware(deny, rules...)
	}
	guard := AuthGuard(cfg.Verifier, logger)

	notFound := limit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, logger, http.StatusNotFound,
			errorResponse(fmt.Sprintf("Route %s:%s not found", r.Method, r.URL.RequestURI())))
	}))
	router.NotFound(notFound.ServeHTTP)
	router.MethodNotAllowed(notFound.ServeHTTP)

	if cfg.Metrics.Enabled {
		router.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	router.With(limit()).Get("/", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, logger, http.StatusOK, successResponse(nil, "API is running..."))
	})

	router.With(limit()).Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				logger.Warn("Health check failed", zap.Error(err))
				respondWithJSON(w, logger, http.StatusServiceUnavailable, errorResponse("unhealthy"))
				return
			}
		}
		respondWithJSON(w, logger, http.StatusOK, successResponse(nil, "healthy"))
	})

	router.Route("/admin", func(r chi.Router) {
		authLimit := limit(ratelimit.ClassAuth)
		r.With(authLimit).Post("/register", cfg.Admins.Register)
		r.With(authLimit).Post("/login", cfg.Admins.Login)
	})

	router.Route("/contact", func(r chi.Router) {
		r.With(limit(ratelimit.ClassSubmission)).Post("/", cfg.Submissions.SubmitContact)
		r.With(limit(), guard).Get("/", cfg.Submissions.ListContacts)
	})

	router.Route("/purchase", func(r chi.Router) {
		r.With(limit(ratelimit.ClassSubmission)).Post("/", cfg.Submissions.SubmitPurchase)
		r.Group(func(r chi.Router) {
			r.Use(limit(), guard)
			r.Get("/", cfg.Submissions.ListPurchases)
			r.Get("/email/{email}", cfg.Submissions.ListPurchasesByEmail)
		})
	})

	return router
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Timezone"},
		ExposedHeaders: []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}
	if len(origins) > 0 {
		opts.AllowedOrigins = origins
		opts.AllowCredentials = true
	}
	return cors.Handler(opts)
}

func denyHandler(logger *zap.Logger) ratelimit.DenyFunc {
	return func(w http.ResponseWriter, r *http.Request, d ratelimit.Decision) {
		respondWithJSON(w, logger, http.StatusTooManyRequests, errorResponse(msgTooManyReqs))
	}
}

const contentSecurityPolicy = "default-src 'self'; base-uri 'self'; font-src 'self' https: data:; " +
	"form-action 'self'; frame-ancestors 'self'; img-src 'self' data: https://res.cloudinary.com; " +
	"object-src 'none'; script-src 'self'; script-src-attr 'none'; style-src 'self' https: 'unsafe-inline'; " +
	"upgrade-insecure-requests"

// SecurityHeaders sets the browser hardening headers on every response. HSTS
// is forced because TLS terminates at the proxy.
func SecurityHeaders() func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		ContentSecurityPolicy: contentSecurityPolicy,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		STSPreload:            true,
		ForceSTSHeader:        true,
		ReferrerPolicy:        "no-referrer",
	})

	return func(next http.Handler) http.Handler {
		return sec.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Cross-Origin-Opener-Policy", "same-origin")
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
			h.Set("Origin-Agent-Cluster", "?1")
			h.Set("X-DNS-Prefetch-Control", "off")
			h.Set("X-Permitted-Cross-Domain-Policies", "none")
			h.Set("X-XSS-Protection", "0")
			next.ServeHTTP(w, r)
		}))
	}
}

// Timeout bounds each request with a deadline. A handler that has not
// answered when it passes gets the 504 envelope.
func Timeout(timeout time.Duration, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				cancel()
				if errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 {
					logger.Warn("Request timed out",
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Duration("timeout", timeout),
						util.RequestID(middleware.GetReqID(r.Context())))
					respondWithJSON(ww, logger, http.StatusGatewayTimeout, errorResponse(msgTimeout))
				}
			}()
			next.ServeHTTP(ww, r.WithContext(ctx))
		})
	}
}

// Recoverer turns a panic into the generic 500 envelope
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("Recovered from panic",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					util.RequestID(middleware.GetReqID(r.Context())),
					zap.ByteString("stack", debug.Stack()))
				respondWithJSON(w, logger, http.StatusInternalServerError, errorResponse(msgInternal))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// LoggerMiddleware creates a middleware that logs HTTP requests
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				elapsed := time.Since(start)
				route := "unmatched"
				if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
					route = rctx.RoutePattern()
				}
				metrics.ObserveRequest(r.Method, route, strconv.Itoa(ww.Status()), elapsed.Seconds())

				logger.Info("HTTP request",
					util.String("method", r.Method),
					util.String("path", r.URL.Path),
					util.String("remote_addr", r.RemoteAddr),
					util.Int("status", ww.Status()),
					util.Duration("duration", elapsed),
					util.String("user_agent", r.UserAgent()),
					util.RequestID(middleware.GetReqID(r.Context())),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
