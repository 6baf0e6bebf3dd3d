package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/heartmarshall/impact-hub-backend/internal/adapter/memory"
	"github.com/heartmarshall/impact-hub-backend/internal/auth"
	"github.com/heartmarshall/impact-hub-backend/internal/catalog"
	"github.com/heartmarshall/impact-hub-backend/internal/config"
	"github.com/heartmarshall/impact-hub-backend/internal/domain"
	"github.com/heartmarshall/impact-hub-backend/internal/localize"
	"github.com/heartmarshall/impact-hub-backend/internal/metrics"
	authsvc "github.com/heartmarshall/impact-hub-backend/internal/service/auth"
	"github.com/heartmarshall/impact-hub-backend/internal/service/partner"
	"github.com/heartmarshall/impact-hub-backend/internal/service/solution"
	"github.com/heartmarshall/impact-hub-backend/internal/service/ticket"
	"github.com/heartmarshall/impact-hub-backend/internal/service/user"
	"github.com/heartmarshall/impact-hub-backend/internal/transport/middleware"
	"github.com/heartmarshall/impact-hub-backend/internal/transport/rest"
	"github.com/heartmarshall/impact-hub-backend/internal/vectorindex"
)

// App is the wired application: an HTTP handler plus the components it
// owns and must release.
type App struct {
	Handler http.Handler

	solutionsIndex *vectorindex.Index[domain.Solution]
	partnersIndex  *vectorindex.Index[domain.Partner]
	limiter        *middleware.RateLimiter
	publisher      Publisher
	backend        *backend
	log            *slog.Logger
}

// Option overrides a component New would otherwise build from config.
type Option func(*options)

type options struct {
	store      *memory.Store
	embedder   Embedder
	translator Translator
	refiner    Refiner
	publisher  Publisher
}

// WithMemoryStore uses st regardless of database.driver.
func WithMemoryStore(st *memory.Store) Option {
	return func(o *options) { o.store = st }
}

// WithEmbedder replaces the configured embedder.
func WithEmbedder(e Embedder) Option {
	return func(o *options) { o.embedder = e }
}

// WithTranslator replaces the configured translator.
func WithTranslator(t Translator) Option {
	return func(o *options) { o.translator = t }
}

// WithRefiner replaces the configured query refiner.
func WithRefiner(r Refiner) Option {
	return func(o *options) { o.refiner = r }
}

// WithPublisher replaces the configured event publisher.
func WithPublisher(p Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// New wires every component from cfg.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	var (
		be  *backend
		err error
	)
	if o.store != nil {
		be = memoryBackend(o.store)
	} else if be, err = openBackend(ctx, logger, cfg.Database); err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{backend: be, log: logger}
	if err := a.wire(cfg, logger, o); err != nil {
		be.close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(cfg *config.Config, logger *slog.Logger, o options) error {
	var err error

	emb := o.embedder
	if emb == nil {
		if emb, err = NewEmbedder(logger, cfg.Embedding); err != nil {
			return fmt.Errorf("embedder: %w", err)
		}
	}
	tr := o.translator
	if tr == nil {
		if tr, err = newTranslator(logger, cfg.Translation); err != nil {
			return fmt.Errorf("translator: %w", err)
		}
	}
	ref := o.refiner
	if ref == nil {
		if ref, err = newRefiner(logger, cfg.Search, cfg.Translation); err != nil {
			return fmt.Errorf("refiner: %w", err)
		}
	}
	a.publisher = o.publisher
	if a.publisher == nil {
		if a.publisher, err = newPublisher(logger, cfg.Events); err != nil {
			return fmt.Errorf("events: %w", err)
		}
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector()
	}

	indexOpts := vectorindex.Options{
		MinSimilarity: cfg.Search.MinSimilarity,
		Workers:       cfg.Search.BuildWorkers,
		Metrics:       collector,
	}
	locOpts := localize.Options{
		Parallelism: cfg.Translation.Parallelism,
		Timeout:     cfg.Translation.Timeout,
	}
	catOpts := catalog.Options{
		CandidateCap:  cfg.Search.CandidateCap,
		RefineTimeout: cfg.Search.RefineTimeout,
		Metrics:       collector,
	}
	be := a.backend

	if a.solutionsIndex, err = vectorindex.New(logger, solution.IndexSchema(), be.solutions, emb, indexOpts); err != nil {
		return fmt.Errorf("solutions index: %w", err)
	}
	if a.partnersIndex, err = vectorindex.New(logger, partner.IndexSchema(), be.partners, emb, indexOpts); err != nil {
		return fmt.Errorf("partners index: %w", err)
	}

	solutionsCatalog := catalog.New(logger, solution.CatalogKind(), be.solutions, a.solutionsIndex, emb, ref,
		localize.New(logger, solution.LocalizeKind(), be.solutions, tr, collector, locOpts), catOpts)
	partnersCatalog := catalog.New(logger, partner.CatalogKind(), be.partners, a.partnersIndex, emb, ref,
		localize.New(logger, partner.LocalizeKind(), be.partners, tr, collector, locOpts), catOpts)

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	solutionService := solution.NewService(logger, be.solutions, be.partners, be.tickets,
		a.solutionsIndex, solutionsCatalog, a.publisher, be.tx)
	partnerService := partner.NewService(logger, be.partners, be.solutions, be.tickets,
		a.partnersIndex, a.solutionsIndex, partnersCatalog, a.publisher, be.tx)
	ticketService := ticket.NewService(logger, be.tickets, be.solutions, be.partners,
		a.solutionsIndex, a.partnersIndex, a.publisher, be.tx)
	userService := user.NewService(logger, be.users, be.partners, be.solutions)
	authService := authsvc.NewService(logger, be.users, jwtManager, cfg.Auth)

	a.limiter = middleware.NewRateLimiter(time.Minute)

	a.Handler = rest.NewRouter(rest.Deps{
		Logger:      logger,
		Version:     BuildVersion(),
		CORS:        cfg.CORS,
		AuthRPM:     cfg.RateLimit.RequestsPerMinute,
		RateLimiter: a.limiter,
		Metrics:     collector,
		Store:       be.pinger,
		Tokens:      jwtManager,
		UserNames:   be.users,
		Indexes:     []rest.IndexController{a.solutionsIndex, a.partnersIndex},
		Auth:        authService,
		Solutions:   solutionService,
		Partners:    partnerService,
		Tickets:     ticketService,
		Users:       userService,
	})
	return nil
}

// Close releases the indexes, the publisher and the store.
func (a *App) Close() {
	if a.limiter != nil {
		a.limiter.Stop()
	}
	if a.solutionsIndex != nil {
		a.solutionsIndex.Dispose()
	}
	if a.partnersIndex != nil {
		a.partnersIndex.Dispose()
	}
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("close event publisher", slog.String("error", err.Error()))
		}
	}
	a.backend.close()
}

// Run is the application entry point. It loads configuration, wires the
// application and serves HTTP until SIGINT or SIGTERM.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("store", cfg.Database.Driver),
		slog.String("embedding", cfg.Embedding.Provider),
		slog.String("translation", cfg.Translation.Provider),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      a.Handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
