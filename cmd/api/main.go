package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/cache"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/memory"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/observability"
	infrapdf "github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/pdf"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/postgres"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/spreadsheet"
	httpRouter "github.com/Vishnu-sidd2/Credit-Approval-System/internal/interfaces/http"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/config"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.Store).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]httpRouter.HealthCheck{}

	// Almacenamiento: PostgreSQL o memoria del proceso (desarrollo).
	var (
		customerRepo repository.CustomerRepository
		loanRepo     repository.LoanRepository
		txRunner     lending.TxRunner
	)
	switch cfg.App.Store {
	case config.StoreMemory:
		store := memory.NewStore()
		customerRepo, loanRepo, txRunner = store.Customers(), store.Loans(), store
		checks["database"] = store.Ping
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		runner := postgres.NewTxRunner(pool)
		customerRepo = postgres.NewCustomerRepository(pool)
		loanRepo = postgres.NewLoanRepository(pool)
		txRunner = runner
		checks["database"] = runner.Ping
	}

	// Caché de puntajes: Redis si está configurado; si no, en memoria.
	var scoreCache lending.ScoreCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisScoreCache(cache.NewRedisClient(cfg.Redis), cfg.Redis.ScoreTTL())
		defer func() { _ = redisCache.Close() }()
		scoreCache = redisCache
		checks["redis"] = redisCache.Ping
	} else {
		memCache := cache.NewMemoryScoreCache(cfg.Redis.ScoreTTL())
		go memCache.Store().RunSweeper(ctx, cfg.Redis.ScoreTTL())
		scoreCache = memCache
	}

	metrics := observability.NewMetrics(log)
	clock := credit.SystemClock{}
	engine := credit.NewScoreEngine(clock, metrics)
	decider := credit.NewDecider(engine, metrics)

	customerUC := lending.NewCustomerUseCase(customerRepo, clock, log)
	scoreUC := lending.NewScoreUseCase(customerRepo, loanRepo, engine, scoreCache, metrics, log)
	eligibilityUC := lending.NewEligibilityUseCase(customerRepo, loanRepo, decider, metrics, log)
	loanUC := lending.NewLoanUseCase(lending.LoanDeps{
		Tx:        txRunner,
		Customers: customerRepo,
		Loans:     loanRepo,
		Decider:   decider,
		Clock:     clock,
		Scores:    scoreUC,
		Metrics:   metrics,
		Log:       log,
	})
	statementUC := lending.NewStatementUseCase(customerRepo, loanRepo, infrapdf.NewStatementGenerator(language.English))
	ingestUC := lending.NewIngestUseCase(customerRepo, loanRepo, spreadsheet.NewReader(), clock, metrics, log).
		WithScores(scoreUC)
	ingestJob := lending.NewIngestJob(ctx, ingestUC, clock, log)

	// Reimportación programada (INGEST_CRON, formato con segundos).
	if cfg.Ingest.Schedule != "" {
		scheduler := cron.New(cron.WithSeconds())
		_, err := scheduler.AddFunc(cfg.Ingest.Schedule, func() {
			if err := ingestJob.Start(cfg.Ingest.CustomerPath(), cfg.Ingest.LoanPath()); err != nil {
				log.Warn().Err(err).Msg("ingesta programada omitida")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("cron", cfg.Ingest.Schedule).Msg("INGEST_CRON inválido")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info().Str("cron", cfg.Ingest.Schedule).Msg("ingesta programada")
	}

	app := httpRouter.NewApp(cfg.App.Name)
	httpRouter.Router(app, httpRouter.RouterDeps{
		CustomerUC:    customerUC,
		ScoreUC:       scoreUC,
		EligibilityUC: eligibilityUC,
		LoanUC:        loanUC,
		StatementUC:   statementUC,
		IngestJob:     ingestJob,
		Ingest:        cfg.Ingest,
		Metrics:       metrics,
		Checks:        checks,
		Version:       version,
		SwaggerFile:   "./docs/swagger.json",
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	ingestJob.Wait()

	log.Info().Msg("aplicación detenida")
}
