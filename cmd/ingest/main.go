// ingest carga las planillas de clientes y préstamos en PostgreSQL y termina.
//
// Uso: go run ./cmd/ingest [customer_data.xlsx] [loan_data.xlsx]
// Sin argumentos usa INGEST_DATA_DIR/INGEST_CUSTOMER_FILE e INGEST_LOAN_FILE.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/lending"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/cache"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/postgres"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/infrastructure/spreadsheet"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/config"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	customerPath, loanPath := cfg.Ingest.CustomerPath(), cfg.Ingest.LoanPath()
	if len(os.Args) > 1 {
		customerPath = os.Args[1]
	}
	if len(os.Args) > 2 {
		loanPath = os.Args[2]
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conectar a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		fmt.Fprintf(os.Stderr, "Migraciones: %v\n", err)
		os.Exit(1)
	}

	customers := postgres.NewCustomerRepository(pool)
	loans := postgres.NewLoanRepository(pool)
	clock := credit.SystemClock{}
	uc := lending.NewIngestUseCase(customers, loans, spreadsheet.NewReader(), clock, nil, log)

	// El caché Redis es compartido con la API: invalidar los puntajes de los clientes importados.
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisScoreCache(cache.NewRedisClient(cfg.Redis), cfg.Redis.ScoreTTL())
		defer func() { _ = redisCache.Close() }()
		uc.WithScores(lending.NewScoreUseCase(customers, loans, credit.NewScoreEngine(clock, nil), redisCache, nil, log))
	}

	res, err := uc.Run(ctx, customerPath, loanPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ingesta: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Clientes: %d cargados, %d omitidos\n", res.CustomersUpserted, res.CustomersSkipped)
	fmt.Printf("Préstamos: %d cargados, %d omitidos\n", res.LoansUpserted, res.LoansSkipped)
}
