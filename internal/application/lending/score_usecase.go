package lending

import (
	"context"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/entity"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/repository"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// ScoreUseCase consulta del puntaje con caché de lectura. Las decisiones de crédito
// no pasan por aquí: siempre recalculan desde el historial.
type ScoreUseCase struct {
	customers repository.CustomerRepository
	loans     repository.LoanRepository
	engine    *credit.ScoreEngine
	cache     ScoreCache
	metrics   Metrics
	log       *logger.Logger
}

// NewScoreUseCase construye el caso de uso. cache nil deshabilita el caché.
func NewScoreUseCase(
	customers repository.CustomerRepository,
	loans repository.LoanRepository,
	engine *credit.ScoreEngine,
	cache ScoreCache,
	metrics Metrics,
	log *logger.Logger,
) *ScoreUseCase {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ScoreUseCase{
		customers: customers,
		loans:     loans,
		engine:    engine,
		cache:     cache,
		metrics:   metrics,
		log:       log.Component("credit_score"),
	}
}

// Get devuelve el puntaje del cliente, desde caché si está vigente.
func (uc *ScoreUseCase) Get(ctx context.Context, customerID string) (*dto.CreditScoreResponse, error) {
	if cached := uc.fromCache(ctx, customerID); cached != nil {
		return toScoreResponse(cached, true), nil
	}

	customer, history, err := loadHistory(ctx, uc.customers, uc.loans, customerID)
	if err != nil {
		return nil, err
	}
	score := &entity.CreditScore{
		CustomerID:   customer.ID,
		Score:        uc.engine.Score(customer, history),
		CalculatedAt: uc.engine.Clock().Now(),
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, score); err != nil {
			uc.log.Warn().Err(err).Str("customer_id", customerID).Msg("no se pudo guardar el puntaje en caché")
		}
	}
	return toScoreResponse(score, false), nil
}

// Invalidate descarta el puntaje en caché del cliente. Los errores solo se registran.
func (uc *ScoreUseCase) Invalidate(ctx context.Context, customerID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx, customerID); err != nil {
		uc.log.Warn().Err(err).Str("customer_id", customerID).Msg("no se pudo invalidar el puntaje en caché")
	}
}

func (uc *ScoreUseCase) fromCache(ctx context.Context, customerID string) *entity.CreditScore {
	if uc.cache == nil {
		return nil
	}
	s, err := uc.cache.Get(ctx, customerID)
	if err != nil {
		uc.log.Warn().Err(err).Str("customer_id", customerID).Msg("caché de puntajes no disponible")
		s = nil
	}
	uc.metrics.ObserveCache(s != nil)
	return s
}

func toScoreResponse(s *entity.CreditScore, cached bool) *dto.CreditScoreResponse {
	return &dto.CreditScoreResponse{
		CustomerID:   s.CustomerID,
		CreditScore:  s.Score,
		CalculatedAt: s.CalculatedAt,
		Cached:       cached,
	}
}
