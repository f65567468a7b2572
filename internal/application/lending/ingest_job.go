package lending

import (
	"context"
	"fmt"
	"sync"

	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/application/dto"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain"
	"github.com/Vishnu-sidd2/Credit-Approval-System/internal/domain/credit"
	"github.com/Vishnu-sidd2/Credit-Approval-System/pkg/logger"
)

// IngestJob ejecuta la ingesta en segundo plano; a lo sumo una corrida a la vez.
type IngestJob struct {
	uc    *IngestUseCase
	base  context.Context
	clock credit.Clock
	log   *logger.Logger

	mu     sync.Mutex
	status dto.IngestStatus
	wg     sync.WaitGroup
}

// NewIngestJob las corridas heredan base: cancelarlo detiene la ingesta en curso.
func NewIngestJob(base context.Context, uc *IngestUseCase, clock credit.Clock, log *logger.Logger) *IngestJob {
	if clock == nil {
		clock = credit.SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &IngestJob{uc: uc, base: base, clock: clock, log: log.Component("ingest_job")}
}

// Start lanza una corrida. Si ya hay una en curso devuelve ErrConflict.
func (j *IngestJob) Start(customerPath, loanPath string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status.Running {
		return fmt.Errorf("%w: ingesta en curso", domain.ErrConflict)
	}
	started := j.clock.Now()
	j.status = dto.IngestStatus{Running: true, StartedAt: &started, LastResult: j.status.LastResult}

	j.wg.Add(1)
	go j.run(customerPath, loanPath)
	return nil
}

func (j *IngestJob) run(customerPath, loanPath string) {
	defer j.wg.Done()
	res, err := j.uc.Run(j.base, customerPath, loanPath)
	finished := j.clock.Now()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.status.Running = false
	j.status.FinishedAt = &finished
	j.status.LastError = ""
	if err != nil {
		j.status.LastError = err.Error()
		j.log.Error().Err(err).Msg("ingesta fallida")
	}
	if res != nil {
		j.status.LastResult = res
	}
}

// Status copia del estado actual.
func (j *IngestJob) Status() dto.IngestStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// Wait bloquea hasta que termine la corrida en curso.
func (j *IngestJob) Wait() { j.wg.Wait() }
