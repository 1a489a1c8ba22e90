package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"universal-portfolio/internal/backtest"
)

var ErrNotFound = errors.New("run not found")

// Run is one persisted simulation.
type Run struct {
	ID           uuid.UUID        `json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	Strategy     string           `json:"strategy"`
	Assets       []string         `json:"assets"`
	Horizon      int              `json:"horizon"`
	Quantization int              `json:"quantization"`
	Capital      float64          `json:"capital"`
	Result       *backtest.Result `json:"result"`
}

// NewRun stamps a result with a fresh ID and the current time.
func NewRun(res *backtest.Result, quantization int, capital float64) *Run {
	r := &Run{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		Quantization: quantization,
		Capital:      capital,
		Result:       res,
	}
	if res != nil {
		r.Strategy = res.Strategy
		r.Assets = res.Assets
		r.Horizon = res.Days()
	}
	return r
}

// RunStore persists runs. List returns newest first.
type RunStore interface {
	Save(ctx context.Context, run *Run) error
	Get(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit int) ([]*Run, error)
}
