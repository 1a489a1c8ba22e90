package strategy

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"universal-portfolio/internal/model"
)

// Plan replays weights computed ahead of time.
type Plan struct {
	name    string
	weights []model.WeightVector
}

func (p *Plan) Name() string { return p.name }

func (p *Plan) Days() int { return len(p.weights) }

func (p *Plan) Weights(day int) (model.WeightVector, error) {
	if day < 1 || day > len(p.weights) {
		return model.WeightVector{}, fmt.Errorf("%w: plan covers days 1..%d, asked for %d",
			model.ErrUndefinedDay, len(p.weights), day)
	}
	return p.weights[day-1], nil
}

// Precompute evaluates s.Weights(1..days) on up to workers goroutines
// (workers <= 0 means no limit). s must be safe for concurrent use, which
// holds for Universal since its weights are a pure function of the day.
// The first failure cancels the remaining days and is returned.
func Precompute(ctx context.Context, s Strategy, days, workers int) (*Plan, error) {
	if days < 1 {
		return nil, fmt.Errorf("%w: cannot precompute %d days", model.ErrUndefinedDay, days)
	}
	weights := make([]model.WeightVector, days)

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for k := 1; k <= days; k++ {
		k := k
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b, err := s.Weights(k)
			if err != nil {
				return fmt.Errorf("day %d weights: %w", k, err)
			}
			weights[k-1] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Plan{name: s.Name(), weights: weights}, nil
}
