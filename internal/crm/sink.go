package crm

import (
	"context"
	"errors"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Sink receives mapped contacts.
type Sink interface {
	Name() string
	Push(ctx context.Context, c Contact) error
}

// ErrNoSinks is returned by Sync when nothing is configured.
var ErrNoSinks = eris.New("crm: no sinks configured")

// Sync pushes c to every sink concurrently. Every sink is attempted; the
// result joins all sink failures and is nil only when all succeeded.
func Sync(ctx context.Context, sinks []Sink, c Contact) error {
	if len(sinks) == 0 {
		return ErrNoSinks
	}

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, s := range sinks {
		g.Go(func() error {
			if err := s.Push(ctx, c); err != nil {
				zap.L().Warn("crm: sink push failed",
					zap.String("sink", s.Name()),
					zap.String("lead_id", c.LeadID),
					zap.Error(err),
				)
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return nil
			}
			zap.L().Debug("crm: contact pushed",
				zap.String("sink", s.Name()),
				zap.String("lead_id", c.LeadID),
				zap.Int("lead_score", c.LeadScore),
			)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}
