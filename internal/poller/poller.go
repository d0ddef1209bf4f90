// Package poller schedules the periodic refresh passes. Each tick invokes
// a task that fetches a fresh snapshot and recomputes aggregates from
// scratch; the task holds no state between ticks. A failed tick is logged
// and retried only on the next interval, never synchronously.
package poller

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Task is one refresh pass. It should honor ctx and return promptly once
// the context is canceled.
type Task func(ctx context.Context) error

type Poller struct {
	name     string
	interval time.Duration
	task     Task
}

func New(name string, interval time.Duration, task Task) *Poller {
	return &Poller{
		name:     name,
		interval: interval,
		task:     task,
	}
}

// Run executes the task once immediately and then on every interval tick
// until ctx is canceled. Blocks; callers run it in a goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("poller", p.name).Msg("poller stopped")
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Poller) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := p.task(ctx); err != nil {
		log.Warn().Err(err).Str("poller", p.name).Msg("refresh pass failed, waiting for next tick")
	}
}
