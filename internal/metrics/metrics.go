package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/hunterjsb/pokebot/internal/metrics"

func meter(mp metric.MeterProvider) metric.Meter {
	if mp == nil {
		return otel.Meter(instrumentationName)
	}
	return mp.Meter(instrumentationName)
}

// Battle holds the bot's battle instruments. A nil *Battle records nothing.
type Battle struct {
	started  metric.Int64Counter
	finished metric.Int64Counter
	turns    metric.Int64Counter
	renders  metric.Int64Counter
	renderMs metric.Float64Histogram
}

// New creates the instruments on mp, or on the global meter provider when mp is nil
func New(mp metric.MeterProvider) (*Battle, error) {
	m := meter(mp)
	b := &Battle{}

	var err error
	b.started, err = m.Int64Counter(
		"battle.started",
		metric.WithDescription("Battles started"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating started counter: %w", err)
	}

	b.finished, err = m.Int64Counter(
		"battle.finished",
		metric.WithDescription("Battles finished, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating finished counter: %w", err)
	}

	b.turns, err = m.Int64Counter(
		"battle.turns",
		metric.WithDescription("Turns processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating turns counter: %w", err)
	}

	b.renders, err = m.Int64Counter(
		"battle.scene.renders",
		metric.WithDescription("Battle scenes rendered, by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating renders counter: %w", err)
	}

	b.renderMs, err = m.Float64Histogram(
		"battle.scene.duration",
		metric.WithDescription("Time spent rendering a battle scene"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating render histogram: %w", err)
	}

	return b, nil
}

func (b *Battle) Started(ctx context.Context, boss string) {
	if b == nil {
		return
	}
	b.started.Add(ctx, 1, metric.WithAttributes(attribute.String("boss", boss)))
}

func (b *Battle) Finished(ctx context.Context, boss, outcome string) {
	if b == nil {
		return
	}
	b.finished.Add(ctx, 1, metric.WithAttributes(
		attribute.String("boss", boss),
		attribute.String("outcome", outcome),
	))
}

func (b *Battle) Turn(ctx context.Context) {
	if b == nil {
		return
	}
	b.turns.Add(ctx, 1)
}

// Rendered records one scene render and how long it took
func (b *Battle) Rendered(ctx context.Context, took time.Duration, err error) {
	if b == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	b.renders.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	b.renderMs.Record(ctx, float64(took.Microseconds())/1000)
}
