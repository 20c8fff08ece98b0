// Package engine answers "where is train N right now" by walking a cascade
// of providers with per-attempt retries and a date ladder for the
// date-indexed ones. Retries happen only at the fetch level inside each
// adapter; the cascade itself never re-runs a source.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"railstatus/models"
)

// ErrEmptyTrainNo rejects lookups with no train number.
var ErrEmptyTrainNo = errors.New("train number is empty")

// SourceAdapter is one provider as the orchestrator sees it. Adapters
// return a nil record with an error when they have no answer; the error
// explains the miss and never stops the cascade.
type SourceAdapter interface {
	Key() string
	DisplayName() string
	DateIndexed() bool
	Fetch(ctx context.Context, trainNo, date string) (*models.TrainStatusRecord, error)
	Probe(ctx context.Context) string
}

// Orchestrator walks the provider cascade until one yields a record.
type Orchestrator struct {
	adapters []SourceAdapter
	dates    *DatePolicy
	cooldown time.Duration
	metrics  *Metrics
}

// NewOrchestrator wires the cascade; the adapter order is the query
// priority. The cooldown separates consecutive provider hits after a miss.
func NewOrchestrator(adapters []SourceAdapter, dates *DatePolicy, cooldown time.Duration, metrics *Metrics) *Orchestrator {
	return &Orchestrator{
		adapters: adapters,
		dates:    dates,
		cooldown: cooldown,
		metrics:  metrics,
	}
}

// Resolve returns the first record any provider yields. Date-indexed
// providers walk the full date ladder; the rest are asked once and get
// today's date for record metadata. A record short-circuits everything
// still pending. When all combinations miss, the error is a
// *models.NotFoundError listing what was tried.
func (o *Orchestrator) Resolve(ctx context.Context, trainNo string) (*models.TrainStatusRecord, error) {
	if strings.TrimSpace(trainNo) == "" {
		return nil, ErrEmptyTrainNo
	}

	start := time.Now()
	defer func() { o.metrics.ObserveResolve(time.Since(start)) }()

	candidates := o.dates.Candidates()
	var datesTried []string
	var sourcesTried []string

	for i, adapter := range o.adapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && o.cooldown > 0 {
			if err := sleepCtx(ctx, o.cooldown); err != nil {
				return nil, err
			}
		}

		sourcesTried = append(sourcesTried, adapter.Key())
		dates := candidates[:1]
		if adapter.DateIndexed() {
			dates = candidates
		}

		for _, date := range dates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			datesTried = appendUnique(datesTried, date)
			slog.Info("querying source",
				slog.String("train_no", trainNo),
				slog.String("source", adapter.Key()),
				slog.String("date", date),
			)

			record, err := adapter.Fetch(ctx, trainNo, date)
			if err != nil {
				slog.Warn("source gave no answer",
					slog.String("train_no", trainNo),
					slog.String("source", adapter.Key()),
					slog.String("date", date),
					slog.Any("error", err),
				)
				continue
			}

			record.SourceUsed = adapter.DisplayName()
			o.metrics.IncResolve("found", adapter.Key())
			slog.Info("train status resolved",
				slog.String("train_no", trainNo),
				slog.String("source", adapter.Key()),
				slog.String("date", date),
				slog.String("status", record.Status),
			)
			return record, nil
		}
	}

	o.metrics.IncResolve("not_found", "none")
	return nil, &models.NotFoundError{
		TrainNo:      trainNo,
		DatesTried:   datesTried,
		SourcesTried: sourcesTried,
	}
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
