package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"property-feed/internal/model"
	"property-feed/pkg/utils"
)

// RecordStore is the persistent layer the runner writes through.
type RecordStore interface {
	Insert(ctx context.Context, category model.Category, key string, payload []byte) error
	SaveCycleRun(ctx context.Context, run model.CycleRun) error
}

// RecordCache is the cache layer the runner writes through.
type RecordCache interface {
	MSet(ctx context.Context, pairs map[string]interface{}, ttl time.Duration) error
}

// Publisher emits a payload on a category channel, fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Runner executes one fetch-validate-transform-store-publish cycle for a
// category. It holds no per-cycle state, so overlapping cycles for the
// same category cannot corrupt it: the transform is pure, the store is
// append-only and Redis gives per-key atomicity on cache writes.
type Runner struct {
	fetcher     *Fetcher
	validator   *Validator
	transformer *Transformer
	store       RecordStore
	cache       RecordCache
	publisher   Publisher
	ttl         time.Duration
	log         *utils.Logger
}

func NewRunner(
	fetcher *Fetcher,
	validator *Validator,
	transformer *Transformer,
	store RecordStore,
	cache RecordCache,
	publisher Publisher,
	ttl time.Duration,
	log *utils.Logger,
) *Runner {
	return &Runner{
		fetcher:     fetcher,
		validator:   validator,
		transformer: transformer,
		store:       store,
		cache:       cache,
		publisher:   publisher,
		ttl:         ttl,
		log:         log,
	}
}

// RunCycle runs one full cycle for the category against sourceURL.
// A fetch failure aborts the whole tick and is returned. Per-record
// stage failures abort the remaining stages for that record only and
// are forwarded to errs. The cycle outcome is persisted as a CycleRun.
func (r *Runner) RunCycle(ctx context.Context, category model.Category, sourceURL string, errs chan<- error) error {
	run := model.CycleRun{
		RunID:     uuid.New().String(),
		Category:  category,
		StartedAt: time.Now().UTC(),
	}

	items, err := r.fetcher.Fetch(ctx, sourceURL)
	if err != nil {
		run.FinishedAt = time.Now().UTC()
		run.Status = "failed"
		run.Error = err.Error()
		if saveErr := r.store.SaveCycleRun(ctx, run); saveErr != nil {
			r.log.Error("[%s] failed to record cycle run: %v", category, saveErr)
		}
		return err
	}
	run.RecordsIn = len(items)

	for _, item := range items {
		if err := r.processItem(ctx, category, item); err != nil {
			// Drop rather than block the cycle when the drain lags.
			select {
			case errs <- fmt.Errorf("[%s] %w", category, err):
			default:
				r.log.Warn("[%s] error channel full, dropping: %v", category, err)
			}
			continue
		}
		run.RecordsOut++
	}

	run.FinishedAt = time.Now().UTC()
	run.Status = "succeeded"
	if err := r.store.SaveCycleRun(ctx, run); err != nil {
		r.log.Error("[%s] failed to record cycle run: %v", category, err)
	}

	r.log.Info("[%s] cycle complete: %d/%d records distributed", category, run.RecordsOut, run.RecordsIn)
	return nil
}

// processItem takes one raw JSON item through the remaining stages.
func (r *Runner) processItem(ctx context.Context, category model.Category, item json.RawMessage) error {
	id, canonical, err := r.decodeAndTransform(category, item)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(canonical)
	if err != nil {
		return fmt.Errorf("marshal canonical record: %w", err)
	}

	key := category.CacheKey(id)
	if err := r.store.Insert(ctx, category, key, payload); err != nil {
		return &StorageError{Op: "insert " + key, Err: err}
	}
	pairs := map[string]interface{}{
		key:                  canonical,
		category.LatestKey(): canonical,
	}
	if err := r.cache.MSet(ctx, pairs, r.ttl); err != nil {
		return &StorageError{Op: "cache set " + key, Err: err}
	}

	// Publish failures drop the message; clients only care about current
	// state, so there is nothing to retry.
	if err := r.publisher.Publish(ctx, category.Channel(), payload); err != nil {
		r.log.Warn("%v", &PublishError{Channel: category.Channel(), Err: err})
	}
	return nil
}

// decodeAndTransform binds the raw item to the category schema, validates
// it and produces the canonical entity plus its identifier.
func (r *Runner) decodeAndTransform(category model.Category, item json.RawMessage) (string, interface{}, error) {
	switch category {
	case model.CategoryProperty:
		var raw model.RawPropertyRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			return "", nil, fmt.Errorf("decode property record: %w", err)
		}
		if err := r.validator.ValidateProperty(raw); err != nil {
			return "", nil, err
		}
		rec := r.transformer.TransformProperty(raw)
		return rec.PropertyID, rec, nil

	case model.CategoryMarket:
		var raw model.RawMarketRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			return "", nil, fmt.Errorf("decode market record: %w", err)
		}
		if err := r.validator.ValidateMarket(raw); err != nil {
			return "", nil, err
		}
		snap := r.transformer.TransformMarket(raw)
		return snap.MarketID, snap, nil

	case model.CategoryInfrastructure:
		var raw model.RawInfrastructureRecord
		if err := json.Unmarshal(item, &raw); err != nil {
			return "", nil, fmt.Errorf("decode infrastructure record: %w", err)
		}
		if err := r.validator.ValidateInfrastructure(raw); err != nil {
			return "", nil, err
		}
		proj := r.transformer.TransformInfrastructure(raw)
		return proj.ProjectID, proj, nil

	default:
		return "", nil, fmt.Errorf("unknown category: %s", category)
	}
}
