package destroyer

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"sync"
	"wipeit/internal/cleaner"
	"wipeit/internal/connectors"
	"wipeit/internal/lib/retry"
	"wipeit/internal/resources"
)

// Destroyer runs a selection against the registered handlers. It keeps no
// state between runs.
type Destroyer struct {
	Clients  *connectors.SAwsSession
	Registry *cleaner.Registry
	// Workers bounds how many resource types are processed at once. Ids of one
	// type are always processed sequentially.
	Workers int
	// Retry applies to transient failures of the terminal delete call.
	Retry retry.Policy
}

type Option func(*Destroyer)

func WithWorkers(workers int) Option {
	return func(d *Destroyer) {
		d.Workers = workers
	}
}

func WithRetry(policy retry.Policy) Option {
	return func(d *Destroyer) {
		d.Retry = policy
	}
}

func New(clients *connectors.SAwsSession, registry *cleaner.Registry, opts ...Option) *Destroyer {
	d := &Destroyer{
		Clients:  clients,
		Registry: registry,
		Workers:  1,
		Retry:    retry.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.Workers < 1 {
		d.Workers = 1
	}
	return d
}

// Run attempts every (type, id) pair of selection and returns exactly one
// outcome per pair: groups in selection order, ids in submission order.
// Failures never abort the run. Once ctx is done the remaining pairs are
// reported as cancelled and the completed outcomes are kept.
func (d *Destroyer) Run(ctx context.Context, selection resources.SelectionSet) []resources.Outcome {
	runId := uuid.New().String()
	logger := log.With().Str("run_id", runId).Logger()
	ctx = logger.WithContext(ctx)

	groups := selection.Groups()
	logger.Info().Msgf("starting deletion of %d resources of %d types", selection.Len(), len(groups))

	results := make([][]resources.Outcome, len(groups))
	if d.Workers <= 1 || len(groups) <= 1 {
		for i, group := range groups {
			results[i] = d.runGroup(ctx, group)
		}
	} else {
		d.runGroupsConcurrently(ctx, groups, results)
	}

	outcomes := make([]resources.Outcome, 0, selection.Len())
	deleted := 0
	for _, groupOutcomes := range results {
		for _, outcome := range groupOutcomes {
			if outcome.Succeeded() {
				deleted++
			}
			outcomes = append(outcomes, outcome)
		}
	}
	logger.Info().Msgf("deletion finished: %d deleted, %d failed", deleted, len(outcomes)-deleted)
	return outcomes
}

func (d *Destroyer) runGroupsConcurrently(ctx context.Context, groups []resources.Group, results [][]resources.Outcome) {
	sem := semaphore.NewWeighted(int64(d.Workers))
	var wg sync.WaitGroup

	for i := range groups {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = cancelled(groups[i], groups[i].Ids, err)
			continue
		}
		wg.Add(1)
		go func(i int) {
			defer sem.Release(1)
			defer wg.Done()
			results[i] = d.runGroup(ctx, groups[i])
		}(i)
	}
	wg.Wait()
}

func (d *Destroyer) runGroup(ctx context.Context, group resources.Group) []resources.Outcome {
	outcomes := make([]resources.Outcome, 0, len(group.Ids))
	if len(group.Ids) == 0 {
		return outcomes
	}
	zerolog.Ctx(ctx).Info().Msgf("deleting %d %s resources", len(group.Ids), group.Type)

	handler, ok := d.Registry.HandlerFor(group.Type)
	for i, id := range group.Ids {
		if err := ctx.Err(); err != nil {
			return append(outcomes, cancelled(group, group.Ids[i:], err)...)
		}

		identifier := resources.Identifier{Type: group.Type, Id: id}
		if !ok {
			outcomes = append(outcomes, resources.Failed(identifier, resources.UnknownTypeError(identifier)))
			continue
		}
		outcomes = append(outcomes, d.attempt(ctx, handler, identifier))
	}
	return outcomes
}

// attempt is the isolation boundary of a single resource: every error and
// panic raised while handling it ends up in its outcome.
func (d *Destroyer) attempt(ctx context.Context, handler cleaner.Handler, identifier resources.Identifier) (outcome resources.Outcome) {
	logger := zerolog.Ctx(ctx).With().Str("type", string(identifier.Type)).Str("id", string(identifier.Id)).Logger()
	ctx = logger.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err := resources.NewDeletionError(resources.KindDeleteCallFailure, identifier, fmt.Errorf("handler panic: %v", r))
			logger.Error().Err(err).Msg("deletion failed")
			outcome = resources.Failed(identifier, err)
		}
	}()

	if err := handler.PreDelete(ctx, d.Clients, identifier.Id); err != nil {
		deletionError := resources.NewDeletionError(resources.KindPreconditionFailure, identifier, err)
		logger.Error().Err(deletionError).Msgf("error deleting %s", identifier)
		return resources.Failed(identifier, deletionError)
	}

	err := retry.Do(ctx, d.Retry, func() error {
		return handler.Delete(ctx, d.Clients, identifier.Id)
	})
	if err != nil {
		kind := resources.KindDeleteCallFailure
		if retry.IsTransient(err) {
			kind = resources.KindTransientAPIError
		}
		deletionError := resources.NewDeletionError(kind, identifier, err)
		logger.Error().Err(deletionError).Msgf("error deleting %s", identifier)
		return resources.Failed(identifier, deletionError)
	}

	logger.Info().Msgf("deleted %s", identifier)
	return resources.Deleted(identifier)
}

func cancelled(group resources.Group, ids []resources.ResourceId, err error) []resources.Outcome {
	outcomes := make([]resources.Outcome, 0, len(ids))
	for _, id := range ids {
		identifier := resources.Identifier{Type: group.Type, Id: id}
		outcomes = append(outcomes, resources.Failed(identifier, resources.NewDeletionError(resources.KindCancelled, identifier, err)))
	}
	return outcomes
}
