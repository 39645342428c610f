// Package paginate fetches paged remote listings with bounded concurrency.
//
// Every page request holds one permit from a Limiter for the duration of
// the call and nothing else, so nested fan-out over the same Limiter cannot
// deadlock. A page reported as not found is treated as empty.
package paginate

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// PageFunc fetches one page. Pages are numbered from 1.
type PageFunc[T any] func(ctx context.Context, page int) ([]T, error)

// Limiter bounds the number of in-flight remote calls.
// *semaphore.Weighted satisfies it.
type Limiter interface {
	Acquire(ctx context.Context, n int64) error
	Release(n int64)
}

// Fallback wraps fetch so that a not-found failure yields an empty page.
func Fallback[T any](fetch PageFunc[T]) PageFunc[T] {
	return func(ctx context.Context, page int) ([]T, error) {
		items, err := fetch(ctx, page)
		if errors.Is(err, types.ErrNotFound) {
			log.Paginate.Debug().Int("page", page).Msg("not found, treating as empty page")
			return nil, nil
		}
		return items, err
	}
}

// Call runs fn while holding one permit of lim. A nil lim means unbounded.
func Call[R any](ctx context.Context, lim Limiter, fn func(context.Context) (R, error)) (R, error) {
	if lim != nil {
		if err := lim.Acquire(ctx, 1); err != nil {
			var zero R
			return zero, err
		}
		defer lim.Release(1)
	}
	return fn(ctx)
}

func fetchPage[T any](ctx context.Context, lim Limiter, fetch PageFunc[T], page int) ([]T, error) {
	return Call(ctx, lim, func(ctx context.Context) ([]T, error) {
		return fetch(ctx, page)
	})
}

// Pages returns a lazy sequence of non-empty pages fetched in rounds of
// parallel concurrent requests. Pages are yielded in page-number order.
// Fetching stops after the first round in which fewer than parallel pages
// were non-empty, or as soon as the consumer stops iterating. A round is
// only requested once the previous one has been consumed.
func Pages[T any](ctx context.Context, lim Limiter, parallel int, fetch PageFunc[T]) iter.Seq2[[]T, error] {
	fetch = Fallback(fetch)
	return func(yield func([]T, error) bool) {
		if parallel < 1 {
			yield(nil, fmt.Errorf("%w: %d", types.ErrInvalidConcurrency, parallel))
			return
		}
		for first := 1; ; first += parallel {
			round := make([][]T, parallel)
			g, gctx := errgroup.WithContext(ctx)
			for i := range parallel {
				g.Go(func() error {
					items, err := fetchPage(gctx, lim, fetch, first+i)
					if err != nil {
						return fmt.Errorf("page %d: %w", first+i, err)
					}
					round[i] = items
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				yield(nil, err)
				return
			}

			full := 0
			for _, items := range round {
				if len(items) > 0 {
					full++
				}
			}
			log.Paginate.Debug().
				Int("first", first).
				Int("last", first+parallel-1).
				Int("non_empty", full).
				Msg("round fetched")

			for _, items := range round {
				if len(items) == 0 {
					continue
				}
				if !yield(items, nil) {
					return
				}
			}
			if full < parallel {
				return
			}
		}
	}
}

// All collects every item of a concurrent pagination.
func All[T any](ctx context.Context, lim Limiter, parallel int, fetch PageFunc[T]) ([]T, error) {
	return Collect(Pages(ctx, lim, parallel, fetch))
}

// Sequential returns a lazy sequence of pages fetched one at a time. A page
// shorter than pageSize is the last one.
func Sequential[T any](ctx context.Context, lim Limiter, pageSize int, fetch PageFunc[T]) iter.Seq2[[]T, error] {
	fetch = Fallback(fetch)
	return func(yield func([]T, error) bool) {
		if pageSize < 1 {
			yield(nil, fmt.Errorf("page size must be positive, got %d", pageSize))
			return
		}
		for page := 1; ; page++ {
			items, err := fetchPage(ctx, lim, fetch, page)
			if err != nil {
				yield(nil, fmt.Errorf("page %d: %w", page, err))
				return
			}
			if len(items) > 0 && !yield(items, nil) {
				return
			}
			if len(items) < pageSize {
				return
			}
		}
	}
}

// Collect concatenates every page of seq.
func Collect[T any](seq iter.Seq2[[]T, error]) ([]T, error) {
	var out []T
	for items, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
	}
	return out, nil
}

// Take collects at most limit items from seq and stops the sequence as soon
// as limit is reached. A limit below 1 collects nothing. Memory grows with
// the items read, not with limit.
func Take[T any](seq iter.Seq2[[]T, error], limit int) ([]T, error) {
	if limit < 1 {
		return nil, nil
	}
	var out []T
	for items, err := range seq {
		if err != nil {
			return nil, err
		}
		n := min(len(items), limit-len(out))
		out = append(out, items[:n]...)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
