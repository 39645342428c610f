// Package blockfrost implements provider.Provider on top of the Blockfrost
// REST API.
package blockfrost

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/Klingon-tech/cardakit/internal/paginate"
	"github.com/Klingon-tech/cardakit/internal/provider"
	"github.com/Klingon-tech/cardakit/internal/storage"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// Defaults applied by New.
const (
	DefaultConcurrency = 20
	DefaultTimeout     = 30 * time.Second

	// PageSize is the number of items the service returns per full page.
	PageSize = 100
)

// Config configures a Blockfrost provider.
type Config struct {
	// ProjectID is the API credential. Its prefix selects the network.
	ProjectID string
	// Endpoint overrides the network's public API URL.
	Endpoint string
	// Concurrency bounds simultaneous remote calls. Zero means
	// DefaultConcurrency.
	Concurrency int
	// RateLimit paces requests per second. Zero disables pacing.
	RateLimit int
	// Timeout bounds each HTTP request. Zero means DefaultTimeout.
	Timeout time.Duration
	// Breaker tunes the circuit breaker. The zero value means
	// DefaultBreakerConfig.
	Breaker BreakerConfig
	// Cache stores immutable script data. Nil means a fresh MemoryDB.
	Cache storage.DB
	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Blockfrost is a provider.Provider backed by the Blockfrost API. All calls
// issued through one instance share a single permit pool.
type Blockfrost struct {
	network  types.Network
	client   *client
	sem      *semaphore.Weighted
	parallel int
	scripts  *scriptCache
}

var (
	_ provider.Provider    = (*Blockfrost)(nil)
	_ provider.ChainReader = (*Blockfrost)(nil)
)

// Endpoint returns the public API URL of a network.
func Endpoint(net types.Network) string {
	return fmt.Sprintf("https://cardano-%s.blockfrost.io/api/v0", net)
}

// New creates a provider. It fails when the project id does not name
// exactly one known network or when Concurrency is negative.
func New(cfg Config) (*Blockfrost, error) {
	net, err := types.NetworkFromProjectID(cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	if cfg.Concurrency < 0 {
		return nil, fmt.Errorf("%w: %d", types.ErrInvalidConcurrency, cfg.Concurrency)
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = Endpoint(net)
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	cache, owned := cfg.Cache, false
	if cache == nil {
		cache, owned = storage.NewMemory(), true
	}

	return &Blockfrost{
		network:  net,
		client:   newClient(cfg.Endpoint, cfg.ProjectID, httpClient, cfg.RateLimit, cfg.Breaker),
		sem:      semaphore.NewWeighted(int64(cfg.Concurrency)),
		parallel: cfg.Concurrency,
		scripts:  newScriptCache(cache, owned),
	}, nil
}

// Network returns the network selected by the project id.
func (b *Blockfrost) Network() types.Network {
	return b.network
}

// Concurrency returns the size of the permit pool.
func (b *Blockfrost) Concurrency() int {
	return b.parallel
}

// fetch performs one GET while holding a permit.
func (b *Blockfrost) fetch(ctx context.Context, path string, query url.Values, out any) error {
	_, err := paginate.Call(ctx, b.sem, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, b.client.get(ctx, path, query, out)
	})
	return err
}

// listPage returns a PageFunc over a paged listing endpoint.
func listPage[T any](b *Blockfrost, path string, query url.Values) paginate.PageFunc[T] {
	return func(ctx context.Context, page int) ([]T, error) {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		q.Set("count", strconv.Itoa(PageSize))

		var items []T
		if err := b.client.get(ctx, path, q, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
}

// segment escapes a user-supplied path segment.
func segment(s string) string {
	return url.PathEscape(s)
}
