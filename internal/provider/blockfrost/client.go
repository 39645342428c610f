package blockfrost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"

	"github.com/Klingon-tech/cardakit/internal/log"
	"github.com/Klingon-tech/cardakit/pkg/types"
)

// projectIDHeader carries the API credential on every request.
const projectIDHeader = "project_id"

// APIError is returned when the service answers with a non-200 status.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Reason     string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("blockfrost error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("blockfrost error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
}

// Is makes a 404 match types.ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == types.ErrNotFound && e.StatusCode == http.StatusNotFound
}

// BreakerConfig tunes the circuit breaker guarding the HTTP client.
type BreakerConfig struct {
	// MinRequests is the number of requests in the current window before
	// the failure ratio is considered.
	MinRequests uint32
	// FailureRatio trips the breaker when reached.
	FailureRatio float64
	// OpenTimeout is how long the breaker stays open before probing.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig returns the breaker settings used when none are given.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MinRequests:  10,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
	}
}

// client is a paced, circuit-broken HTTP client for the REST API.
type client struct {
	baseURL   string
	projectID string
	http      *http.Client
	pace      ratelimit.Limiter
	paced     bool
	cb        *gobreaker.CircuitBreaker
}

func newClient(baseURL, projectID string, httpClient *http.Client, rate int, bc BreakerConfig) *client {
	pace := ratelimit.NewUnlimited()
	if rate > 0 {
		pace = ratelimit.New(rate)
	}
	return &client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		projectID: projectID,
		http:      httpClient,
		pace:      pace,
		paced:     rate > 0,
		cb:        newCircuitBreaker(bc),
	}
}

func newCircuitBreaker(bc BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "blockfrost",
		Timeout: bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= bc.MinRequests && failureRatio >= bc.FailureRatio
		},
		IsSuccessful: isServiceHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				log.Provider.Warn().Str("breaker", name).Msg("indexer seems down, stop allowing requests")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				log.Provider.Info().Str("breaker", name).Msg("checking indexer status")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				log.Provider.Info().Str("breaker", name).Msg("indexer seems ok, restart allowing requests")
			}
		},
	})
}

// isServiceHealthy reports whether err says nothing about the health of the
// service: client errors and caller cancellation do not count as failures.
func isServiceHealthy(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode < 500 && apiErr.StatusCode != http.StatusTooManyRequests
	}
	return false
}

// wait blocks until the next pacing slot or until ctx is done. The caller
// may hold a permit, so a cancelled caller must not sit out its slot.
func (c *client) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.paced {
		return nil
	}
	ready := make(chan struct{})
	go func() {
		c.pace.Take()
		close(ready)
	}()
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// get issues a GET request and decodes the JSON body into out.
func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.wait(ctx); err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, path, query, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	return err
}

func (c *client) do(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(projectIDHeader, c.projectID)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}
