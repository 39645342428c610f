package blockfrost

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testProjectID = "preprodTestProjectKey"

var testPolicy = strings.Repeat("ab", 28)

func txh(n int) string {
	return fmt.Sprintf("%064x", n)
}

func assetOf(name string) string {
	return testPolicy + name
}

// fakeAPI is an in-process stand-in for the indexer. Listing endpoints are
// paged by the page and count query parameters.
type fakeAPI struct {
	srv *httptest.Server

	mu       sync.Mutex
	lists    map[string][]any
	objects  map[string]any
	status   map[string]int
	hits     map[string]int
	pages    map[string][]int
	inFlight int
	maxSeen  int
	delay    time.Duration
	headers  []string
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		lists:   make(map[string][]any),
		objects: make(map[string]any),
		status:  make(map[string]int),
		hits:    make(map[string]int),
		pages:   make(map[string][]int),
	}
	f.srv = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeAPI) list(path string, items ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists[path] = append(f.lists[path], items...)
}

func (f *fakeAPI) object(path string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[path] = v
}

func (f *fakeAPI) fail(path string, code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status[path] = code
}

func (f *fakeAPI) hitCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) pagesOf(path string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.pages[path]...)
}

func (f *fakeAPI) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxSeen
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v0")

	f.mu.Lock()
	f.hits[path]++
	f.headers = append(f.headers, r.Header.Get(projectIDHeader))
	f.inFlight++
	f.maxSeen = max(f.maxSeen, f.inFlight)
	delay := f.delay
	code, failing := f.status[path]
	items, isList := f.lists[path]
	obj, isObject := f.objects[path]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()
	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Header.Get(projectIDHeader) != testProjectID:
		writeError(w, http.StatusForbidden, "Forbidden", "Invalid project token.")
	case failing:
		writeError(w, code, http.StatusText(code), "forced failure")
	case isList:
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))
		if count < 1 {
			count = 100
		}
		f.mu.Lock()
		f.pages[path] = append(f.pages[path], page)
		f.mu.Unlock()

		start := min((page-1)*count, len(items))
		end := min(start+count, len(items))
		_ = json.NewEncoder(w).Encode(items[start:end])
	case isObject:
		_ = json.NewEncoder(w).Encode(obj)
	default:
		writeError(w, http.StatusNotFound, "Not Found", "The requested component has not been found.")
	}
}

func writeError(w http.ResponseWriter, code int, reason, msg string) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status_code": code,
		"error":       reason,
		"message":     msg,
	})
}

// newTestProvider points a provider at f.
func newTestProvider(t *testing.T, f *fakeAPI, mutate ...func(*Config)) *Blockfrost {
	t.Helper()
	cfg := Config{
		ProjectID:   testProjectID,
		Endpoint:    f.srv.URL + "/api/v0",
		Concurrency: 4,
		HTTPClient:  f.srv.Client(),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	b, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func amount(lovelace int64, units ...any) []map[string]string {
	out := []map[string]string{{"unit": "lovelace", "quantity": strconv.FormatInt(lovelace, 10)}}
	for i := 0; i+1 < len(units); i += 2 {
		out = append(out, map[string]string{
			"unit":     units[i].(string),
			"quantity": fmt.Sprint(units[i+1]),
		})
	}
	return out
}
