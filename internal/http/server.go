package http

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"masraf/internal/core"
	"masraf/internal/services"

	"github.com/shopspring/decimal"
)

// Ports the server depends on. The sqlite repository and the services
// package satisfy them; tests substitute fakes.
type (
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (core.User, error)
		GetUser(ctx context.Context, id int64) (core.User, error)
		ListUsers(ctx context.Context) ([]core.User, error)
		UpdateUserLimits(ctx context.Context, id int64, daily, weekly, monthly *decimal.Decimal) (core.User, error)
		TotalExpenses(ctx context.Context, userID int64) (decimal.Decimal, error)
		ListSummaries(ctx context.Context, userID int64, typ core.SummaryType) ([]core.ExpenseSummary, error)
	}

	TransactionRecorder interface {
		Create(ctx context.Context, userID int64, amount decimal.Decimal, date time.Time) (services.CreateResult, error)
		Get(ctx context.Context, id int64) (core.Transaction, error)
		ListByUser(ctx context.Context, userID int64) ([]core.Transaction, error)
		Update(ctx context.Context, id int64, amount decimal.Decimal, date time.Time) (core.Transaction, error)
		Delete(ctx context.Context, id int64) error
	}

	SummaryRunner interface {
		Run(ctx context.Context) (services.RunReport, error)
	}
)

// LRU cache with TTL and size-based eviction
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])

	// Check if expired
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	// Move to front (most recently used)
	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	// Evict if over capacity
	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *lruCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.removeElement(elem)
	}
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries
func (c *lruCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element

	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if now.After(item.expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

type Server struct {
	http.Server
	users       UserStore
	txs         TransactionRecorder
	summaryJob  SummaryRunner
	rateLimiter *rateLimiter

	// Read-side cache for user lookups; invalidated on limit updates.
	userCache *lruCache[core.User]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, users UserStore, txs TransactionRecorder, summaryJob SummaryRunner) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		users:            users,
		txs:              txs,
		summaryJob:       summaryJob,
		rateLimiter:      newRateLimiter(),
		userCache:        newLRUCache[core.User](500, time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("POST /api/users", s.withMiddleware(s.handleCreateUser))
	mux.HandleFunc("GET /api/users", s.withMiddleware(s.handleListUsers))
	mux.HandleFunc("GET /api/users/{id}", s.withMiddleware(s.handleGetUser))
	mux.HandleFunc("PUT /api/users/{id}/limits", s.withMiddleware(s.handleUpdateLimits))
	mux.HandleFunc("GET /api/users/{id}/total-expenses", s.withMiddleware(s.handleTotalExpenses))
	mux.HandleFunc("GET /api/users/{id}/summaries", s.withMiddleware(s.handleListSummaries))
	mux.HandleFunc("GET /api/users/{id}/transactions", s.withMiddleware(s.handleListTransactions))

	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.withMiddleware(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withMiddleware(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))

	mux.HandleFunc("POST /api/summary-run", s.withMiddleware(s.handleSummaryRun))

	return s
}

// startCacheCleanup runs periodic cleanup for the user cache
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.userCache.CleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
