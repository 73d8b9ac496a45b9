package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"
)

// IdempotencyStore keeps replayed responses for requests that must not run
// twice: a retried club join must not add two memberships, and a retried
// merge response must not be counted as a second acceptance.
type IdempotencyStore struct {
	mu       sync.RWMutex
	entries  map[string]*idempotencyEntry
	ttl      time.Duration
	stopChan chan struct{}
}

type idempotencyEntry struct {
	status    int
	headers   http.Header
	body      []byte
	expiresAt time.Time
	inFlight  bool
	done      chan struct{}
}

// IdempotencyConfig holds configuration for idempotency middleware
type IdempotencyConfig struct {
	TTL     time.Duration // how long a cached response stays replayable (default 24h)
	Cleanup time.Duration // sweep interval for expired entries (default 1h)
}

// NewIdempotencyStore creates a store and starts its cleanup sweeper
func NewIdempotencyStore(cfg IdempotencyConfig) *IdempotencyStore {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = time.Hour
	}

	store := &IdempotencyStore{
		entries:  make(map[string]*idempotencyEntry),
		ttl:      cfg.TTL,
		stopChan: make(chan struct{}),
	}

	go store.cleanupLoop(cfg.Cleanup)

	return store
}

// Stop stops the cleanup goroutine
func (s *IdempotencyStore) Stop() {
	close(s.stopChan)
}

func (s *IdempotencyStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopChan:
			return
		}
	}
}

func (s *IdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.entries {
		if entry.expiresAt.Before(now) && !entry.inFlight {
			delete(s.entries, key)
		}
	}
}

// generateKey fingerprints the caller and the request. Binding the user and
// the full request shape means the same Idempotency-Key sent with a
// different body or path is a fresh request, not a replay.
func generateKey(userID, idempotencyKey, method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(userID))
	h.Write([]byte(idempotencyKey))
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// idempotencyResponseWriter tees the response into a buffer so a later
// replay can serve the identical status and body
type idempotencyResponseWriter struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (w *idempotencyResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *idempotencyResponseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency returns middleware that honors Idempotency-Key on POST and
// PATCH requests. The first request with a given key runs; concurrent
// duplicates wait for it and every later duplicate gets the stored response
// with X-Idempotency-Replayed set.
func Idempotency(store *IdempotencyStore) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost && r.Method != http.MethodPatch {
				next.ServeHTTP(w, r)
				return
			}

			// Opt-in; requests without the header run normally
			idempotencyKey := r.Header.Get("Idempotency-Key")
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID := GetUserID(r.Context())
			if userID == "" {
				userID = r.RemoteAddr // unauthenticated callers keyed by address
			}

			// The body is part of the fingerprint; restore it for the handler
			body, err := io.ReadAll(r.Body)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			key := generateKey(userID, idempotencyKey, r.Method, r.URL.Path, body)

			store.mu.Lock()
			entry, exists := store.entries[key]

			if exists {
				if entry.inFlight {
					// The original request is still running; wait it out
					store.mu.Unlock()
					<-entry.done

					store.mu.RLock()
					entry = store.entries[key]
					store.mu.RUnlock()

					if entry != nil && !entry.inFlight {
						for k, v := range entry.headers {
							for _, val := range v {
								w.Header().Add(k, val)
							}
						}
						w.Header().Set("X-Idempotency-Replayed", "true")
						w.WriteHeader(entry.status)
						_, _ = w.Write(entry.body)
						return
					}
				} else if entry.expiresAt.After(time.Now()) {
					store.mu.Unlock()
					for k, v := range entry.headers {
						for _, val := range v {
							w.Header().Add(k, val)
						}
					}
					w.Header().Set("X-Idempotency-Replayed", "true")
					w.WriteHeader(entry.status)
					_, _ = w.Write(entry.body)
					return
				}
			}

			// First time through; mark the key in-flight before running
			entry = &idempotencyEntry{
				inFlight: true,
				done:     make(chan struct{}),
			}
			store.entries[key] = entry
			store.mu.Unlock()

			irw := &idempotencyResponseWriter{
				ResponseWriter: w,
				status:         http.StatusOK,
			}

			next.ServeHTTP(irw, r)

			// Store the response and release any waiting duplicates
			store.mu.Lock()
			entry.status = irw.status
			entry.headers = irw.Header().Clone()
			entry.body = irw.body.Bytes()
			entry.expiresAt = time.Now().Add(store.ttl)
			entry.inFlight = false
			close(entry.done)
			store.mu.Unlock()
		})
	}
}
