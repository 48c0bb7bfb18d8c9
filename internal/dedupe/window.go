// ABOUTME: Bounded, thread-safe record of keys seen within a time window
// ABOUTME: Oldest keys are evicted first once the size limit is reached

package dedupe

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type entry struct {
	key    string
	seenAt time.Time
}

// Window tracks keys seen during the last ttl. The zero value is not usable;
// call New.
type Window struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List // oldest at front
	ttl     time.Duration
	maxSize int
	now     func() time.Time
}

// Option configures a Window.
type Option func(*Window)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(w *Window) { w.now = now }
}

// New creates a window that remembers at most maxSize keys for ttl each.
func New(ttl time.Duration, maxSize int, opts ...Option) *Window {
	if maxSize < 1 {
		maxSize = 1
	}
	w := &Window{
		index:   make(map[string]*list.Element),
		order:   list.New(),
		ttl:     ttl,
		maxSize: maxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Contains reports whether key was added within the window.
func (w *Window) Contains(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.expireLocked(w.now())
	_, ok := w.index[key]
	return ok
}

// Add records key as seen now. Re-adding a live key restarts its window.
func (w *Window) Add(key string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.expireLocked(now)

	if el, ok := w.index[key]; ok {
		el.Value.(*entry).seenAt = now
		w.order.MoveToBack(el)
		return
	}

	if w.order.Len() >= w.maxSize {
		oldest := w.order.Front()
		w.order.Remove(oldest)
		delete(w.index, oldest.Value.(*entry).key)
	}
	w.index[key] = w.order.PushBack(&entry{key: key, seenAt: now})
}

// Len returns the number of keys currently remembered.
func (w *Window) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expireLocked(w.now())
	return w.order.Len()
}

// expireLocked pops expired keys off the front. Entries are appended in
// time order, so the scan stops at the first live one.
func (w *Window) expireLocked(now time.Time) {
	for el := w.order.Front(); el != nil; el = w.order.Front() {
		e := el.Value.(*entry)
		if now.Sub(e.seenAt) < w.ttl {
			return
		}
		w.order.Remove(el)
		delete(w.index, e.key)
	}
}

// Key hashes parts into a fixed-size key. Parts are trimmed and lower-cased
// so trivially different resubmissions collapse to the same key.
func Key(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(strings.ToLower(strings.TrimSpace(p))))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
