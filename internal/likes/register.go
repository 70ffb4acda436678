// Package likes records which projects a visitor has liked and keeps a
// per-visitor counter for each project. A project can be liked at most once
// per visitor scope; there is no unlike.
package likes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

var ErrStorageUnavailable = errors.New("like storage unavailable")

const (
	likedKey      = "likedProjects"
	anonymous     = "anonymous"
	scopeSep      = ":"
	countPrefix   = "project_"
	countSuffix   = "_likes"
	totalsPattern = "*" + scopeSep + countPrefix + "*" + countSuffix
)

// Record is the like state of one item for one visitor scope.
type Record struct {
	ItemID int  `json:"itemId"`
	Liked  bool `json:"liked"`
	Count  int  `json:"count"`
}

// Outcome is the result of Like. Celebrate is true only when this call
// performed the first like.
type Outcome struct {
	Record    Record `json:"record"`
	Celebrate bool   `json:"celebrate"`
}

// Observer receives like events. It is how the register reports to metrics.
type Observer interface {
	LikeRecorded(itemID int)
	StorageDegraded()
}

type Option func(*Register)

func WithLogger(l *zap.Logger) Option {
	return func(r *Register) { r.logger = l }
}

func WithFallback(s KeyValueStore) Option {
	return func(r *Register) { r.fallback = s }
}

func WithObserver(o Observer) Option {
	return func(r *Register) { r.observer = o }
}

// Register reads and writes like state through a KeyValueStore. When the
// store fails it switches to the fallback store for the rest of the process
// and never reports the failure to callers.
type Register struct {
	store    KeyValueStore
	fallback KeyValueStore
	logger   *zap.Logger
	observer Observer
	degraded atomic.Bool

	// mu makes Like's read-modify-write atomic.
	mu sync.Mutex
}

func NewRegister(store KeyValueStore, opts ...Option) *Register {
	r := &Register{store: store}
	for _, opt := range opts {
		opt(r)
	}
	if r.fallback == nil {
		r.fallback = NewMemoryStore()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.store == nil {
		r.degraded.Store(true)
	}
	return r
}

// Degraded reports whether the register has fallen back to session-only
// storage.
func (r *Register) Degraded() bool {
	return r.degraded.Load()
}

// IsLiked reports whether scope has liked itemID.
func (r *Register) IsLiked(scope string, itemID int) bool {
	return r.likedSet(scope)[strconv.Itoa(itemID)]
}

// Count returns the stored counter for itemID in scope, zero when absent.
func (r *Register) Count(scope string, itemID int) int {
	key := CountKey(scope, itemID)
	raw, ok := r.get(key)
	if !ok {
		return 0
	}
	var n int
	if err := json.Unmarshal([]byte(raw), &n); err != nil || n < 0 {
		r.logger.Warn("ignoring malformed like counter", zap.String("key", key), zap.String("value", raw))
		return 0
	}
	return n
}

// Get returns the record for itemID in scope.
func (r *Register) Get(scope string, itemID int) Record {
	return Record{ItemID: itemID, Liked: r.IsLiked(scope, itemID), Count: r.Count(scope, itemID)}
}

// Like marks itemID liked for scope. Liking an already liked item returns the
// stored record unchanged.
func (r *Register) Like(scope string, itemID int) Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	liked := r.likedSet(scope)
	id := strconv.Itoa(itemID)
	if liked[id] {
		return Outcome{Record: Record{ItemID: itemID, Liked: true, Count: r.Count(scope, itemID)}}
	}

	liked[id] = true
	encoded, _ := json.Marshal(liked)
	r.set(LikedKey(scope), string(encoded))

	count := r.Count(scope, itemID) + 1
	r.set(CountKey(scope, itemID), strconv.Itoa(count))

	r.logger.Debug("project liked", zap.String("scope", scope), zap.Int("item_id", itemID), zap.Int("count", count))
	if r.observer != nil {
		r.observer.LikeRecorded(itemID)
	}
	return Outcome{Record: Record{ItemID: itemID, Liked: true, Count: count}, Celebrate: true}
}

func (r *Register) likedSet(scope string) map[string]bool {
	set := make(map[string]bool)
	key := LikedKey(scope)
	raw, ok := r.get(key)
	if !ok {
		return set
	}
	if err := json.Unmarshal([]byte(raw), &set); err != nil {
		r.logger.Warn("ignoring malformed liked set", zap.String("key", key), zap.Error(err))
		return make(map[string]bool)
	}
	return set
}

func (r *Register) active() KeyValueStore {
	if r.degraded.Load() {
		return r.fallback
	}
	return r.store
}

func (r *Register) get(key string) (string, bool) {
	v, ok, err := r.active().Get(key)
	if err == nil {
		return v, ok
	}
	r.degrade(err)
	v, ok, _ = r.fallback.Get(key)
	return v, ok
}

func (r *Register) set(key, value string) {
	err := r.active().Set(key, value)
	if err == nil {
		return
	}
	r.degrade(err)
	_ = r.fallback.Set(key, value)
}

func (r *Register) degrade(err error) {
	if r.degraded.CompareAndSwap(false, true) {
		r.logger.Warn("like storage failed, keeping likes for this session only",
			zap.Error(fmt.Errorf("%w: %v", ErrStorageUnavailable, err)))
		if r.observer != nil {
			r.observer.StorageDegraded()
		}
	}
}

// LikedKey is the key of the liked-projects set for scope.
func LikedKey(scope string) string {
	return normalizeScope(scope) + scopeSep + likedKey
}

// CountKey is the key of the counter for itemID in scope.
func CountKey(scope string, itemID int) string {
	return normalizeScope(scope) + scopeSep + countPrefix + strconv.Itoa(itemID) + countSuffix
}

func normalizeScope(scope string) string {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		return anonymous
	}
	return scopeEscaper.Replace(scope)
}

var scopeEscaper = strings.NewReplacer(scopeSep, "_", "/", "_", "*", "_")

// Totals sums every scope's counter per item.
func Totals(s Scanner) (map[int]int, error) {
	entries, err := s.Scan(totalsPattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	totals := make(map[int]int)
	for key, raw := range entries {
		name := key[strings.LastIndex(key, scopeSep)+1:]
		idPart := strings.TrimSuffix(strings.TrimPrefix(name, countPrefix), countSuffix)
		id, err := strconv.Atoi(idPart)
		if err != nil {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			continue
		}
		totals[id] += n
	}
	return totals, nil
}
