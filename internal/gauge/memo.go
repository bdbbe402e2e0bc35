package gauge

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jwulff/gauge-go/internal/domain"
	"github.com/jwulff/gauge-go/internal/theme"
)

// DefaultMemoSize is the number of layouts a Memo keeps by default.
const DefaultMemoSize = 256

// Memo caches layouts keyed by a structural hash of their inputs. Entries are
// never refreshed implicitly; callers invalidate them when inputs they do not
// hash (such as a stored panel) change.
type Memo struct {
	cache    *lru.Cache[uint64, Layout]
	measurer TextMeasurer
	hits     atomic.Uint64
	misses   atomic.Uint64
	onEvict  atomic.Pointer[func(key uint64)]
}

// NewMemo creates a memo holding at most size layouts.
func NewMemo(size int, m TextMeasurer) (*Memo, error) {
	if size <= 0 {
		size = DefaultMemoSize
	}
	if m == nil {
		m = NewFontMeasurer()
	}
	memo := &Memo{measurer: m}
	cache, err := lru.NewWithEvict(size, func(key uint64, _ Layout) {
		if fn := memo.onEvict.Load(); fn != nil {
			(*fn)(key)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create layout cache: %w", err)
	}
	memo.cache = cache
	return memo, nil
}

// OnEvict registers fn to be called with the key of every entry that leaves
// the memo, whether by eviction, Invalidate or Purge. fn runs outside the
// cache lock and replaces any earlier callback.
func (m *Memo) OnEvict(fn func(key uint64)) {
	m.onEvict.Store(&fn)
}

type memoKey struct {
	Options domain.GaugeOptions `json:"o"`
	Field   domain.FieldDisplay `json:"f"`
	Theme   *theme.Theme        `json:"t"`
}

// Key returns the structural hash of a layout's inputs after defaults are applied.
func Key(opts domain.GaugeOptions, fd domain.FieldDisplay, th *theme.Theme) uint64 {
	opts.ApplyDefaults()
	data, err := json.Marshal(memoKey{Options: opts, Field: fd, Theme: th})
	if err != nil {
		// only NaN/Inf values fail to marshal; fall back to the formatted struct
		data = []byte(fmt.Sprintf("%#v|%#v|%#v", opts, fd, *th))
	}
	return xxhash.Sum64(data)
}

// Layout returns the cached layout for the inputs, building it on a miss.
// The boolean reports whether the result came from the cache.
func (m *Memo) Layout(opts domain.GaugeOptions, fd domain.FieldDisplay, th *theme.Theme) (Layout, uint64, bool) {
	key := Key(opts, fd, th)
	if l, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		return l, key, true
	}
	m.misses.Add(1)
	l := BuildLayout(opts, fd, th, m.measurer)
	m.cache.Add(key, l)
	return l, key, false
}

// Invalidate drops one entry and reports whether it was present.
func (m *Memo) Invalidate(key uint64) bool {
	return m.cache.Remove(key)
}

// Contains reports whether key is cached, without touching its recency.
func (m *Memo) Contains(key uint64) bool {
	return m.cache.Contains(key)
}

// Purge drops every entry.
func (m *Memo) Purge() {
	m.cache.Purge()
}

// Len returns the number of cached layouts.
func (m *Memo) Len() int {
	return m.cache.Len()
}

// Stats returns the hit and miss counts since creation.
func (m *Memo) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}
