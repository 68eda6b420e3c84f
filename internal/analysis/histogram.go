package analysis

import (
	"encoding/json"
	"sort"
	"strings"
)

// Bucket is one histogram entry. Label is the display form of Key.
type Bucket struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Histogram counts records per key. It is built in one scan and never
// mutated afterwards; derive a new one instead.
type Histogram struct {
	buckets []Bucket
	index   map[string]int
	total   int
}

// Count groups items by the verbatim key. Empty keys are skipped.
func Count[T any](items []T, key func(T) string) Histogram {
	return build(items, func(it T) (string, string) {
		k := key(it)
		return k, k
	})
}

// CountFolded groups items case- and whitespace-insensitively and labels each
// bucket with the first spelling seen.
func CountFolded[T any](items []T, name func(T) string) Histogram {
	return build(items, func(it T) (string, string) {
		label := strings.TrimSpace(name(it))
		return Fold(label), label
	})
}

// Fold is the grouping key used by CountFolded.
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func build[T any](items []T, kv func(T) (string, string)) Histogram {
	h := Histogram{index: make(map[string]int)}
	for _, it := range items {
		k, label := kv(it)
		if k == "" {
			continue
		}
		i, ok := h.index[k]
		if !ok {
			i = len(h.buckets)
			h.index[k] = i
			h.buckets = append(h.buckets, Bucket{Key: k, Label: label})
		}
		h.buckets[i].Count++
		h.total++
	}
	return h
}

// Buckets returns a copy of the buckets in first-seen order.
func (h Histogram) Buckets() []Bucket {
	return append([]Bucket(nil), h.buckets...)
}

// Sorted returns the buckets by descending count. Ties keep first-seen order.
func (h Histogram) Sorted() []Bucket {
	out := h.Buckets()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Top returns at most n buckets of Sorted; n <= 0 means all.
func (h Histogram) Top(n int) []Bucket {
	out := h.Sorted()
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Get returns the count for key.
func (h Histogram) Get(key string) int {
	if i, ok := h.index[key]; ok {
		return h.buckets[i].Count
	}
	return 0
}

// Len is the number of distinct keys.
func (h Histogram) Len() int { return len(h.buckets) }

// Total is the number of counted items.
func (h Histogram) Total() int { return h.total }

// Leader returns the top bucket, if any.
func (h Histogram) Leader() (Bucket, bool) {
	top := h.Top(1)
	if len(top) == 0 {
		return Bucket{}, false
	}
	return top[0], true
}

// Without returns a new histogram lacking the given keys, compared after
// folding.
func (h Histogram) Without(keys ...string) Histogram {
	drop := make(map[string]bool, len(keys))
	for _, k := range keys {
		drop[Fold(k)] = true
	}
	out := Histogram{index: make(map[string]int)}
	for _, b := range h.buckets {
		if drop[Fold(b.Key)] {
			continue
		}
		out.index[b.Key] = len(out.buckets)
		out.buckets = append(out.buckets, b)
		out.total += b.Count
	}
	return out
}

// MarshalJSON emits the ranked buckets.
func (h Histogram) MarshalJSON() ([]byte, error) {
	b := h.Sorted()
	if b == nil {
		b = []Bucket{}
	}
	return json.Marshal(b)
}

// MarshalYAML emits the ranked buckets.
func (h Histogram) MarshalYAML() (interface{}, error) {
	return h.Sorted(), nil
}
