package engine

// EvalEntry stores a cached static evaluation.
type EvalEntry struct {
	Key   uint64
	Score int32
	Valid bool
}

// EvalCache is a hash table for caching static evaluations by position key.
type EvalCache struct {
	entries []EvalEntry
	mask    uint64
}

// NewEvalCache creates a new evaluation cache with the given size in MB.
func NewEvalCache(sizeMB int) *EvalCache {
	// Each entry is 16 bytes (8 + 4 + 1, padded), round to power of 2
	entrySize := 16
	numEntries := (sizeMB * 1024 * 1024) / entrySize

	// Round down to power of 2
	size := 1
	for size*2 <= numEntries {
		size *= 2
	}

	return &EvalCache{
		entries: make([]EvalEntry, size),
		mask:    uint64(size - 1),
	}
}

// Probe looks up an evaluation in the cache.
func (ec *EvalCache) Probe(key uint64) (int, bool) {
	entry := &ec.entries[key&ec.mask]
	if entry.Valid && entry.Key == key {
		return int(entry.Score), true
	}
	return 0, false
}

// Store saves an evaluation in the cache, replacing whatever shared its bucket.
func (ec *EvalCache) Store(key uint64, score int) {
	entry := &ec.entries[key&ec.mask]
	entry.Key = key
	entry.Score = int32(score)
	entry.Valid = true
}

// Len returns the number of buckets.
func (ec *EvalCache) Len() int {
	return len(ec.entries)
}

// Clear clears the cache.
func (ec *EvalCache) Clear() {
	for i := range ec.entries {
		ec.entries[i] = EvalEntry{}
	}
}
