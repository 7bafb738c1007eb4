package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	commitDiffTTL     = 10 * time.Minute
	commitDiffCleanup = 15 * time.Minute
)

// CommitDiffCache keeps recently viewed commit diffs. A commit's patch
// never changes, so entries are only evicted by age.
type CommitDiffCache struct {
	c *cache.Cache
}

// NewCommitDiffCache creates an empty cache.
func NewCommitDiffCache() *CommitDiffCache {
	return &CommitDiffCache{c: cache.New(commitDiffTTL, commitDiffCleanup)}
}

// Get returns the cached diff of hash.
func (d *CommitDiffCache) Get(hash string) (string, bool) {
	if d == nil || hash == "" {
		return "", false
	}
	v, ok := d.c.Get(hash)
	if !ok {
		return "", false
	}
	text, ok := v.(string)
	return text, ok
}

// Set stores the diff of hash.
func (d *CommitDiffCache) Set(hash, diff string) {
	if d == nil || hash == "" {
		return
	}
	d.c.SetDefault(hash, diff)
}
