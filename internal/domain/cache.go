package domain

import "context"

// LinkCache fronts the link store on the resolution and management hot
// paths. Implementations decide the eviction discipline; the in-process
// default is least-recently-used with a fixed capacity.
//
// Records returned by Lookup and GetOrFetch are copies. Mutating one does
// not change the cached entry; writers persist to the store and then call
// Insert to write the updated record back.
type LinkCache interface {
	// Insert adds or overwrites a link at the most-recently-used position,
	// evicting if needed. It never fails.
	Insert(ctx context.Context, link *Link)

	// Lookup returns the cached link for a code, or false. It does not
	// consult the backing store. A non-silent lookup promotes the entry to
	// most-recently-used; a silent one leaves recency order untouched.
	Lookup(ctx context.Context, code string, silent bool) (*Link, bool)

	// Delete removes and returns the cached entry, if present. The backing
	// store is not touched.
	Delete(ctx context.Context, code string) (*Link, bool)

	// GetOrFetch checks the cache first and falls back to the backing
	// store, inserting on a store hit. A miss in both returns
	// ErrLinkNotFound; the absence is not cached.
	GetOrFetch(ctx context.Context, code string, silent bool) (*Link, error)

	// Ping checks that the cache backend is reachable.
	Ping(ctx context.Context) error
}
