// Package cache implements the offline cache manager.
//
// The manager fronts every outgoing HTTP request the client makes,
// classifies it into a route and serves a best-effort response: cache-first
// for immutable static assets, network-first for API calls and pages, and a
// synthesized offline response when neither network nor cache has an answer.
// Entries live in named partitions tagged with the deployed cache version so
// a new client release never reads a stale generation.
package cache

import (
	"net/http"
	"time"
)

// Partition kinds. The full partition name embeds the version,
// e.g. "static-v3".
const (
	PartitionStatic  = "static"
	PartitionDynamic = "dynamic"
	PartitionAPI     = "api"
)

// Entry is a stored response.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"stored_at"`
}

// Store is the cache storage backend.
//
// Get returns errors.ErrCacheMiss (wrapped) when no entry exists.
// Implementations must be safe for concurrent use: the manager issues
// fire-and-forget writes from goroutines while reads are in flight.
type Store interface {
	Get(partition, key string) (*Entry, error)
	Put(partition, key string, e *Entry) error
	Delete(partition, key string) error
	// DeletePartition removes a partition and all its entries.
	DeletePartition(partition string) error
	// Partitions lists the names of all partitions that hold entries.
	Partitions() ([]string, error)
	// Len reports the number of entries in a partition.
	Len(partition string) (int, error)
	Close() error
}

// PartitionName builds a version-tagged partition name.
func PartitionName(kind, version string) string {
	return kind + "-" + version
}
