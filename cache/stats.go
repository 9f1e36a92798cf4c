package cache

import "fmt"

// Stats is a snapshot of cache statistics.
type Stats struct {
	// Len is the number of entries in both generations.
	Len int

	// Current is the number of entries used since the last Trim.
	Current int

	// Previous is the number of entries the next Trim would drop.
	Previous int

	Hits      uint64
	Misses    uint64
	HitRate   float64
	Evictions uint64
	Trims     uint64
}

// String returns a one-line summary.
func (s Stats) String() string {
	return fmt.Sprintf("len=%d (current=%d previous=%d) hits=%d misses=%d hit_rate=%.2f evictions=%d trims=%d",
		s.Len, s.Current, s.Previous, s.Hits, s.Misses, s.HitRate, s.Evictions, s.Trims)
}
