package ptr

import (
	"net"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// DefaultTTL is how long a resolved PTR record stays cached
const DefaultTTL = 10 * time.Minute

// PtrManager handles PTR lookups with an expiring cache
type PtrManager struct {
	cache      *ttlcache.Cache[string, string]
	lookupFunc func(ip string) ([]string, error)
	retries    int
	retryDelay time.Duration
}

// NewPtrManager creates a new PtrManager
func NewPtrManager() *PtrManager {
	return &PtrManager{
		cache:      ttlcache.New(ttlcache.WithTTL[string, string](DefaultTTL)),
		lookupFunc: net.LookupAddr,
		retries:    3,
		retryDelay: 100 * time.Millisecond,
	}
}

// RequestPTR looks up the PTR record for ip unless it is cached or already in progress
func (pm *PtrManager) RequestPTR(ip string) {
	// An empty value marks the lookup as in progress
	if _, found := pm.cache.GetOrSet(ip, ""); found {
		return
	}
	for attempt := range pm.retries {
		names, err := pm.lookupFunc(ip)
		if err == nil && len(names) > 0 {
			pm.cache.Set(ip, normalizePTR(names[0]), ttlcache.DefaultTTL)
			return
		}
		if attempt < pm.retries-1 {
			time.Sleep(pm.retryDelay)
		}
	}
}

// GetPTR retrieves the cached PTR result for the given IP address
// Returns the PTR and a boolean indicating if it was found
func (pm *PtrManager) GetPTR(ip string) (string, bool) {
	item := pm.cache.Get(ip)
	if item == nil || item.Value() == "" {
		return "", false
	}
	return item.Value(), true
}

// normalizePTR removes the trailing dot of a fully qualified name
func normalizePTR(name string) string {
	return strings.TrimSuffix(name, ".")
}
