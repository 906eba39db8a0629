package mapfiles

import (
	"expvar"
	"fmt"
)

// publishInt returns the named expvar.Int, reusing (and zeroing) an existing
// one since expvar panics on duplicate registration.
func publishInt(name string) *expvar.Int {
	v := expvar.Get(name)
	if v == nil {
		return expvar.NewInt(name)
	}
	if iv, ok := v.(*expvar.Int); ok {
		iv.Set(0)
		return iv
	}
	panic(fmt.Sprintf("expvar: trying to publish Int %s but variable already exists with different type %T", name, v))
}

func publishMap(name string) *expvar.Map {
	v := expvar.Get(name)
	if v == nil {
		return expvar.NewMap(name)
	}
	if mv, ok := v.(*expvar.Map); ok {
		mv.Init()
		return mv
	}
	panic(fmt.Sprintf("expvar: trying to publish Map %s but variable already exists with different type %T", name, v))
}

type metrics struct {
	filesVerified  *expvar.Int
	filesFailed    *expvar.Int
	bytesRead      *expvar.Int
	failuresByKind *expvar.Map
	cacheHits      *expvar.Int
	cacheMisses    *expvar.Int
}

func newMetrics() *metrics {
	return &metrics{
		filesVerified:  publishInt("lotcodec_files_verified_total"),
		filesFailed:    publishInt("lotcodec_files_failed_total"),
		bytesRead:      publishInt("lotcodec_bytes_read_total"),
		failuresByKind: publishMap("lotcodec_failures_by_kind"),
		cacheHits:      publishInt("lotcodec_header_cache_hits_total"),
		cacheMisses:    publishInt("lotcodec_header_cache_misses_total"),
	}
}
