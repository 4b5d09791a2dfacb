package cache

import (
	"time"

	timecache "github.com/agilira/go-timecache"
)

// Clock provides the current time to the store. Expiry checks run on
// every read, so the default implementation uses go-timecache's cached
// wall clock instead of calling time.Now on the hot path.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Unix(0, timecache.CachedTimeNano())
}
