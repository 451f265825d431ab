package config

import (
	"fmt"
	"time"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// RateLimitKey returns the counter key for a client IP in the window that
// contains now.
func (r *CacheKeyStruct) RateLimitKey(clientIP string, window time.Duration, now time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", clientIP, now.Unix()/int64(window/time.Second))
}

var CacheKey = NewCacheKeyStruct()
