package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/kv"
	"github.com/pratyushashukla/IP-BE/metrics"
)

// Cache is the cache-aside layer for listing routes: read-through on
// GETs, explicit key invalidation on mutations. The kv store is
// best-effort; any fault degrades to a miss and the request proceeds.
type Cache struct {
	kv kv.KeyValueStore
}

func NewCache(store kv.KeyValueStore) *Cache {
	return &Cache{kv: store}
}

// Page serves the route from cache when possible. On a miss the handler
// runs and its 200 response body is stored under key for the next read.
func (m *Cache) Page(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cached, err := m.kv.Get(c.Request.Context(), key)
		if err == nil {
			metrics.CacheEvent("hit")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}
		if !errors.Is(err, kv.ErrKeyMiss) {
			metrics.CacheEvent("error")
			slog.Warn("cache read failed, serving uncached", "error", err, "key", key)
		} else {
			metrics.CacheEvent("miss")
		}

		writer := &captureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()

		if writer.Status() != http.StatusOK {
			return
		}
		if err := m.kv.Set(c.Request.Context(), key, writer.body.String(), 0); err != nil {
			metrics.CacheEvent("error")
			slog.Warn("cache fill failed", "error", err, "key", key)
			return
		}
		metrics.CacheEvent("fill")
	}
}

// Invalidate deletes the exact cache keys a mutating route renders
// stale, before the handler runs, so an acknowledged write is never
// followed by a stale read.
func (m *Cache) Invalidate(keys ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, key := range keys {
			if err := m.kv.Del(c.Request.Context(), key); err != nil {
				metrics.CacheEvent("error")
				slog.Warn("cache invalidation failed", "error", err, "key", key)
				continue
			}
			metrics.CacheEvent("invalidate")
		}
		c.Next()
	}
}

// captureWriter tees the response body so a successful listing can be
// stored after the handler completes.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
