package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/pratyushashukla/IP-BE/kv"
	"github.com/stretchr/testify/require"
)

type cacheFixture struct {
	router *gin.Engine
	redis  *miniredis.Miniredis
	hits   *int
}

// newCacheFixture wires a listing GET behind Page and a POST behind
// Invalidate, both over a real redis protocol via miniredis.
func newCacheFixture(t *testing.T) *cacheFixture {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := kv.NewRedisKV(mr.Addr(), "", 0)
	require.NoError(t, err)

	cache := NewCache(store)

	hits := 0
	r := gin.New()
	r.GET("/inmates", cache.Page("cache:inmates"), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"inmates": []string{fmt.Sprintf("generation-%d", hits)}})
	})
	r.POST("/inmates", cache.Invalidate("cache:inmates"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"message": "Record created successfully"})
	})
	r.GET("/broken", cache.Page("cache:broken"), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusInternalServerError, gin.H{"message": "boom"})
	})

	return &cacheFixture{router: r, redis: mr, hits: &hits}
}

func (f *cacheFixture) do(method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestCache_ReadThrough(t *testing.T) {
	f := newCacheFixture(t)

	first := f.do(http.MethodGet, "/inmates")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, 1, *f.hits)

	// repeated reads between mutations are served from cache,
	// byte-identical, without invoking the handler
	second := f.do(http.MethodGet, "/inmates")
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, 1, *f.hits)
	require.Equal(t, first.Body.Bytes(), second.Body.Bytes())
}

func TestCache_MutationInvalidates(t *testing.T) {
	f := newCacheFixture(t)

	first := f.do(http.MethodGet, "/inmates")
	require.Equal(t, 1, *f.hits)

	post := f.do(http.MethodPost, "/inmates")
	require.Equal(t, http.StatusCreated, post.Code)
	require.False(t, f.redis.Exists("cache:inmates"))

	// next read recomputes fresh data
	third := f.do(http.MethodGet, "/inmates")
	require.Equal(t, 2, *f.hits)
	require.NotEqual(t, first.Body.Bytes(), third.Body.Bytes())
}

func TestCache_OutageDegradesToMiss(t *testing.T) {
	f := newCacheFixture(t)
	f.redis.Close()

	// cache unavailability never fails the request
	w := f.do(http.MethodGet, "/inmates")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 1, *f.hits)

	w = f.do(http.MethodGet, "/inmates")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, *f.hits)
}

func TestCache_NonOKResponsesAreNotCached(t *testing.T) {
	f := newCacheFixture(t)

	f.do(http.MethodGet, "/broken")
	f.do(http.MethodGet, "/broken")
	require.Equal(t, 2, *f.hits)
	require.False(t, f.redis.Exists("cache:broken"))
}

func TestCache_InvalidateOutageDoesNotFailMutation(t *testing.T) {
	f := newCacheFixture(t)
	f.redis.Close()

	w := f.do(http.MethodPost, "/inmates")
	require.Equal(t, http.StatusCreated, w.Code)
}
