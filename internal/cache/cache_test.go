package cache

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type countingMetrics struct {
	hits, misses int64
}

func (m *countingMetrics) IncrementCacheHit()  { atomic.AddInt64(&m.hits, 1) }
func (m *countingMetrics) IncrementCacheMiss() { atomic.AddInt64(&m.misses, 1) }

func TestCacheSetGetExpire(t *testing.T) {
	c := NewCache(20 * time.Millisecond)
	defer c.Close()

	c.Set("k", []byte("v"))
	data, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)
	assert.Equal(t, 1, c.Size())

	time.Sleep(40 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size())
}

func TestCacheKeySeparatesPaths(t *testing.T) {
	body := []byte(`{"a":"1"}`)
	assert.NotEqual(t, Key("/v1/humanity/verify", body), Key("/v1/deception/rating", body))
	assert.Equal(t, Key("/x", body), Key("/x", body))
}

func TestCacheMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	defer c.Close()
	metrics := &countingMetrics{}

	var calls int64
	r := gin.New()
	r.Use(c.Middleware(metrics, "/score"))
	r.POST("/score", func(ctx *gin.Context) {
		atomic.AddInt64(&calls, 1)
		ctx.JSON(http.StatusOK, gin.H{"rating": "15"})
	})
	r.POST("/other", func(ctx *gin.Context) {
		atomic.AddInt64(&calls, 1)
		ctx.JSON(http.StatusOK, gin.H{})
	})

	send := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	first := send("/score", `{"x":1}`)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := send("/score", `{"x":1}`)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))

	send("/score", `{"x":2}`)
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls))

	send("/other", `{"x":1}`)
	send("/other", `{"x":1}`)
	assert.Equal(t, int64(4), atomic.LoadInt64(&calls))

	assert.Equal(t, int64(1), metrics.hits)
	assert.Equal(t, int64(2), metrics.misses)
}

func TestCacheMiddlewareSkipsErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c := NewCache(time.Minute)
	defer c.Close()

	r := gin.New()
	r.Use(c.Middleware(nil, "/score"))
	r.POST("/score", func(ctx *gin.Context) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/score", bytes.NewBufferString(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, c.Size())
}
