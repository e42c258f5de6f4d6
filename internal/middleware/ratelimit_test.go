package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 2)
	defer rl.Stop()

	r := gin.New()
	r.Use(withPrincipal(nil), rl.LimitMiddleware())
	r.GET("/api/cards/all", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/cards/all", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/cards/all", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, http.MethodGet, "/api/cards/all", nil).Code)
}

func TestRateLimiter_KeysBySubject(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(0.001), 1)
	defer rl.Stop()

	alice := gin.New()
	alice.Use(withPrincipal(&Principal{Subject: "alice"}), rl.LimitMiddleware())
	alice.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	bob := gin.New()
	bob.Use(withPrincipal(&Principal{Subject: "bob"}), rl.LimitMiddleware())
	bob.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(alice, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(alice, http.MethodGet, "/", nil).Code)
	assert.Equal(t, http.StatusOK, serve(bob, http.MethodGet, "/", nil).Code)
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(rate.Limit(1), 1)
	defer rl.Stop()

	rl.getVisitor("ip:10.0.0.1")
	rl.evictIdle(time.Now().Add(visitorIdleTimeout + time.Second))

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.visitors)
}
