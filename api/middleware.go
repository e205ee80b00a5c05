package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"go-atm/models"
)

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// limiter keeps one token bucket per client address.
type limiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*rate.Limiter
}

func newLimiter(limit rate.Limit, burst int) *limiter {
	if burst <= 0 {
		burst = 1
	}
	return &limiter{limit: limit, burst: burst, clients: make(map[string]*rate.Limiter)}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	lim, ok := l.clients[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.clients[key] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

func (l *limiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts, try again later",
				"kind":  "rate_limited",
			})
			return
		}
		c.Next()
	}
}

// requireTurn stops requests from sessions that are not at the head of the
// queue or still owe a first-login password change. The service enforces
// the same rules atomically; this answers early with the right status.
func (s *Server) requireTurn(c *gin.Context) {
	id := c.Param("customerId")
	customer, err := s.svc.Customer(c.Request.Context(), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	if !s.svc.IsMyTurn(id) {
		s.abort(c, models.ErrNotYourTurn)
		return
	}
	if customer.FirstLogin {
		s.abort(c, models.ErrPasswordChangeRequired)
		return
	}
	c.Next()
}
