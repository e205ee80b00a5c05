// Package api exposes the ATM service over HTTP with gin.
package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"go-atm/atm"
	"go-atm/input"
	"go-atm/telemetry"
)

// Config tunes the HTTP surface.
type Config struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
	// LoginRate is the sustained number of login attempts allowed per
	// client address. Zero disables throttling.
	LoginRate  rate.Limit
	LoginBurst int
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

// Server routes HTTP requests to the service.
type Server struct {
	svc    *atm.Service
	log    *slog.Logger
	cfg    Config
	engine *gin.Engine
}

var registerRules sync.Once

// New builds the gin engine and registers every route.
func New(svc *atm.Service, cfg Config, log *slog.Logger) *Server {
	if log == nil {
		log = telemetry.Discard()
	}
	registerRules.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := input.RegisterRules(v); err != nil {
				log.Error("register validation rules", "error", err)
			}
		}
	})

	s := &Server{svc: svc, log: log, cfg: cfg}

	// Logger and Recovery middleware
	r := gin.Default()
	r.Use(requestID())
	if c, ok := corsConfig(cfg.CORSOrigins); ok {
		r.Use(cors.New(c))
	}
	if cfg.RequestTimeout > 0 {
		r.Use(timeout(cfg.RequestTimeout))
	}

	r.GET("/health", s.health)
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics))
	}

	api := r.Group("/api")
	api.GET("/status", s.status)
	api.POST("/customers", s.createCustomer)
	api.GET("/customers/:customerId", s.getCustomer)
	api.PUT("/customers/:customerId/password", s.changePassword)
	api.GET("/customers/:customerId/turn", s.turn)

	login := []gin.HandlerFunc{s.login}
	if cfg.LoginRate > 0 {
		login = append([]gin.HandlerFunc{newLimiter(cfg.LoginRate, cfg.LoginBurst).middleware()}, login...)
	}
	api.POST("/sessions", login...)
	api.DELETE("/sessions/:customerId", s.logout)

	turn := api.Group("/customers/:customerId", s.requireTurn)
	turn.GET("/balances", s.getBalances)
	turn.POST("/withdrawals", s.withdraw)
	turn.POST("/transfers", s.transfer)

	s.engine = r
	return s
}

// Handler returns the routed engine
func (s *Server) Handler() http.Handler {
	return s.engine
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
