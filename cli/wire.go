package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"go-atm/api"
	"go-atm/atm"
	"go-atm/config"
	"go-atm/credentials"
	"go-atm/gate"
	"go-atm/models"
	"go-atm/store"
	"go-atm/telemetry"
)

// app is the set of components built from one configuration.
type app struct {
	service *atm.Service
	metrics http.Handler
}

func build(cfg config.Config, log *slog.Logger) *app {
	var (
		metrics *telemetry.Metrics
		handler http.Handler
	)
	if cfg.Telemetry.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = telemetry.NewMetrics(reg)
		handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	ledger := store.NewLedger(cfg.Bank.MaxCustomers)
	engine := atm.NewEngine(ledger, rulesFrom(cfg.Rules))
	svc := atm.NewService(
		credentials.NewPool(credentials.DefaultSeed(cfg.Bank.CredentialPoolSize)),
		ledger,
		gate.New(),
		engine,
		atm.Options{
			Opening: &models.Balances{
				Savings: decimal.NewFromFloat(cfg.Bank.StartingSavings),
				Current: decimal.NewFromFloat(cfg.Bank.StartingCurrent),
			},
			Metrics: metrics,
			Logger:  log,
		},
	)
	return &app{service: svc, metrics: handler}
}

func rulesFrom(cfg config.RulesConfig) atm.Rules {
	return atm.Rules{
		Savings: atm.Rule{
			MinBalance: decimal.NewFromFloat(cfg.Savings.MinBalance),
			Penalty:    decimal.NewFromFloat(cfg.Savings.Penalty),
		},
		Current: atm.Rule{
			MinBalance: decimal.NewFromFloat(cfg.Current.MinBalance),
			Penalty:    decimal.NewFromFloat(cfg.Current.Penalty),
		},
	}
}

func apiConfig(cfg config.Config, metrics http.Handler) (api.Config, error) {
	timeout, err := cfg.HTTP.Timeout()
	if err != nil {
		return api.Config{}, err
	}
	var limit rate.Limit
	if cfg.HTTP.LoginRatePerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.HTTP.LoginRatePerMinute))
	}
	return api.Config{
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		RequestTimeout: timeout,
		LoginRate:      limit,
		LoginBurst:     cfg.HTTP.LoginBurst,
		Metrics:        metrics,
	}, nil
}
