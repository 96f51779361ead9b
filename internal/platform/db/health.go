package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// StoreStatus describes the record-store connection pool at probe time.
type StoreStatus struct {
	OpenConns   int32  `json:"open_conns"`
	IdleConns   int32  `json:"idle_conns"`
	BusyConns   int32  `json:"busy_conns"`
	MaxConns    int32  `json:"max_conns"`
	Acquires    int64  `json:"acquires"`
	AcquireWait string `json:"acquire_wait"`
}

// HealthReport is the body of GET /health. Status is "ok" when the record
// store answered the probe, "degraded" when it did not.
type HealthReport struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Store  StoreStatus `json:"store"`
}

func buildReport(st StoreStatus, probeErr error) HealthReport {
	if probeErr != nil {
		return HealthReport{Status: "degraded", Error: probeErr.Error(), Store: st}
	}
	return HealthReport{Status: "ok", Store: st}
}

func storeStatus(pool *pgxpool.Pool) StoreStatus {
	stat := pool.Stat()
	return StoreStatus{
		OpenConns:   stat.TotalConns(),
		IdleConns:   stat.IdleConns(),
		BusyConns:   stat.AcquiredConns(),
		MaxConns:    stat.MaxConns(),
		Acquires:    stat.AcquireCount(),
		AcquireWait: stat.AcquireDuration().String(),
	}
}

const healthProbeTimeout = 5 * time.Second

// HealthHandler serves the liveness endpoint. A degraded store answers 503
// so load balancers stop routing before requests start failing deeper in.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
		defer cancel()

		report := buildReport(storeStatus(pool), pool.Ping(ctx))
		code := http.StatusOK
		if report.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, report)
	}
}
