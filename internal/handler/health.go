package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const healthPingTimeout = 3 * time.Second

// Health reports readiness: postgres and redis are pinged with a short
// timeout, and the SMTP circuit breaker state is included so operators can
// see a tripped mail relay without digging through worker logs. The breaker
// state is informational only; a dead relay does not fail the check because
// mail is queued and retried asynchronously.
func Health(db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		checks := gin.H{
			"postgres":     pingPostgres(ctx, db),
			"redis":        pingRedis(ctx, rdb),
			"smtp_breaker": mailer.CircuitState(),
		}

		status := http.StatusOK
		if checks["postgres"] != "up" || checks["redis"] != "up" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":     status == http.StatusOK,
			"checks": checks,
		})
	}
}

func pingPostgres(ctx context.Context, db *gorm.DB) string {
	if db == nil {
		return "down"
	}
	sqlDB, err := db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		return "down"
	}
	return "up"
}

func pingRedis(ctx context.Context, rdb *redis.Client) string {
	if rdb == nil {
		return "down"
	}
	if rdb.Ping(ctx).Err() != nil {
		return "down"
	}
	return "up"
}
