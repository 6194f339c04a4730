package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings Postgres and Redis with a short deadline and reports each
// dependency separately, so the terminal can tell "server down" apart from
// "queue down". Responds 503 as soon as either backend fails.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		estadoDB := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			estadoDB = "down"
		}

		estadoRedis := "ok"
		if rdb.Ping(ctx).Err() != nil {
			estadoRedis = "down"
		}

		status := http.StatusOK
		if estadoDB != "ok" || estadoRedis != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    estadoDB,
			"redis": estadoRedis,
		})
	}
}
