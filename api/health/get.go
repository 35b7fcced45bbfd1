package health

import (
	"net/http"

	"github.com/gomantics/repotracker/api/web"
	"github.com/gomantics/repotracker/db"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// GetResponse is the health check response
type GetResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

func Configure(e *echo.Echo, l *zap.Logger, cn *db.Connector) {
	e.GET("/v1/health", web.Wrap(get(cn), l))
}

// get handles GET /v1/health
func get(cn *db.Connector) web.HandlerFunc {
	return func(c web.Context) error {
		ctx := c.Request().Context()

		dbStatus := "ok"
		client, err := cn.Open(ctx)
		if err == nil {
			err = client.CheckAlive(ctx)
			client.Close()
		}
		if err != nil {
			c.L.Warn("database health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, GetResponse{
				Status:   "degraded",
				Database: "error",
			})
		}

		return c.OK(GetResponse{
			Status:   "ok",
			Database: dbStatus,
		})
	}
}
