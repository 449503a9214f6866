package config

import (
	"time"

	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const RequestIDKey = "requestID"

func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			c.Set(RequestIDKey, id)
		},
	}))
	e.Use(requestLogger())
	e.Use(metrics.Middleware())
	e.Use(middleware.CORS())
}

// requestLogger logs one structured line per request once the response status is known.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				logger.WithRequestID(v.RequestID),
			}
			if v.Latency > time.Second {
				logger.Log.Warn("Slow request", fields...)
				return nil
			}
			if v.Error != nil {
				logger.Log.Info("Request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Log.Info("Request", fields...)
			return nil
		},
	})
}
