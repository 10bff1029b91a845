package main

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/cache"
	"github.com/vishruthp2003/KodnestF2FVersion/pkg/response"
	"go.uber.org/zap"
)

func (app *application) routes() http.Handler {
	if app.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(app.Metrics.Middleware())

	// simple logger middleware that uses zap
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Info("http",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})

	r.Use(app.CORSMiddleware())

	r.GET("/healthz", app.healthz)
	r.GET("/metrics", gin.WrapH(app.Metrics.Handler()))

	v1 := r.Group("/api/v1")
	if app.Config.Limiter.Enabled {
		v1.Use(app.RateLimitMiddleware())
	}
	{
		v1.POST("/sessions", app.Handler.CreateSession)
	}

	sessions := v1.Group("/sessions/:id")
	sessions.Use(app.SessionTokenMiddleware())
	{
		sessions.GET("", app.Handler.GetSession)
		sessions.POST("/answers", app.Handler.SubmitAnswer)
		sessions.POST("/advance", app.Handler.Advance)
		sessions.POST("/cancel", app.Handler.CancelPending)
		sessions.GET("/history", app.Handler.GetHistory)
		sessions.DELETE("", app.Handler.DeleteSession)
	}

	return r
}

func (app *application) CORSMiddleware() gin.HandlerFunc {
	origins := app.Config.GetCORSOrigins()
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && slices.Contains(origins, origin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Vary", "Origin")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (app *application) healthz(c *gin.Context) {
	status := gin.H{
		"status":   "ok",
		"env":      app.Config.Env,
		"sessions": app.Sessions.Count(),
		"oracle":   app.Config.Gemini.Enabled,
	}
	if app.Redis != nil {
		if err := cache.Ping(c.Request.Context(), app.Redis); err != nil {
			app.Logger.Warn("healthz: redis unreachable", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, "REDIS_UNAVAILABLE", "snapshot store unreachable")
			return
		}
		status["redis"] = "ok"
	}
	response.OK(c, status)
}
