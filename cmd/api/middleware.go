package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/auth"
	"github.com/vishruthp2003/KodnestF2FVersion/pkg/response"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// SessionTokenMiddleware only lets a request through when its bearer token was
// issued for the session named in the path.
func (app *application) SessionTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Handler.TokenMaker)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}

		if claims.SessionID != c.Param("id") {
			app.Logger.Warn("session token: id mismatch",
				zap.String("token_session_id", claims.SessionID),
				zap.String("path_session_id", c.Param("id")),
			)
			response.Unauthorized(c, "token was not issued for this session")
			return
		}

		c.Next()
	}
}

// RateLimitMiddleware applies a token bucket per client IP. Idle buckets are
// dropped after ten minutes.
func (app *application) RateLimitMiddleware() gin.HandlerFunc {
	clients := gocache.New(10*time.Minute, time.Minute)
	limit := rate.Limit(app.Config.Limiter.RPS)
	burst := app.Config.Limiter.Burst

	return func(c *gin.Context) {
		ip := c.ClientIP()

		var limiter *rate.Limiter
		if v, ok := clients.Get(ip); ok {
			limiter = v.(*rate.Limiter)
		} else {
			limiter = rate.NewLimiter(limit, burst)
			if err := clients.Add(ip, limiter, gocache.DefaultExpiration); err != nil {
				// lost the race, use the winner's bucket
				if v, ok := clients.Get(ip); ok {
					limiter = v.(*rate.Limiter)
				}
			}
		}
		clients.SetDefault(ip, limiter)

		if !limiter.Allow() {
			response.TooManyRequests(c, "")
			return
		}
		c.Next()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokenMaker *auth.TokenMaker) (*auth.SessionClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := tokenMaker.VerifyToken(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
