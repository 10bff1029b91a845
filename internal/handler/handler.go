package handler

import (
	"github.com/vishruthp2003/KodnestF2FVersion/internal/auth"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/session"
	"go.uber.org/zap"
)

// Handler serves the session endpoints. Routes under /sessions/:id expect the
// token middleware to have matched the bearer token to :id already.
type Handler struct {
	Logger     *zap.Logger
	Sessions   *session.Manager
	TokenMaker *auth.TokenMaker
}
