package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"uprate/backend/config"
	"uprate/backend/flow"
	"uprate/backend/services"
	"uprate/backend/sessions"
	"uprate/backend/store"
)

// Env is what every handler factory closes over.
type Env struct {
	Cfg         config.Config
	Businesses  *services.Businesses
	Credentials *services.Credentials
	Reviews     *services.ReviewGenerator
	Sessions    *sessions.Store
}

func NewEnv(cfg config.Config, st store.Store, reviews *services.ReviewGenerator, sess *sessions.Store) *Env {
	return &Env{
		Cfg:         cfg,
		Businesses:  services.NewBusinesses(st, st),
		Credentials: services.NewCredentials(st),
		Reviews:     reviews,
		Sessions:    sess,
	}
}

func reqCtx(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), 5*time.Second)
}

// respondErr maps domain errors onto status codes. conflictMsg is the
// generic text shown for a uniqueness conflict.
func respondErr(c *gin.Context, err error, conflictMsg string) {
	var sve *services.ValidationError
	var fve *flow.ValidationError
	switch {
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": conflictMsg})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &sve):
		c.JSON(http.StatusBadRequest, gin.H{"error": sve.Message})
	case errors.As(err, &fve):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": fve.Message})
	case errors.Is(err, flow.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "generation already in progress"})
	case errors.Is(err, flow.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "action not available at this step"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "timed out"})
	default:
		log.Printf("%s %s error: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
	}
}
