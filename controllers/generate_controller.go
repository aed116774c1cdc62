package controllers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"uprate/backend/models"
)

// PreviewReviews runs the draft generator for the console. Unlike the public
// flow, an upstream failure is reported instead of masked.
func PreviewReviews(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), env.Cfg.GenerateTimeout)
		defer cancel()
		drafts, err := env.Reviews.Preview(ctx, req.BusinessName, req.BusinessType, req.Answers)
		if err != nil {
			log.Printf("preview generate error: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, drafts)
	}
}
