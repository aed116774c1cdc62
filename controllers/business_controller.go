package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"uprate/backend/models"
)

const slugTakenMsg = "Could not save business. The slug may be taken."

func ListBusinesses(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		items, err := env.Businesses.List(ctx, c.Query("q"))
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func GetBusiness(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		b, err := env.Businesses.Get(ctx, c.Param("id"))
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func CreateBusiness(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.BusinessInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		b, err := env.Businesses.Create(ctx, in)
		if err != nil {
			respondErr(c, err, slugTakenMsg)
			return
		}
		c.JSON(http.StatusCreated, b)
	}
}

func UpdateBusiness(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.BusinessUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		b, err := env.Businesses.Update(ctx, c.Param("id"), upd)
		if err != nil {
			respondErr(c, err, slugTakenMsg)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func DeleteBusiness(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		if err := env.Businesses.Delete(ctx, c.Param("id")); err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func Stats(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		st, err := env.Businesses.Stats(ctx)
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, st)
	}
}
