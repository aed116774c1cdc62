package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"uprate/backend/models"
)

const emailTakenMsg = "Could not save user. The email may be taken."

func ListUsers(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := reqCtx(c)
		defer cancel()
		users, err := env.Credentials.List(ctx)
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func CreateUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		id, err := env.Credentials.Register(ctx, req.Name, req.Email, req.Password, active)
		if err != nil {
			respondErr(c, err, emailTakenMsg)
			return
		}
		u, err := env.Credentials.Get(ctx, id)
		if err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusCreated, u)
	}
}

func UpdateUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var upd models.UserUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		id := c.Param("id")
		var u *models.SafeUser
		var err error
		// the console sends password resets and activation toggles on their own
		switch {
		case passwordOnly(upd):
			u, err = env.Credentials.ChangePassword(ctx, id, *upd.Password)
		case activeOnly(upd):
			u, err = env.Credentials.SetActive(ctx, id, *upd.Active)
		default:
			u, err = env.Credentials.Update(ctx, id, upd)
		}
		if err != nil {
			respondErr(c, err, emailTakenMsg)
			return
		}
		c.JSON(http.StatusOK, u)
	}
}

// DeleteUser refuses to remove the caller's own account.
func DeleteUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if id == c.GetString("user_id") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account."})
			return
		}
		ctx, cancel := reqCtx(c)
		defer cancel()
		if err := env.Credentials.Delete(ctx, id); err != nil {
			respondErr(c, err, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

func passwordOnly(u models.UserUpdate) bool {
	return u.Password != nil && u.Name == nil && u.Email == nil && u.Active == nil && u.DeleteAt == nil
}

func activeOnly(u models.UserUpdate) bool {
	return u.Active != nil && u.Name == nil && u.Email == nil && u.Password == nil && u.DeleteAt == nil
}
