package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"uprate/backend/controllers"
	"uprate/backend/middlewares"
)

func Register(r *gin.Engine, env *controllers.Env) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "generation": env.Reviews.Configured()})
	})

	api := r.Group("/api")
	{
		ratings := api.Group("/ratings/:slug")
		ratings.Use(middlewares.Visitor(int(env.Cfg.SessionTTL.Seconds())))
		ratings.GET("", controllers.RatingPage(env))
		ratings.POST("/answers", controllers.RatingAnswer(env))
		ratings.POST("/generate", controllers.RatingGenerate(env))
		ratings.POST("/select", controllers.RatingSelect(env))
		ratings.POST("/back", controllers.RatingBack(env))

		empire := api.Group("/empire")
		empire.Use(middlewares.AdminSession(env.Cfg.JWTSecret, env.Sessions))
		empire.POST("/gate", controllers.Gate(env))
		empire.POST("/login", middlewares.RequireGate(), controllers.Login(env))
		empire.POST("/logout", controllers.Logout(env))

		priv := empire.Group("/")
		priv.Use(middlewares.RequireAdmin(env.Credentials))
		priv.GET("me", controllers.Me())
		priv.GET("stats", controllers.Stats(env))
		// Businesses
		priv.GET("businesses", controllers.ListBusinesses(env))
		priv.GET("businesses/export", controllers.ExportBusinesses(env))
		priv.POST("businesses", controllers.CreateBusiness(env))
		priv.GET("businesses/:id", controllers.GetBusiness(env))
		priv.PATCH("businesses/:id", controllers.UpdateBusiness(env))
		priv.DELETE("businesses/:id", controllers.DeleteBusiness(env))
		// Admin users
		priv.GET("users", controllers.ListUsers(env))
		priv.POST("users", controllers.CreateUser(env))
		priv.PATCH("users/:id", controllers.UpdateUser(env))
		priv.DELETE("users/:id", controllers.DeleteUser(env))
		// Draft preview
		priv.POST("generate", controllers.PreviewReviews(env))
	}
}
