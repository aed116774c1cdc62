package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"uprate/backend/config"
	"uprate/backend/controllers"
	"uprate/backend/database"
	"uprate/backend/llm"
	"uprate/backend/routes"
	"uprate/backend/services"
	"uprate/backend/sessions"
	"uprate/backend/store"
)

func main() {
	cfg := config.Load()

	var st store.Store
	if cfg.DatabaseURL != "" {
		database.Connect(cfg.DatabaseURL)
		defer database.Close()
		database.EnsureSchema()
		st = store.NewPostgres(database.Pool)
	} else {
		log.Printf("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	backend := llm.FromConfig(cfg)
	if backend == nil {
		log.Printf("no generation credentials, review drafts run offline")
	} else {
		log.Printf("review drafts via %s", backend.Name())
	}

	sess := sessions.New(cfg.SessionTTL)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sess.Janitor(ctx, 10*time.Minute)

	env := controllers.NewEnv(cfg, st, services.NewReviewGenerator(backend), sess)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	routes.Register(r, env)
	log.Printf("server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// corsConfig allows credentials only for an explicit origin list.
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
		ExposeHeaders: []string{"X-Session-ID", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
