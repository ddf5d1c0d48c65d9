package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/KrankMcCannon/ge-svi-ecommerce-api/config"
	"github.com/KrankMcCannon/ge-svi-ecommerce-api/queue"
)

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, q *queue.Client, cfg config.Config) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db, q)

	// JWT-protected resource routes
	SetupUserRoutes(r, db, cfg)
	SetupProductRoutes(r, db, cfg)
	SetupCartRoutes(r, db)
	SetupOrderRoutes(r, db, q, cfg)
}
