package main

import (
	"log"

	"quizbackend/config"
	"quizbackend/handlers"
	"quizbackend/middleware"
	"quizbackend/models"
	"quizbackend/routes"
	"quizbackend/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Guest{},
		&models.Quiz{},
		&models.Question{},
		&models.Response{},
		&models.Participation{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	if err := createParticipationIndexes(db); err != nil {
		log.Fatal("Failed to create participation indexes:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	quizCache := services.NewQuizCache(redisClient)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	quizService := services.NewQuizService(db, quizCache)
	guestService := services.NewGuestService(db)
	participationService := services.NewParticipationService(
		services.NewGormQuizReader(db, quizCache),
		services.NewGormParticipationStore(db),
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	quizHandler := handlers.NewQuizHandler(quizService)
	participationHandler := handlers.NewParticipationHandler(participationService, guestService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, quizHandler, participationHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// createParticipationIndexes adds the partial unique indexes that make the
// duplicate-participation check race-free: a concurrent double submit for
// the same (quiz, identity) pair fails on the index instead of inserting a
// second row. AutoMigrate can't express the IS NOT NULL predicate.
func createParticipationIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participations_quiz_user
			ON participations (quiz_id, user_id) WHERE user_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_participations_quiz_guest
			ON participations (quiz_id, guest_id) WHERE guest_id IS NOT NULL`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
