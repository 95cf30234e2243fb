package routes

import (
	"net/http"

	"quizbackend/handlers"
	"quizbackend/middleware"
	"quizbackend/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	quizHandler *handlers.QuizHandler,
	participationHandler *handlers.ParticipationHandler,
	jwtSecret string,
) {
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register/student", authHandler.RegisterStudent)
			auth.POST("/register/professor", authHandler.RegisterProfessor)
			auth.POST("/login", authHandler.Login)
		}

		// Guest identity issuance (public)
		api.POST("/guests", participationHandler.IssueGuest)

		// Public quiz routes; submit/join resolve the identity when a
		// bearer token is present
		quiz := api.Group("/quiz")
		{
			quiz.GET("/join/:code", quizHandler.GetQuizByCode)
			quiz.POST("/join/:code", middleware.OptionalAuthMiddleware(jwtSecret), participationHandler.JoinByCode)
			quiz.POST("/:id/submit", middleware.OptionalAuthMiddleware(jwtSecret), participationHandler.SubmitQuiz)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			protected.GET("/auth/me", authHandler.GetProfile)
			protected.GET("/quiz/my-participations", participationHandler.GetMyParticipations)

			// Professor-only authoring routes
			professor := protected.Group("/quiz")
			professor.Use(middleware.RequireRoles(models.RoleProfessorFree, models.RoleProfessorVIP, models.RoleAdmin))
			{
				professor.POST("", quizHandler.CreateQuiz)
				professor.GET("/my-quizzes", quizHandler.GetMyQuizzes)
				professor.GET("/:id", quizHandler.GetQuizByID)
				professor.PUT("/:id", quizHandler.UpdateQuiz)
				professor.DELETE("/:id", quizHandler.DeleteQuiz)
				professor.POST("/:id/questions", quizHandler.AddQuestion)
				professor.POST("/questions/:questionId/responses", quizHandler.AddResponse)
				professor.GET("/:id/participations", participationHandler.GetQuizParticipations)
			}

			// Admin routes
			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRoles(models.RoleAdmin))
			{
				admin.GET("/quizzes", quizHandler.GetAllQuizzes)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
