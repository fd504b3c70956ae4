package app

import (
	"quizarena_backend/docs"
	"quizarena_backend/internal/config"
	"quizarena_backend/internal/middleware"
	"quizarena_backend/internal/model"
	"quizarena_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.PUT("/profile", c.auth.UpdateProfile)
		authGroup.PUT("/profile/password", c.auth.ChangePassword)
		authGroup.POST("/profile/avatar", c.auth.UploadAvatar)

		authGroup.GET("/categories", c.category.List)
		authGroup.GET("/categories/:id", c.category.Get)
		authGroup.GET("/categories/:id/quizzes", c.quiz.ListByCategory)
		authGroup.GET("/categories/:id/quizzes/:quizId", c.quiz.Get)
		authGroup.POST("/categories/:id/quizzes/:quizId/start", c.attempt.Start)

		authGroup.POST("/payments/category/:categoryId/purchase", c.payment.Purchase)
		authGroup.GET("/payments", c.payment.History)
		authGroup.GET("/payments/:id", c.payment.Get)

		authGroup.GET("/attempts/:id/question", c.attempt.CurrentQuestion)
		authGroup.GET("/attempts/:id/question/:questionId", c.attempt.Question)
		authGroup.POST("/attempts/:id/answer", c.attempt.SubmitAnswer)
		authGroup.GET("/attempts/:id/navigation", c.attempt.Navigation)
		authGroup.GET("/attempts/:id/results", c.attempt.Results)

		authGroup.GET("/my-attempts", c.attempt.History)
		authGroup.GET("/my-stats", c.stats.History)
		authGroup.GET("/my-stats/errors", c.stats.ErrorStats)
	}

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Editor, model.Admin))
	{
		admin.POST("/categories", c.category.Create)
		admin.PUT("/categories/:id", c.category.Update)
		admin.DELETE("/categories/:id", c.category.Delete)

		admin.POST("/quizzes", c.quiz.Create)
		admin.PUT("/quizzes/:id", c.quiz.Update)
		admin.DELETE("/quizzes/:id", c.quiz.Delete)

		admin.POST("/quizzes/:id/file", c.quiz.UploadFile)
		admin.POST("/quizzes/:id/questions", c.quiz.AddQuestion)
		admin.GET("/quizzes/:id/questions", c.quiz.ListQuestions)
		admin.PUT("/questions/:id", c.quiz.UpdateQuestion)
		admin.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		admin.POST("/questions/:id/options", c.quiz.AddOption)
		admin.GET("/questions/:id/options", c.quiz.ListOptions)
		admin.DELETE("/options/:id", c.quiz.DeleteOption)
	}
}
