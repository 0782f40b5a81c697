package controller

import (
	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth       service.AuthService
	Categories service.CategoryService
	Questions  service.QuestionService
	Options    service.OptionService
	Feedback   service.FeedbackService
	Reports    service.ReportService
	Brands     service.BrandService
	Catalog    service.CatalogService
	Health     Pinger
}

// RegisterRoutes mounts the API under basePath. Everything except login and
// health goes through authMiddleware.
func RegisterRoutes(r *gin.Engine, basePath string, authMiddleware gin.HandlerFunc, svc Services) {
	RegisterValidators()

	api := r.Group(basePath)

	// Public routes.
	authCtrl := NewAuthController(svc.Auth)
	api.POST("/auth/login", authCtrl.Login)
	healthCtrl := &HealthController{DB: svc.Health}
	api.GET("/health", healthCtrl.Health)

	protected := api.Group("")
	protected.Use(authMiddleware)

	protected.POST("/auth/logout", authCtrl.Logout)
	protected.GET("/auth/me", authCtrl.Me)

	// Category routes.
	categoryCtrl := NewCategoryController(svc.Categories)
	categoryRoutes := protected.Group("/categories")
	{
		categoryRoutes.GET("", categoryCtrl.ListCategories)
		categoryRoutes.POST("", categoryCtrl.CreateCategory)
		categoryRoutes.PUT("/:id", categoryCtrl.UpdateCategory)
		categoryRoutes.DELETE("/:id", categoryCtrl.DeleteCategory)
	}

	// Question and option routes.
	questionCtrl := NewQuestionController(svc.Questions, svc.Options)
	questionRoutes := protected.Group("/questions")
	{
		questionRoutes.GET("", questionCtrl.ListQuestions)
		questionRoutes.POST("", questionCtrl.CreateQuestion)
		questionRoutes.GET("/:id", questionCtrl.GetQuestion)
		questionRoutes.PUT("/:id", questionCtrl.UpdateQuestion)
		questionRoutes.DELETE("/:id", questionCtrl.DeleteQuestion)
		questionRoutes.POST("/:id/move", questionCtrl.MoveQuestion)
		questionRoutes.GET("/:id/stats", questionCtrl.QuestionStats)
		questionRoutes.GET("/:id/options", questionCtrl.ListOptions)
		questionRoutes.POST("/:id/options", questionCtrl.AddOption)
	}
	protected.PUT("/options/:id", questionCtrl.UpdateOption)
	protected.DELETE("/options/:id", questionCtrl.RemoveOption)

	// Feedback session routes.
	feedbackCtrl := NewFeedbackController(svc.Feedback, svc.Reports)
	sessionRoutes := protected.Group("/feedback-sessions")
	{
		sessionRoutes.GET("", feedbackCtrl.ListSessions)
		sessionRoutes.POST("", feedbackCtrl.StartSession)
		sessionRoutes.GET("/:id", feedbackCtrl.GetSession)
		sessionRoutes.GET("/:id/answers", feedbackCtrl.GetSessionAnswers)
		sessionRoutes.POST("/:id/answers", feedbackCtrl.SubmitAnswer)
		sessionRoutes.POST("/:id/complete", feedbackCtrl.CompleteSession)
		sessionRoutes.POST("/:id/abandon", feedbackCtrl.AbandonSession)
		sessionRoutes.GET("/:id/report.pdf", feedbackCtrl.DownloadReport)
	}

	// Brand pipeline routes.
	brandCtrl := NewBrandController(svc.Brands)
	statusRoutes := protected.Group("/brand-statuses")
	{
		statusRoutes.GET("", brandCtrl.ListStatuses)
		statusRoutes.POST("", brandCtrl.CreateStatus)
		statusRoutes.PUT("/:id", brandCtrl.UpdateStatus)
		statusRoutes.DELETE("/:id", brandCtrl.DeleteStatus)
	}
	brandRoutes := protected.Group("/brands")
	{
		brandRoutes.GET("", brandCtrl.ListBrands)
		brandRoutes.POST("", brandCtrl.CreateBrand)
		brandRoutes.PUT("/:id", brandCtrl.UpdateBrand)
		brandRoutes.DELETE("/:id", brandCtrl.DeleteBrand)
		brandRoutes.POST("/:id/move", brandCtrl.MoveBrand)
		brandRoutes.GET("/:id/history", brandCtrl.GetHistory)
	}

	// Catalog routes.
	catalogCtrl := NewCatalogController(svc.Catalog)
	protected.GET("/products", catalogCtrl.ListProducts)
	protected.GET("/dashboard", catalogCtrl.Dashboard)
}
