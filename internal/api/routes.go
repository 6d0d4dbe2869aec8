package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mekanis/internal/api/middleware"
	"mekanis/internal/applications"
	"mekanis/internal/auth"
	"mekanis/internal/database"
	"mekanis/internal/storage"
)

// RegisterRoutes wires every handler under /v1.
func RegisterRoutes(
	router *gin.Engine,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
	clamdAddr string,
	allowedOrigins []string,
) {
	workflow := applications.NewWorkflow(db, asynqClient, redisClient, logger)

	authHandler := NewAuthHandler(db, authService, redisClient, logger)
	catalogHandler := NewCatalogHandler()
	jobHandler := NewJobHandler(db, logger)
	applicationHandler := NewApplicationHandler(db, workflow, asynqClient, logger)
	profileHandler := NewProfileHandler(db, logger)
	companyHandler := NewCompanyHandler(db, logger)
	adminHandler := NewAdminHandler(db, logger)
	assetHandler := NewAssetHandler(db, storageClient, logger, clamdAddr)
	wsHandler := NewWsHandler(redisClient, authService, logger, allowedOrigins)

	authRequired := middleware.AuthMiddleware(authService)
	authOptional := middleware.OptionalAuthMiddleware(authService)
	passwordGate := middleware.PasswordGate()
	candidateOnly := middleware.RequireRole(database.RoleCandidate)
	employerOnly := middleware.RequireRole(database.RoleEmployer)
	adminOnly := middleware.RequireRole(database.RoleAdmin)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authRequired, authHandler.Logout)
			// deliberately not behind the password gate
			authGroup.POST("/change-password", authRequired, authHandler.ChangePassword)
		}

		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.GET("", catalogHandler.GetAttributes)
			catalogGroup.GET("/districts", catalogHandler.GetDistricts)
		}

		jobsGroup := v1.Group("/jobs")
		{
			jobsGroup.GET("", jobHandler.ListJobs)
			jobsGroup.GET("/:slug", jobHandler.GetJobBySlug)
			jobsGroup.POST("/:slug/apply", authOptional, applicationHandler.Apply)
		}

		v1.GET("/companies/:slug", companyHandler.GetCompanyBySlug)

		meGroup := v1.Group("/me")
		meGroup.Use(authRequired, passwordGate, candidateOnly)
		{
			meGroup.GET("/profile", profileHandler.GetProfile)
			meGroup.PUT("/profile", profileHandler.UpdateProfile)
			meGroup.GET("/applications", applicationHandler.ListMyApplications)

			meGroup.POST("/experiences", profileHandler.AddExperience)
			meGroup.PUT("/experiences/:entryID", profileHandler.UpdateExperience)
			meGroup.DELETE("/experiences/:entryID", profileHandler.DeleteExperience)

			meGroup.POST("/educations", profileHandler.AddEducation)
			meGroup.PUT("/educations/:entryID", profileHandler.UpdateEducation)
			meGroup.DELETE("/educations/:entryID", profileHandler.DeleteEducation)

			meGroup.POST("/certificates", profileHandler.AddCertificate)
			meGroup.PUT("/certificates/:entryID", profileHandler.UpdateCertificate)
			meGroup.DELETE("/certificates/:entryID", profileHandler.DeleteCertificate)

			meGroup.POST("/languages", profileHandler.AddLanguage)
			meGroup.PUT("/languages/:entryID", profileHandler.UpdateLanguage)
			meGroup.DELETE("/languages/:entryID", profileHandler.DeleteLanguage)
		}

		employerGroup := v1.Group("/employer")
		employerGroup.Use(authRequired, passwordGate, employerOnly)
		{
			employerGroup.GET("/company", companyHandler.GetMyCompany)
			employerGroup.PUT("/company", companyHandler.UpdateMyCompany)

			employerGroup.GET("/jobs", jobHandler.ListMyJobs)
			employerGroup.POST("/jobs", jobHandler.CreateJob)
			employerGroup.GET("/jobs/:id", jobHandler.GetMyJob)
			employerGroup.PUT("/jobs/:id", jobHandler.UpdateJob)
			employerGroup.POST("/jobs/:id/close", jobHandler.CloseJob)
			employerGroup.DELETE("/jobs/:id", jobHandler.DeleteJob)

			employerGroup.GET("/jobs/:id/applications", applicationHandler.ListJobApplications)
			employerGroup.PATCH("/jobs/:id/applications/:appID", applicationHandler.TransitionApplication)
			employerGroup.GET("/applications/:appID/resume", assetHandler.GetApplicationResumeURL)
		}

		assetGroup := v1.Group("/assets")
		assetGroup.Use(authRequired, passwordGate)
		{
			assetGroup.POST("/upload/:kind", assetHandler.UploadAsset)
			assetGroup.GET("/view", assetHandler.GetAssetURL)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(authRequired, passwordGate, adminOnly)
		{
			adminGroup.GET("/companies", adminHandler.ListCompanies)
			adminGroup.POST("/companies/:id/verify", adminHandler.VerifyCompany)
			adminGroup.PUT("/companies/:id/active", adminHandler.SetCompanyActive)
			adminGroup.GET("/jobs", adminHandler.ListJobs)
			adminGroup.POST("/jobs/:id/close", adminHandler.ForceCloseJob)
		}
	}
}
