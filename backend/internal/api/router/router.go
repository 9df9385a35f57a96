package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pca-portal/backend/config"
	"pca-portal/backend/internal/api/handler"
	"pca-portal/backend/internal/api/middleware"
	"pca-portal/backend/internal/api/session"
	"pca-portal/backend/internal/service"
	"pca-portal/backend/pkg/redis"
)

// formOverhead room for the text fields sent next to an upload
const formOverhead = 1 << 20

// Setup builds the gin engine
func Setup(
	cfg *config.Config,
	h *handler.Handler,
	authSvc service.AuthService,
	cookie *session.Cookie,
	rdb *redis.Client,
	logger *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.NoCache())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxUploadBytes + formOverhead))

	// ── health ──
	r.GET(middleware.HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// uploaded logos
	r.Static(strings.TrimSuffix(service.LogoURLPrefix, "/"), cfg.Server.UploadDir)

	throttle := middleware.RateLimit(rdb, cfg.Auth.RateLimit.Limit, cfg.Auth.RateLimit.Window)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// public portal
		v1.GET("/portal", h.Portal.Home)
		v1.GET("/portal/export/excel", h.Portal.ExportExcel)
		v1.GET("/portal/export/pdf", h.Portal.ExportDocument)
		v1.GET("/entity", h.Entity.GetEntity)

		// authentication (no session)
		auth := v1.Group("/auth")
		{
			auth.POST("/login", throttle, h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.POST("/forgot-password", throttle, h.Auth.ForgotPassword)
			auth.GET("/reset-password/:token", h.Auth.VerifyResetToken)
			auth.POST("/reset-password/:token", throttle, h.Auth.ResetPassword)
		}

		// back office
		authorized := v1.Group("")
		authorized.Use(middleware.SessionAuth(authSvc, cookie))
		{
			authorized.GET("/auth/session", h.Auth.Session)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			admin := authorized.Group("/admin")
			{
				admin.GET("/dashboard", h.Procurement.Dashboard)

				procurements := admin.Group("/procurements")
				{
					procurements.GET("/:id", h.Procurement.GetProcurement)
					procurements.POST("", h.Procurement.CreateProcurement)
					procurements.PUT("/:id", h.Procurement.UpdateProcurement)
					procurements.DELETE("/:id", h.Procurement.DeleteProcurement)
				}

				// superuser only; the services check again
				departments := admin.Group("/departments", middleware.AdminOnly())
				{
					departments.GET("", h.Department.ListDepartments)
					departments.POST("", h.Department.CreateDepartment)
					departments.PUT("/:id", h.Department.UpdateDepartment)
					departments.DELETE("/:id", h.Department.DeleteDepartment)
				}

				users := admin.Group("/users", middleware.AdminOnly())
				{
					users.GET("", h.User.ListUsers)
					users.POST("", h.User.CreateUser)
					users.PUT("/:id", h.User.UpdateUser)
					users.DELETE("/:id", h.User.DeleteUser)
					users.PUT("/:id/password", h.User.ResetPassword)
				}

				admin.PUT("/entity", middleware.AdminOnly(), h.Entity.UpdateEntity)
			}
		}
	}

	return r
}
