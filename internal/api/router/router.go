package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-system/config"
	"library-system/internal/api/handler"
	"library-system/internal/api/middleware"
	"library-system/internal/model"
	"library-system/pkg/jwt"
	"library-system/pkg/redis"
)

// Setup builds the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20)) // 1 MB

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// Auth endpoints open to the world, rate limited.
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 10, time.Minute))
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)

			// Inventory: writes are admin-only, listings need any account.
			authorized.GET("/books", h.Book.ListBooks)
			authorized.GET("/books/:id", h.Book.GetBook)
			authorized.GET("/available-books", h.Book.ListAvailableBooks)
			authorized.POST("/books", middleware.RoleAuth(model.RoleAdmin), h.Book.CreateBook)
			authorized.PUT("/books/:id", middleware.RoleAuth(model.RoleAdmin), h.Book.UpdateBook)
			authorized.DELETE("/books/:id", middleware.RoleAuth(model.RoleAdmin), h.Book.DeleteBook)

			// Borrow/return lifecycle.
			authorized.POST("/borrow", middleware.RoleAuth(model.RoleStudent), h.Loan.Borrow)
			authorized.POST("/return", middleware.RoleAuth(model.RoleStudent, model.RoleAdmin), h.Loan.Return)
			authorized.GET("/my-loans", h.Loan.MyLoans)

			// Admin review.
			authorized.GET("/loans", middleware.RoleAuth(model.RoleAdmin), h.Loan.ListActiveLoans)
			authorized.GET("/loans/export", middleware.RoleAuth(model.RoleAdmin), h.Export.ExportActiveLoans)
			authorized.GET("/students", middleware.RoleAuth(model.RoleAdmin), h.User.ListStudents)
			authorized.PUT("/approve/:userId", middleware.RoleAuth(model.RoleAdmin), h.User.ApproveStudent)
		}
	}

	return r
}
