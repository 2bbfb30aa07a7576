package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamnet/internal/assets"
	"teamnet/internal/handlers"
)

// Server mounts the entity handlers onto HTTP routes
type Server struct {
	handlers  *handlers.Handlers
	assets    assets.Store
	staticDir string
	jwtSecret string
	logger    *zap.Logger
}

// Options carries the route-layer collaborators
type Options struct {
	Assets    assets.Store
	StaticDir string // served under /assets when set
	JWTSecret string
	Logger    *zap.Logger
}

func NewServer(h *handlers.Handlers, opts Options) *Server {
	return &Server{
		handlers:  h,
		assets:    opts.Assets,
		staticDir: opts.StaticDir,
		jwtSecret: opts.JWTSecret,
		logger:    opts.Logger,
	}
}

// Router builds the gin engine with all routes mounted
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(ginLogger(s.logger))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if s.staticDir != "" {
		router.Static("/assets", s.staticDir)
	}

	api := router.Group("/api")

	// Login is the only public API route; it produces the token the
	// rest of the API requires.
	api.POST("/login", s.login)

	authed := api.Group("")
	authed.Use(s.requireAuth())
	{
		users := authed.Group("/users")
		users.POST("", s.createUser)
		users.GET("", s.listUsers)
		users.GET("/:uid", s.getUser)
		users.PUT("/:uid", s.updateUser)
		users.DELETE("/:uid", s.deleteUser)
		users.POST("/search", s.searchUsers)

		companies := authed.Group("/companies")
		companies.POST("", s.createCompany)
		companies.GET("", s.listCompanies)
		companies.GET("/:uid", s.getCompany)
		companies.PUT("/:uid", s.updateCompany)
		companies.DELETE("/:uid", s.deleteCompany)
		companies.POST("/search", s.searchCompanies)

		softwares := authed.Group("/softwares")
		softwares.POST("", s.createSoftware)
		softwares.GET("", s.listSoftwares)
		softwares.GET("/:uid", s.getSoftware)
		softwares.PUT("/:uid", s.updateSoftware)
		softwares.DELETE("/:uid", s.deleteSoftware)
		softwares.POST("/search", s.searchSoftwares)

		stacks := authed.Group("/stacks")
		stacks.POST("", s.createStack)
		stacks.GET("", s.listStacks)
		stacks.GET("/:uid", s.getStack)
		stacks.PUT("/:uid", s.updateStack)
		stacks.DELETE("/:uid", s.deleteStack)
		stacks.POST("/search", s.searchStacks)

		posts := authed.Group("/posts")
		posts.POST("", s.createPost)
		posts.GET("", s.listPosts)
		posts.GET("/:uid", s.getPost)
		posts.PUT("/:uid", s.updatePost)
		posts.DELETE("/:uid", s.deletePost)
		posts.POST("/search", s.searchPosts)
		posts.POST("/:uid/like", s.likePost)
		posts.DELETE("/:uid/like", s.unlikePost)

		comments := authed.Group("/comments")
		comments.POST("", s.createComment)
		comments.GET("/:uid", s.getComment)
		comments.PUT("/:uid", s.updateComment)
		comments.DELETE("/:uid", s.deleteComment)
		comments.POST("/:uid/like", s.likeComment)
		comments.DELETE("/:uid/like", s.unlikeComment)

		authed.POST("/upload", s.uploadAsset)

		admin := authed.Group("/admin")
		admin.Use(s.requireSuperuser())
		admin.POST("/cache/clear", s.clearCaches)
	}

	return router
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
