package handler

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/middleware"
	"github.com/nexushr/nexushr/internal/model"
)

type RouterDeps struct {
	Auth        *AuthHandler
	Documents   *DocumentHandler
	Chat        *ChatHandler
	System      *SystemHandler
	JWTSecret   []byte
	CORSOrigins []string
	WebDir      string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(deps.CORSOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	api := router.Group("/api")
	api.GET("/health", deps.System.Health)
	api.GET("/info", deps.System.Info)
	api.POST("/auth/login", deps.Auth.Login)
	api.POST("/auth/logout", deps.Auth.Logout)

	authGroup := api.Group("")
	authGroup.Use(middleware.JWTAuth(deps.JWTSecret))
	authGroup.GET("/auth/me", deps.Auth.Me)

	authGroup.GET("/documents/list", deps.Documents.List)
	authGroup.GET("/documents/stats", deps.Documents.Stats)

	uploadGroup := authGroup.Group("")
	uploadGroup.Use(middleware.RequireRoles(model.RoleAdmin, model.RoleHRManager))
	uploadGroup.POST("/documents/upload", deps.Documents.Upload)
	uploadGroup.POST("/documents/upload-multiple", deps.Documents.UploadMultiple)

	adminGroup := authGroup.Group("")
	adminGroup.Use(middleware.RequireRoles(model.RoleAdmin))
	adminGroup.DELETE("/documents/all", deps.Documents.DeleteAll)

	authGroup.POST("/chat/query", deps.Chat.Query)
	authGroup.POST("/chat/classify-intent", deps.Chat.ClassifyIntent)
	authGroup.POST("/chat/suggest", deps.Chat.Suggest)

	if deps.WebDir != "" {
		router.Static("/static", deps.WebDir)
		router.StaticFile("/", deps.WebDir+"/index.html")
	}

	return router
}
