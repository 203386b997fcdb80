package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appsvc "itemboard/internal/app"
	"itemboard/internal/bootstrap"
	"itemboard/internal/platform/rabbitmq"
	"itemboard/internal/repository"
	"itemboard/internal/transport/http/handler"
	"itemboard/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery(), middleware.Metrics())
	router.LoadHTMLGlob("web/templates/*.html")

	userRepo := repository.NewUserRepository(app.MySQL)
	itemRepo := repository.NewItemRepository(app.MySQL)
	publisher := rabbitmq.NewActivityPublisher(app.MQConn, app.Config.RabbitMQ.ActivityQueue)

	authService := appsvc.NewAuthService(userRepo)
	itemService := appsvc.NewItemService(itemRepo, publisher)

	sessionTTLSeconds := app.Config.Auth.SessionTTLMinute * 60
	webAuth := handler.NewWebAuthHandler(authService, app.Sessions, sessionTTLSeconds, app.Config.Auth.CookieSecure)
	webItem := handler.NewWebItemHandler(itemService)
	apiAuth := handler.NewAPIAuthHandler(
		authService,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
	)
	apiItem := handler.NewAPIItemHandler(itemService)
	apiActivity := handler.NewAPIActivityHandler(repository.NewActivityEventRepository(app.MySQL))
	healthHandler := handler.NewHealthHandler(app)

	router.GET("/healthz", healthHandler.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// HTML surface. The public pages only peek at the session; the
	// protected group refuses to run without one.
	router.GET("/", middleware.LoadSession(app.Sessions), webItem.Index)
	router.GET("/register", webAuth.ShowRegister)
	router.POST("/register", webAuth.Register)
	router.GET("/login", webAuth.ShowLogin)
	router.POST("/login", webAuth.Login)

	protected := router.Group("/", middleware.RequireSession(app.Sessions))
	protected.GET("/logout", webAuth.Logout)
	protected.GET("/dashboard", webItem.Dashboard)
	protected.GET("/items/new", webItem.ShowCreate)
	protected.POST("/items/new", webItem.Create)
	protected.GET("/items/:id/edit", webItem.ShowEdit)
	protected.POST("/items/:id/edit", webItem.Edit)
	protected.POST("/items/:id/delete", webItem.Delete)

	// JSON API surface.
	v1 := router.Group("/api/v1")
	authGroup := v1.Group("/auth")
	authGroup.POST("/register", apiAuth.Register)
	authGroup.POST("/login", apiAuth.Login)
	authGroup.GET("/me", middleware.AuthJWT(app.Config.Auth.JWTSecret), apiAuth.Me)

	v1.GET("/items", apiItem.ListPublic)

	apiProtected := v1.Group("", middleware.AuthJWT(app.Config.Auth.JWTSecret))
	apiProtected.GET("/my/items", apiItem.ListMine)
	apiProtected.GET("/activity", apiActivity.ListRecent)
	apiProtected.POST("/items", apiItem.Create)
	apiProtected.PUT("/items/:id", apiItem.Update)
	apiProtected.DELETE("/items/:id", apiItem.Delete)

	return router
}
