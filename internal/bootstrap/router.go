package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/TheProSWPPP/swppp-interface/internal/api/http"
	"github.com/TheProSWPPP/swppp-interface/internal/api/http/middleware"
	"github.com/TheProSWPPP/swppp-interface/internal/projects"
	"github.com/TheProSWPPP/swppp-interface/internal/projects/service"
	"github.com/TheProSWPPP/swppp-interface/internal/storage"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Store       storage.Store
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// The front end is served from a different origin in development.
	r.Use(cors.Default())

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RequestIDMiddleware())

	svc := service.NewProjectService(dep.Store)
	projects.Register(api, svc)

	return r
}

func SetGinMode(env string) {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
}
