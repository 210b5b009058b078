package server

import (
	"github.com/sethtw/saga-sub000/internal/server/middleware"
	v1 "github.com/sethtw/saga-sub000/internal/server/v1"
)

func (s *Server) setupRoutes() {
	s.router.Use(middleware.ErrorHandler(s.logger))

	healthHandler := v1.NewHealthHandler()
	s.router.GET("/health", healthHandler.Health)

	api := s.router.Group("/api/v1")
	if s.config.RateLimit.RequestsPerSecond > 0 {
		limiter := middleware.NewRateLimiter(
			s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
		api.Use(limiter.Middleware())
	}
	{
		api.POST("/generate", s.handler.Generate)

		api.GET("/object-types", s.handler.ListObjectTypes)
		api.GET("/object-types/:name", s.handler.GetObjectType)

		api.GET("/campaigns/:id/elements", s.handler.ListCampaignElements)

		api.GET("/providers", s.handler.ListProviders)
		api.GET("/providers/test", s.handler.TestProviders)

		api.GET("/usage", s.handler.Usage)

		api.POST("/templates/reload", s.handler.ReloadTemplates)
	}
}
