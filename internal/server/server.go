// Package server wires the gin engine, middleware stack, and route table.
package server

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/config"
	"github.com/sethtw/saga-sub000/internal/server/validator"
	v1 "github.com/sethtw/saga-sub000/internal/server/v1"
)

const serviceName = "saga-generation"

type Server struct {
	router  *gin.Engine
	config  *config.Config
	logger  *zap.Logger
	handler *v1.Handler
}

func New(cfg *config.Config, logger *zap.Logger, service v1.GenerationService, gateway v1.ProviderGateway, templates v1.TemplateReloader, elements v1.ElementStore) *Server {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Init()

	engine := gin.New()
	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	engine.Use(otelgin.Middleware(serviceName))

	s := &Server{
		router:  engine,
		config:  cfg,
		logger:  logger,
		handler: v1.NewHandler(service, gateway, templates, elements),
	}
	s.setupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
