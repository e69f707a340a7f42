// README: API gateway; registers gin routes and delegates to the toll service.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tollfee/internal/http/handlers"
	"tollfee/internal/http/middleware"
	"tollfee/internal/modules/toll"
)

type ServerDeps struct {
	Toll *toll.Service
	Log  *zap.Logger
}

type Server struct {
	toll *toll.Service
	log  *zap.Logger
}

func NewServer(deps ServerDeps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{toll: deps.Toll, log: log}
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(middleware.Logging(s.log), middleware.Recovery(s.log))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	tollHandler := handlers.NewTollHandler(s.toll)
	api := r.Group("/api/tolls")
	{
		api.GET("/schedule", tollHandler.Schedule)
		api.POST("/pass", tollHandler.Pass)
		api.POST("/day", tollHandler.Day)
		api.POST("/days", tollHandler.Days)
	}
	return r
}
