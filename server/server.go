// Package server exposes the interpreter over HTTP: submit a program,
// get back the resulting complexes, their homology or a 3D layout.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	scl "github.com/Simobr312/lpl-project"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.3.0"

// Server wires the interpreter to the HTTP surface. The interpreter is
// stateless across requests: every request evaluates its program from
// scratch.
type Server struct {
	cfg    Config
	interp *scl.Interpreter
}

// New creates a server with the given config.
func New(cfg Config) *Server {
	return &Server{cfg: cfg, interp: scl.NewInterpreter()}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)
	r.POST("/run", s.handleRun)
	r.POST("/homology", s.handleHomology)
	r.POST("/layout", s.handleLayout)
	return r
}

// Run serves until the listener fails.
func (s *Server) Run() error {
	slog.Info("Starting server", "addr", s.cfg.ListenAddr)
	return s.Router().Run(s.cfg.ListenAddr)
}
