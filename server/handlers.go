package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	scl "github.com/Simobr312/lpl-project"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// RunRequest submits a program for evaluation.
type RunRequest struct {
	Program string `json:"program" binding:"required"`
}

// RunResponse lists every complex variable of the final environment.
type RunResponse struct {
	Complexes map[string]scl.ComplexView `json:"complexes"`
}

// NamedRequest submits a program and names one of its complex variables.
type NamedRequest struct {
	Program string `json:"program" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

// HomologyResponse reports Betti numbers per degree for one complex.
type HomologyResponse struct {
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Betti     map[int]int `json:"betti"`
}

var errEvalTimeout = errors.New("evaluation timed out")

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": ServiceVersion})
}

// handleRun handles POST /run: evaluate a program and return every
// complex it left bound.
func (s *Server) handleRun(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleRun")

	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	res, ok := s.evaluate(c, logger, req.Program)
	if !ok {
		return
	}

	snapshot := res.Snapshot()
	logger.Info("Program evaluated", "complexes", len(snapshot))
	c.JSON(http.StatusOK, RunResponse{Complexes: snapshot})
}

// handleHomology handles POST /homology: evaluate a program and compute
// the Betti numbers of one named complex.
func (s *Server) handleHomology(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleHomology")

	req, res, ok := s.evaluateNamed(c, logger)
	if !ok {
		return
	}
	k, ok := s.lookupComplex(c, logger, res, req.Name)
	if !ok {
		return
	}

	betti := scl.Homology(k)
	logger.Info("Homology computed", "name", req.Name, "dimension", k.Dimension())
	c.JSON(http.StatusOK, HomologyResponse{
		Name:      req.Name,
		Dimension: k.Dimension(),
		Betti:     betti,
	})
}

// handleLayout handles POST /layout: evaluate a program and embed one
// named complex in 3D.
func (s *Server) handleLayout(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "handleLayout")

	req, res, ok := s.evaluateNamed(c, logger)
	if !ok {
		return
	}
	k, ok := s.lookupComplex(c, logger, res, req.Name)
	if !ok {
		return
	}

	logger.Info("Layout computed", "name", req.Name)
	c.JSON(http.StatusOK, scl.LayoutComplex(k))
}

func (s *Server) evaluateNamed(c *gin.Context, logger *slog.Logger) (NamedRequest, *scl.Result, bool) {
	var req NamedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", Code: "INVALID_REQUEST"})
		return NamedRequest{}, nil, false
	}
	res, ok := s.evaluate(c, logger, req.Program)
	if !ok {
		return NamedRequest{}, nil, false
	}
	return req, res, true
}

// evaluate runs a program under the configured timeout and translates
// failures into HTTP responses. A false return means a response has
// already been written.
func (s *Server) evaluate(c *gin.Context, logger *slog.Logger, program string) (*scl.Result, bool) {
	if s.cfg.MaxProgramBytes > 0 && len(program) > s.cfg.MaxProgramBytes {
		logger.Warn("Program too large", "bytes", len(program))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Program too large", Code: "PROGRAM_TOO_LARGE"})
		return nil, false
	}

	res, err := s.evalWithTimeout(c.Request.Context(), program)
	if err != nil {
		status, code := http.StatusUnprocessableEntity, "EVAL_ERROR"
		var lexErr *scl.LexError
		var parseErr *scl.ParseError
		switch {
		case errors.As(err, &lexErr), errors.As(err, &parseErr):
			status, code = http.StatusBadRequest, "PARSE_ERROR"
		case errors.Is(err, errEvalTimeout):
			status, code = http.StatusGatewayTimeout, "EVAL_TIMEOUT"
		case errors.Is(err, scl.ErrLoopBound):
			status, code = http.StatusUnprocessableEntity, "LOOP_BOUND"
		}
		logger.Warn("Evaluation failed", "error", err, "code", code)
		c.JSON(status, ErrorResponse{
			Error: scl.FormatErrorWithSource(err, "program", program),
			Code:  code,
		})
		return nil, false
	}
	return res, true
}

// evalWithTimeout evaluates in a goroutine so a runaway program cannot
// hold the handler past the deadline. The goroutine finishes on its own
// once the loop ceiling trips; its result is then discarded.
func (s *Server) evalWithTimeout(ctx context.Context, program string) (*scl.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.EvalTimeout)
	defer cancel()

	type outcome struct {
		res *scl.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := s.interp.EvalSource(program)
		done <- outcome{res, err}
	}()

	select {
	case out := <-done:
		return out.res, out.err
	case <-ctx.Done():
		return nil, errEvalTimeout
	}
}

func (s *Server) lookupComplex(c *gin.Context, logger *slog.Logger, res *scl.Result, name string) (*scl.Complex, bool) {
	k, err := res.Complex(name)
	if err != nil {
		logger.Warn("Unknown complex", "name", name, "error", err)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "UNKNOWN_COMPLEX"})
		return nil, false
	}
	return k, true
}
