package errors

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a known error into a problem; ok is false for errors it does not know.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// Responder writes problem responses for a gin API. Errors no mapper recognises are logged
// and answered with a bare 500 so storage or broker messages never reach the client.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder prefixes relative problem types with baseURI, when set.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{baseURI: baseURI, mappers: mappers}
}

// WithLogger sets the logger for unmapped errors; slog.Default is used otherwise.
func (r *Responder) WithLogger(logger *slog.Logger) *Responder {
	r.logger = logger
	return r
}

// Respond writes problem, defaulting its instance to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError writes the problem for err: its own when it is a ProblemDetail, the first
// mapper's otherwise, and ErrInternal as a last resort.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	logger := r.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.ErrorContext(c.Request.Context(), "unhandled stock API error",
		slog.String("http.route", c.FullPath()), slog.String("error", err.Error()))
	r.Respond(c, ErrInternal)
}
