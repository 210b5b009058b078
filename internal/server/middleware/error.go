package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sethtw/saga-sub000/internal/generation"
	"github.com/sethtw/saga-sub000/internal/llm"
	"github.com/sethtw/saga-sub000/internal/registry"
	"github.com/sethtw/saga-sub000/pkg/api"
)

// ErrorHandler maps domain errors attached by handlers onto HTTP responses.
// Handlers call c.Error and return; this runs after them.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		status, body := classify(err)
		if status >= 500 {
			logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		} else {
			logger.Warn("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
		}

		c.AbortWithStatusJSON(status, body)
	}
}

func classify(err error) (int, api.ErrorResponse) {
	var typeErr *registry.ObjectTypeError
	if errors.As(err, &typeErr) {
		return http.StatusNotFound, api.ErrorResponse{
			Code:    "unknown_object_type",
			Message: typeErr.Error(),
		}
	}

	var valErr *generation.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity, api.ErrorResponse{
			Code:    "invalid_payload",
			Message: valErr.Error(),
		}
	}

	var persistErr *generation.PersistenceError
	if errors.As(err, &persistErr) {
		return http.StatusInternalServerError, api.ErrorResponse{
			Code:    "persistence_failed",
			Message: persistErr.Error(),
		}
	}

	var llmErr *llm.Error
	if errors.As(err, &llmErr) {
		return classifyLLM(llmErr)
	}

	return http.StatusInternalServerError, api.ErrorResponse{
		Code:    "internal_error",
		Message: "an unexpected error occurred",
	}
}

func classifyLLM(e *llm.Error) (int, api.ErrorResponse) {
	resp := api.ErrorResponse{Code: string(e.Kind), Message: e.Error()}

	switch e.Kind {
	case llm.KindRateLimit:
		resp.RetryAfterMS = e.RetryAfter.Milliseconds()
		return http.StatusTooManyRequests, resp
	case llm.KindContextLength:
		return http.StatusRequestEntityTooLarge, resp
	case llm.KindContentFiltered:
		return http.StatusUnprocessableEntity, resp
	default:
		// auth, empty response, no providers, generation: an upstream
		// dependency failed, not the caller
		return http.StatusBadGateway, resp
	}
}
