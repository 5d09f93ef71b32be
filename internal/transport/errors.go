package transport

import (
	"errors"
	"net/http"

	"seo-optimizer/internal/domain"
	"seo-optimizer/internal/middleware"
	"seo-optimizer/internal/service"

	"go.uber.org/zap"
)

// respondWithDomainError maps the domain error taxonomy onto HTTP responses.
// Catalog and generator details stay in the log; callers get a generic message.
func respondWithDomainError(w http.ResponseWriter, logger *zap.Logger, err error) {
	respondWithReviewError(w, logger, err, "")
}

// respondWithReviewError is respondWithDomainError for workflow steps that move
// the review session; a non-empty state is reported as details.state.
func respondWithReviewError(w http.ResponseWriter, logger *zap.Logger, err error, state domain.ReviewState) {
	status, message, details := classifyError(logger, err)
	if state != "" {
		if details == nil {
			details = make(map[string]interface{})
		}
		details[middleware.DetailState] = state
	}
	middleware.RespondWithErrorDetails(w, status, message, details)
}

func classifyError(logger *zap.Logger, err error) (int, string, map[string]interface{}) {
	var (
		validationErr *domain.ValidationError
		transportErr  *domain.TransportError
	)

	// Transport is checked first so sentinels wrapped inside an upstream failure
	// never read as client mistakes.
	switch {
	case errors.As(err, &transportErr):
		logger.Error("Catalog request failed",
			zap.String("op", transportErr.Op),
			zap.Int("status_code", transportErr.StatusCode),
			zap.Error(err),
		)
		return http.StatusBadGateway, "failed to reach the product catalog", nil
	case errors.As(err, &validationErr):
		logger.Debug("Catalog rejected update", zap.Error(err))
		return http.StatusUnprocessableEntity, "validation failed", map[string]interface{}{
			middleware.DetailValidationErrors: fieldErrors(validationErr),
		}
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, "product not found", nil
	case errors.Is(err, domain.ErrInvalidProductID):
		return http.StatusBadRequest, "invalid product id", nil
	case errors.Is(err, domain.ErrInvalidAction):
		return http.StatusBadRequest, "unrecognized action", nil
	case errors.Is(err, domain.ErrGeneratorUnavailable):
		logger.Warn("Metadata generator failed", zap.Error(err))
		return http.StatusServiceUnavailable, "metadata generator unavailable", nil
	case errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusNotFound, "optimization history is not enabled", nil
	default:
		logger.Error("Unhandled error", zap.Error(err))
		return http.StatusInternalServerError, "internal server error", nil
	}
}

func fieldErrors(err *domain.ValidationError) []middleware.ValidationError {
	out := make([]middleware.ValidationError, 0, len(err.Fields))
	for _, f := range err.Fields {
		out = append(out, middleware.ValidationError{Field: f.Field, Message: f.Message})
	}
	return out
}
