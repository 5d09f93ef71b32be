package transport

import (
	"errors"
	"net/http"

	"seo-optimizer/internal/domain"
	"seo-optimizer/internal/middleware"
	"seo-optimizer/internal/plaintext"
	"seo-optimizer/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	actionOptimize = "optimize"
	actionSave     = "save"

	maxFormBytes = 1 << 20
)

// OptimizeForm is the action=optimize payload. Any text is accepted, an empty
// name included.
type OptimizeForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// SaveForm is the action=save payload. Title length is left to the catalog so
// its field message reaches the merchant unchanged. DescriptionHTML must be
// posted, even empty, so a missing field never clears the description.
type SaveForm struct {
	Title           string  `form:"title" validate:"required"`
	DescriptionHTML *string `form:"descriptionHtml" validate:"required"`
}

// ReviewResponse is the review page payload
type ReviewResponse struct {
	Product          *domain.Product    `json:"product"`
	DescriptionPlain string             `json:"descriptionPlain"`
	State            domain.ReviewState `json:"state"`
	Generator        string             `json:"generator"`
}

// SuggestionResponse carries a generated suggestion awaiting approval
type SuggestionResponse struct {
	Suggestion domain.MetadataSuggestion `json:"suggestion"`
	State      domain.ReviewState        `json:"state"`
	Generator  string                    `json:"generator"`
}

// ApplyResponse is returned after the catalog accepted an update
type ApplyResponse struct {
	Product *domain.Product    `json:"product"`
	State   domain.ReviewState `json:"state"`
}

// HistoryResponse lists applied optimizations for one product
type HistoryResponse struct {
	ProductID string                        `json:"productId"`
	Records   []*domain.AppliedOptimization `json:"records"`
}

// OptimizeHandler serves the optimization workflow
type OptimizeHandler struct {
	optimizationService service.OptimizationService
	logger              *zap.Logger
}

// NewOptimizeHandler creates a new OptimizeHandler
func NewOptimizeHandler(optimizationService service.OptimizationService, logger *zap.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		optimizationService: optimizationService,
		logger:              logger,
	}
}

// RegisterRoutes registers all workflow routes
func (h *OptimizeHandler) RegisterRoutes(r chi.Router) {
	r.Route("/optimize/{id}", func(r chi.Router) {
		r.Get("/", h.Review)
		r.Post("/", h.Submit)
		r.Get("/history", h.History)
	})
}

// Review handles GET /optimize/{id}
func (h *OptimizeHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := domain.FromLocalID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	product, err := h.optimizationService.LoadProduct(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	plain, err := plaintext.FromHTML(product.DescriptionHTML)
	if err != nil {
		h.logger.Warn("Failed to strip description markup",
			zap.String("product_id", id.ExternalID()),
			zap.Error(err),
		)
	}

	middleware.RespondWithJSON(w, http.StatusOK, ReviewResponse{
		Product:          product,
		DescriptionPlain: plain,
		State:            domain.ReviewStateViewingOriginal,
		Generator:        h.optimizationService.GeneratorName(),
	})
}

// Submit handles POST /optimize/{id}, dispatching on the action field
func (h *OptimizeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, err := domain.FromLocalID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.logger.Debug("Form decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	action := r.PostFormValue("action")
	if action == "" {
		action = r.PostFormValue("actionType")
	}

	switch action {
	case actionOptimize:
		h.optimize(w, r)
	case actionSave:
		h.save(w, r, id)
	default:
		h.logger.Debug("Unrecognized action", zap.String("action", action))
		respondWithDomainError(w, h.logger, domain.ErrInvalidAction)
	}
}

func (h *OptimizeHandler) optimize(w http.ResponseWriter, r *http.Request) {
	form := OptimizeForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
	}

	// The review page may post the stored HTML back; the generator only sees text
	description, err := plaintext.FromHTML(form.Description)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid description")
		return
	}

	suggestion, err := h.optimizationService.RequestOptimization(r.Context(), domain.OptimizationRequest{
		ProductName:        form.Name,
		ProductDescription: description,
	})
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, SuggestionResponse{
		Suggestion: suggestion,
		State:      domain.ReviewStateSuggestionPending,
		Generator:  h.optimizationService.GeneratorName(),
	})
}

func (h *OptimizeHandler) save(w http.ResponseWriter, r *http.Request, id domain.ProductID) {
	form := SaveForm{Title: r.PostFormValue("title")}
	if values, ok := r.PostForm["descriptionHtml"]; ok && len(values) > 0 {
		form.DescriptionHTML = &values[0]
	}
	if err := middleware.ValidateRequest(&form); err != nil {
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "validation failed", map[string]interface{}{
			middleware.DetailValidationErrors: middleware.FormatValidationErrors(err),
			middleware.DetailState:            domain.ReviewStateSuggestionPendingWithError,
		})
		return
	}

	product, err := h.optimizationService.ApplyOptimization(r.Context(), id, form.Title, *form.DescriptionHTML)
	if err != nil {
		// The suggestion stays on screen; rejected fields are annotated when known
		respondWithReviewError(w, h.logger, err, domain.ReviewStateSuggestionPendingWithError)
		return
	}

	h.logger.Info("Optimization applied", zap.String("product_id", id.ExternalID()))
	middleware.RespondWithJSON(w, http.StatusOK, ApplyResponse{
		Product: product,
		State:   domain.ReviewStateApplied,
	})
}

// History handles GET /optimize/{id}/history
func (h *OptimizeHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := domain.FromLocalID(chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}

	records, err := h.optimizationService.History(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	if records == nil {
		records = []*domain.AppliedOptimization{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, HistoryResponse{
		ProductID: id.ExternalID(),
		Records:   records,
	})
}
