package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the catalog lifecycle state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusDraft    ProductStatus = "DRAFT"
	ProductStatusArchived ProductStatus = "ARCHIVED"
)

// Product represents a product in the merchant's catalog
type Product struct {
	ID               ProductID     `json:"id"`
	Title            string        `json:"title"`
	Status           ProductStatus `json:"status"`
	DescriptionHTML  string        `json:"descriptionHtml"`
	FeaturedImageURL string        `json:"featuredImageUrl,omitempty"`
}

// MetadataSuggestion holds generated SEO fields awaiting merchant approval.
// It is never persisted on its own.
type MetadataSuggestion struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
}

// OptimizationRequest is the generator input. ProductDescription is plain text.
type OptimizationRequest struct {
	ProductName        string
	ProductDescription string
}

// AppliedOptimization is an audit record written after a successful apply
type AppliedOptimization struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Shop          string    `json:"shop" db:"shop"`
	ProductID     ProductID `json:"productId" db:"product_id"`
	PreviousTitle string    `json:"previousTitle" db:"previous_title"`
	NewTitle      string    `json:"newTitle" db:"new_title"`
	Generator     string    `json:"generator" db:"generator"`
	AppliedAt     time.Time `json:"appliedAt" db:"applied_at"`
}

// ReviewState is the client-observable stage of one review session
type ReviewState string

const (
	ReviewStateViewingOriginal            ReviewState = "viewing_original"
	ReviewStateSuggestionPending          ReviewState = "suggestion_pending"
	ReviewStateApplied                    ReviewState = "applied"
	ReviewStateSuggestionPendingWithError ReviewState = "suggestion_pending_with_error"
)

// CurrentPlan is the billing plan shown on the dashboard. Plans are not persisted yet.
const CurrentPlan = "Starter"
