package transport

import "website_backend/internal/intent/domain"

// MaxTextLength is the longest chat message accepted, in characters.
const MaxTextLength = 4000

// MaxBatchItems caps the number of messages in one batch request.
const MaxBatchItems = 20

// Detection

type DetectRequest struct {
	Text      string `json:"text" validate:"max=4000"`
	UseAI     *bool  `json:"useAI,omitempty"`
	SessionID string `json:"sessionId,omitempty" validate:"omitempty,max=128"`
	PageURL   string `json:"pageUrl,omitempty" validate:"omitempty,url,max=2048"`
}

// AIRequested reports whether the caller allows the model pass. It defaults to true.
func (r DetectRequest) AIRequested() bool {
	return r.UseAI == nil || *r.UseAI
}

type DetectResponse struct {
	Result  domain.Result   `json:"result"`
	Routing RoutingResponse `json:"routing"`
}

type BatchDetectRequest struct {
	Items []DetectRequest `json:"items" validate:"required,min=1,max=20,dive"`
}

type BatchDetectResponse struct {
	Items []DetectResponse `json:"items"`
}

// Routing

type RoutingResponse struct {
	Intent          domain.Intent `json:"intent"`
	Department      string        `json:"department"`
	Priority        int           `json:"priority"`
	AutoResponse    bool          `json:"autoResponse"`
	SuggestedAction string        `json:"suggestedAction"`
}

type RoutingListRequest struct {
	Department string `form:"department" validate:"omitempty,oneof=sales support general"`
}

type RoutingListResponse struct {
	Items []RoutingResponse `json:"items"`
}
