package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"website_backend/internal/intent/service"
	"website_backend/internal/intent/transport"
	"website_backend/platform/httpkit"
	"website_backend/platform/validator"
)

// Handler handles HTTP requests for intent detection.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new intent handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Detect classifies one chat message.
// POST /api/v1/intent/detect
func (h *Handler) Detect(c *gin.Context) {
	var req transport.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, h.svc.Detect(c.Request.Context(), req))
}

// DetectBatch classifies several chat messages.
// POST /api/v1/intent/detect/batch
func (h *Handler) DetectBatch(c *gin.Context) {
	var req transport.BatchDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.DetectBatch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListRouting returns the routing table.
// GET /api/v1/intent/routing
func (h *Handler) ListRouting(c *gin.Context) {
	var req transport.RoutingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	httpkit.OK(c, h.svc.RoutingTable(req))
}

// GetRouting returns the routing entry for one intent.
// GET /api/v1/intent/routing/:intent
func (h *Handler) GetRouting(c *gin.Context) {
	result, err := h.svc.Routing(c.Param("intent"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
