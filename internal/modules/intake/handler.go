package intake

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"trueflow/internal/pkg/response"
	"trueflow/internal/pkg/validator"
)

// Handler exposes the public lead intake endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public intake routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/leads/assessment", h.SubmitAssessment)
	r.POST("/leads/get-started", h.SubmitGetStarted)
}

// SubmitAssessment handles POST /api/v1/leads/assessment.
func (h *Handler) SubmitAssessment(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Unable to read request body")
		return
	}

	var req AssessmentRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if !h.validated(c, &req) {
		return
	}

	result := h.service.Process(c.Request.Context(), req.toLead(), raw)
	response.Success(c, http.StatusOK, result)
}

// SubmitGetStarted handles POST /api/v1/leads/get-started.
func (h *Handler) SubmitGetStarted(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Unable to read request body")
		return
	}

	var req GetStartedRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if !h.validated(c, &req) {
		return
	}

	result := h.service.Process(c.Request.Context(), req.toLead(), raw)
	response.Success(c, http.StatusOK, result)
}

// validated rejects invalid payloads. Missing identity fields get the
// dedicated message the marketing site's error banner keys on.
func (h *Handler) validated(c *gin.Context, req any) bool {
	errs := validator.Validate(req)
	if errs == nil {
		return true
	}

	if missing := validator.MissingFields(errs); len(missing) > 0 {
		sort.Strings(missing)
		response.Error(c, http.StatusBadRequest, "MISSING_FIELDS",
			"Missing required fields: "+strings.Join(missing, ", "))
		return false
	}

	response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid field values", errs)
	return false
}
