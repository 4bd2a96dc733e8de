package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"trueflow/internal/pkg/jwt"
	"trueflow/internal/pkg/response"
	"trueflow/internal/pkg/validator"
	"trueflow/internal/repository"
)

// LoginRequest authenticates the dashboard operator.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Handler exposes the admin login and submission dashboard endpoints.
type Handler struct {
	repo          *repository.SubmissionRepository
	jwtService    *jwt.Service
	adminEmail    string
	adminPassHash string
}

func NewHandler(repo *repository.SubmissionRepository, jwtService *jwt.Service, adminEmail, adminPassHash string) *Handler {
	return &Handler{
		repo:          repo,
		jwtService:    jwtService,
		adminEmail:    adminEmail,
		adminPassHash: adminPassHash,
	}
}

// RegisterAuthRoutes mounts the public login route.
func (h *Handler) RegisterAuthRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
}

// RegisterRoutes mounts the protected dashboard routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	submissions := r.Group("/submissions")
	{
		submissions.GET("", h.ListSubmissions)
		submissions.GET("/stats", h.GetStats)
		submissions.GET("/:id", h.GetSubmission)
	}
}

// Login handles POST /api/v1/auth/login.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if errs := validator.Validate(&req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid credentials payload", errs)
		return
	}

	if h.adminEmail == "" || h.adminPassHash == "" {
		response.Error(c, http.StatusServiceUnavailable, "ADMIN_DISABLED", "Admin access is not configured")
		return
	}

	if !strings.EqualFold(req.Email, h.adminEmail) ||
		bcrypt.CompareHashAndPassword([]byte(h.adminPassHash), []byte(req.Password)) != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}

	token, err := h.jwtService.GenerateToken(h.adminEmail, "admin")
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Could not issue token")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}

// ListSubmissions handles GET /api/v1/admin/submissions.
func (h *Handler) ListSubmissions(c *gin.Context) {
	filter := repository.ListFilter{
		Qualification: c.Query("qualification"),
		FormType:      c.Query("formType"),
	}

	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			filter.Limit = v
		}
	}
	if o := c.Query("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			filter.Offset = v
		}
	}

	submissions, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       total,
	})
}

// GetSubmission handles GET /api/v1/admin/submissions/:id.
func (h *Handler) GetSubmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid submission ID")
		return
	}

	sub, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			response.Error(c, http.StatusNotFound, "SUBMISSION_NOT_FOUND", "Submission not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, sub)
}

// GetStats handles GET /api/v1/admin/submissions/stats.
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.repo.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, stats)
}
