package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gdugdh24/yuelao-backend/internal/domain"
	"github.com/gdugdh24/yuelao-backend/internal/usecase/admin"
)

type AdminHandler struct {
	adminUseCase *admin.AdminUseCase
}

func NewAdminHandler(adminUseCase *admin.AdminUseCase) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
	}
}

// LoginRequest represents admin login request
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// SubmissionsResponse is the archive listing
type SubmissionsResponse struct {
	Count       int                        `json:"count"`
	Submissions []*domain.SubmissionRecord `json:"submissions"`
}

// Login handles POST /admin/login
// @Summary Admin login
// @Description Exchange the admin password for a bearer token
// @Tags admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Admin password"
// @Success 200 {object} admin.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	resp, err := h.adminUseCase.Login(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, err, "login failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSubmissions handles GET /admin/submissions
// @Summary List submissions
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SubmissionsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/submissions [get]
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	records, err := h.adminUseCase.ListSubmissions(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to list submissions")
		return
	}
	if records == nil {
		records = []*domain.SubmissionRecord{}
	}

	c.JSON(http.StatusOK, SubmissionsResponse{
		Count:       len(records),
		Submissions: records,
	})
}

// ClearSubmissions handles DELETE /admin/submissions
// @Summary Clear the archive
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /admin/submissions [delete]
func (h *AdminHandler) ClearSubmissions(c *gin.Context) {
	if err := h.adminUseCase.ClearSubmissions(c.Request.Context()); err != nil {
		writeError(c, err, "failed to clear submissions")
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "archive cleared",
	})
}

// Export handles GET /admin/export
// @Summary Export submissions
// @Description Download every submission as an xlsx workbook
// @Tags admin
// @Security BearerAuth
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	file, err := h.adminUseCase.Export(c.Request.Context())
	if err != nil {
		writeError(c, err, "failed to export submissions")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
