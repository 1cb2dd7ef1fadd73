package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-system/internal/dto"
	"library-system/internal/service"
	"library-system/pkg/response"
)

// UserHandler serves the admin account-management endpoints.
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates the UserHandler.
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ApproveStudent marks a student account approved (admin).
// PUT /api/v1/approve/:userId
func (h *UserHandler) ApproveStudent(c *gin.Context) {
	user, err := h.userSvc.Approve(c.Request.Context(), c.Param("userId"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, response.CodeNotFound, "user not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, "user approved successfully", user)
}

// ListStudents lists student accounts with approval state (admin).
// GET /api/v1/students?page&limit
func (h *UserHandler) ListStudents(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid pagination parameters")
		return
	}

	students, total, err := h.userSvc.ListStudents(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, "students", students, total, page.GetPage(), page.GetPageSize())
}
