package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-system/internal/dto"
	"library-system/internal/service"
	"library-system/pkg/response"
)

// LoanHandler serves the borrow/return endpoints.
type LoanHandler struct {
	loanSvc service.LoanService
}

// NewLoanHandler creates the LoanHandler.
func NewLoanHandler(loanSvc service.LoanService) *LoanHandler {
	return &LoanHandler{loanSvc: loanSvc}
}

// Borrow borrows one copy of a book for the caller.
// POST /api/v1/borrow
func (h *LoanHandler) Borrow(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid request body")
		return
	}

	result, err := h.loanSvc.Borrow(c.Request.Context(), userID, req.BookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotAvailable):
			response.Conflict(c, response.CodeConflict, "book not available")
		case errors.Is(err, service.ErrAlreadyBorrowed):
			response.Conflict(c, response.CodeConflict, "you have already borrowed this book")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, "book borrowed successfully", result)
}

// Return closes a loan record.
// POST /api/v1/return
func (h *LoanHandler) Return(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid request body")
		return
	}

	result, err := h.loanSvc.Return(c.Request.Context(), req.LoanID, userID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLoanNotFound):
			response.NotFound(c, response.CodeNotFound, "record not found")
		case errors.Is(err, service.ErrAlreadyReturned):
			response.Conflict(c, response.CodeConflict, "already returned")
		case errors.Is(err, service.ErrNotLoanOwner):
			response.Forbidden(c, response.CodeForbidden, "loan belongs to another user")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, "book returned", result)
}

// MyLoans lists the caller's loan history.
// GET /api/v1/my-loans?page&limit
func (h *LoanHandler) MyLoans(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid pagination parameters")
		return
	}

	loans, total, err := h.loanSvc.ListByUser(c.Request.Context(), userID, &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, "my loans", loans, total, page.GetPage(), page.GetPageSize())
}

// ListActiveLoans lists all open loans (admin).
// GET /api/v1/loans?page&limit
func (h *LoanHandler) ListActiveLoans(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid pagination parameters")
		return
	}

	loans, total, err := h.loanSvc.ListActive(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, "active loans", loans, total, page.GetPage(), page.GetPageSize())
}
