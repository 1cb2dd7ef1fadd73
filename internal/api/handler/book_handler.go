package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"library-system/internal/dto"
	"library-system/internal/service"
	"library-system/pkg/response"
)

// BookHandler serves the inventory endpoints.
type BookHandler struct {
	bookSvc service.BookService
}

// NewBookHandler creates the BookHandler.
func NewBookHandler(bookSvc service.BookService) *BookHandler {
	return &BookHandler{bookSvc: bookSvc}
}

// CreateBook adds a book to the inventory (admin).
// POST /api/v1/books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid request body")
		return
	}

	result, err := h.bookSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, "book added successfully", result)
}

// UpdateBook changes a book's details (admin).
// PUT /api/v1/books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req dto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid request body")
		return
	}

	result, err := h.bookSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			response.NotFound(c, response.CodeNotFound, "book not found")
		case errors.Is(err, service.ErrCopiesBelowBorrowed):
			response.BadRequest(c, response.CodeInvalidState, "cannot reduce copies below currently borrowed amount")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, "book updated", result)
}

// DeleteBook removes a book (admin). Books with active loans are refused.
// DELETE /api/v1/books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.bookSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			response.NotFound(c, response.CodeNotFound, "book not found")
		case errors.Is(err, service.ErrBookHasActiveLoans):
			response.Conflict(c, response.CodeConflict, "book has active loans")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, "book deleted successfully", nil)
}

// GetBook fetches a single book.
// GET /api/v1/books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	result, err := h.bookSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			response.NotFound(c, response.CodeNotFound, "book not found")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, "book", result)
}

// ListBooks lists the full inventory.
// GET /api/v1/books?page&limit
func (h *BookHandler) ListBooks(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid pagination parameters")
		return
	}

	books, total, err := h.bookSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, "books", books, total, page.GetPage(), page.GetPageSize())
}

// ListAvailableBooks lists books with at least one copy on the shelf.
// GET /api/v1/available-books?page&limit
func (h *BookHandler) ListAvailableBooks(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, response.CodeValidation, "invalid pagination parameters")
		return
	}

	books, total, err := h.bookSvc.ListAvailable(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, "available books", books, total, page.GetPage(), page.GetPageSize())
}
