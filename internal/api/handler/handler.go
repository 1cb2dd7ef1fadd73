package handler

import "library-system/internal/service"

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth   *AuthHandler
	Book   *BookHandler
	Loan   *LoanHandler
	User   *UserHandler
	Export *ExportHandler
}

// NewHandler wires the handlers to their services.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:   NewAuthHandler(svc.Auth),
		Book:   NewBookHandler(svc.Book),
		Loan:   NewLoanHandler(svc.Loan),
		User:   NewUserHandler(svc.User),
		Export: NewExportHandler(svc.Export),
	}
}
