package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-system/internal/dto"
	"library-system/internal/model"
	"library-system/internal/repository"
	apperrors "library-system/pkg/errors"
)

var (
	ErrBookNotAvailable = errors.New("book not available")
	ErrAlreadyBorrowed  = errors.New("you have already borrowed this book")
	ErrLoanNotFound     = errors.New("loan record not found")
	ErrAlreadyReturned  = errors.New("loan record already returned")
	ErrNotLoanOwner     = errors.New("loan record belongs to another user")
)

// LoanService handles the borrow/return lifecycle.
type LoanService interface {
	// Borrow creates a loan for the caller. Missing books and exhausted
	// copies both surface as ErrBookNotAvailable.
	Borrow(ctx context.Context, userID, bookID string) (*dto.LoanResponse, error)
	// Return closes a loan. Students may only return their own loans;
	// admins may close any.
	Return(ctx context.Context, loanID, callerID, callerRole string) (*dto.LoanResponse, error)
	ListByUser(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.LoanResponse, int64, error)
	ListActive(ctx context.Context, page *dto.PaginationRequest) ([]dto.LoanResponse, int64, error)
}

type loanService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLoanService creates the LoanService.
func NewLoanService(repo *repository.Repository, logger *zap.Logger) LoanService {
	return &loanService{repo: repo, logger: logger}
}

func (s *loanService) Borrow(ctx context.Context, userID, bookID string) (*dto.LoanResponse, error) {
	loan, err := s.repo.Loan.Borrow(ctx, userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound),
			errors.Is(err, apperrors.ErrNoCopiesAvailable):
			return nil, ErrBookNotAvailable
		case errors.Is(err, apperrors.ErrDuplicateActiveLoan):
			return nil, ErrAlreadyBorrowed
		}
		s.logger.Error("borrow failed", zap.Error(err),
			zap.String("user_id", userID), zap.String("book_id", bookID))
		return nil, err
	}

	resp := toLoanResponse(loan)
	return &resp, nil
}

func (s *loanService) Return(ctx context.Context, loanID, callerID, callerRole string) (*dto.LoanResponse, error) {
	loan, err := s.repo.Loan.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLoanNotFound
		}
		s.logger.Error("get loan failed", zap.Error(err), zap.String("loan_id", loanID))
		return nil, err
	}

	if callerRole != model.RoleAdmin && loan.UserID != callerID {
		return nil, ErrNotLoanOwner
	}

	closed, err := s.repo.Loan.Return(ctx, loanID)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrLoanNotFound
		case errors.Is(err, apperrors.ErrLoanAlreadyReturned):
			return nil, ErrAlreadyReturned
		}
		s.logger.Error("return failed", zap.Error(err), zap.String("loan_id", loanID))
		return nil, err
	}

	resp := toLoanResponse(closed)
	return &resp, nil
}

func (s *loanService) ListByUser(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.LoanResponse, int64, error) {
	loans, total, err := s.repo.Loan.ListByUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("list user loans failed", zap.Error(err), zap.String("user_id", userID))
		return nil, 0, err
	}
	return toLoanResponses(loans), total, nil
}

func (s *loanService) ListActive(ctx context.Context, page *dto.PaginationRequest) ([]dto.LoanResponse, int64, error) {
	loans, total, err := s.repo.Loan.ListActive(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("list active loans failed", zap.Error(err))
		return nil, 0, err
	}
	return toLoanResponses(loans), total, nil
}

func toLoanResponse(loan *model.LoanRecord) dto.LoanResponse {
	resp := dto.LoanResponse{
		ID:        loan.LoanID,
		Status:    loan.Status,
		IssueDate: loan.IssueDate.Format(time.RFC3339),
		DueAmount: loan.DueAmount,
	}
	if loan.ReturnDate != nil {
		resp.ReturnDate = loan.ReturnDate.Format(time.RFC3339)
	}
	if loan.Book != nil {
		book := toBookResponse(loan.Book)
		resp.Book = &book
	}
	if loan.User != nil {
		borrower := toUserResponse(loan.User)
		resp.Borrower = &borrower
	}
	return resp
}

func toLoanResponses(loans []model.LoanRecord) []dto.LoanResponse {
	result := make([]dto.LoanResponse, 0, len(loans))
	for i := range loans {
		result = append(result, toLoanResponse(&loans[i]))
	}
	return result
}
