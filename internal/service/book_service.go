package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"library-system/internal/dto"
	"library-system/internal/model"
	"library-system/internal/repository"
	apperrors "library-system/pkg/errors"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrCopiesBelowBorrowed = errors.New("cannot reduce total copies below copies currently on loan")
	ErrBookHasActiveLoans  = errors.New("book cannot be deleted while loans are active")
)

// BookService handles the admin inventory operations and book listings.
type BookService interface {
	Create(ctx context.Context, req *dto.CreateBookRequest) (*dto.BookResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateBookRequest) (*dto.BookResponse, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*dto.BookResponse, error)
	List(ctx context.Context, page *dto.PaginationRequest) ([]dto.BookResponse, int64, error)
	ListAvailable(ctx context.Context, page *dto.PaginationRequest) ([]dto.BookResponse, int64, error)
}

type bookService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewBookService creates the BookService.
func NewBookService(repo *repository.Repository, logger *zap.Logger) BookService {
	return &bookService{repo: repo, logger: logger}
}

func (s *bookService) Create(ctx context.Context, req *dto.CreateBookRequest) (*dto.BookResponse, error) {
	book := &model.Book{
		Title:       req.Title,
		Author:      req.Author,
		TotalCopies: req.TotalCopies,
		// A new title starts fully on the shelf.
		AvailableCopies: req.TotalCopies,
	}

	if err := s.repo.Book.Create(ctx, book); err != nil {
		s.logger.Error("create book failed", zap.Error(err))
		return nil, err
	}

	resp := toBookResponse(book)
	return &resp, nil
}

func (s *bookService) Update(ctx context.Context, id string, req *dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := s.repo.Book.UpdateDetails(ctx, id, req.Title, req.Author, req.TotalCopies)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, apperrors.ErrCopiesBelowBorrowed):
			return nil, ErrCopiesBelowBorrowed
		}
		s.logger.Error("update book failed", zap.Error(err), zap.String("book_id", id))
		return nil, err
	}

	resp := toBookResponse(book)
	return &resp, nil
}

func (s *bookService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Book.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return ErrBookNotFound
		case errors.Is(err, apperrors.ErrBookHasActiveLoans):
			return ErrBookHasActiveLoans
		}
		s.logger.Error("delete book failed", zap.Error(err), zap.String("book_id", id))
		return err
	}
	return nil
}

func (s *bookService) GetByID(ctx context.Context, id string) (*dto.BookResponse, error) {
	book, err := s.repo.Book.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		s.logger.Error("get book failed", zap.Error(err), zap.String("book_id", id))
		return nil, err
	}

	resp := toBookResponse(book)
	return &resp, nil
}

func (s *bookService) List(ctx context.Context, page *dto.PaginationRequest) ([]dto.BookResponse, int64, error) {
	books, total, err := s.repo.Book.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("list books failed", zap.Error(err))
		return nil, 0, err
	}
	return toBookResponses(books), total, nil
}

func (s *bookService) ListAvailable(ctx context.Context, page *dto.PaginationRequest) ([]dto.BookResponse, int64, error) {
	books, total, err := s.repo.Book.ListAvailable(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("list available books failed", zap.Error(err))
		return nil, 0, err
	}
	return toBookResponses(books), total, nil
}

func toBookResponse(book *model.Book) dto.BookResponse {
	return dto.BookResponse{
		ID:              book.BookID,
		Title:           book.Title,
		Author:          book.Author,
		TotalCopies:     book.TotalCopies,
		AvailableCopies: book.AvailableCopies,
	}
}

func toBookResponses(books []model.Book) []dto.BookResponse {
	result := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		result = append(result, toBookResponse(&books[i]))
	}
	return result
}
