package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-system/internal/model"
	apperrors "library-system/pkg/errors"
)

// BookRepository is the inventory data access interface. Updates that touch
// copy counts run inside a transaction with the book row locked, so the
// 0 <= available <= total invariant holds under concurrent requests.
type BookRepository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id string) (*model.Book, error)
	// UpdateDetails changes title/author/total copies in one guarded write.
	// Changing total copies shifts available copies by the same delta and
	// fails with ErrCopiesBelowBorrowed if that would go negative.
	UpdateDetails(ctx context.Context, id string, title, author *string, totalCopies *int) (*model.Book, error)
	// Delete removes a book; fails with ErrBookHasActiveLoans while open
	// loans still reference it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]model.Book, int64, error)
	ListAvailable(ctx context.Context, offset, limit int) ([]model.Book, int64, error)
}

type bookRepo struct {
	db *gorm.DB
}

// NewBookRepo creates the GORM-backed BookRepository.
func NewBookRepo(db *gorm.DB) BookRepository {
	return &bookRepo{db: db}
}

func (r *bookRepo) Create(ctx context.Context, book *model.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepo) GetByID(ctx context.Context, id string) (*model.Book, error) {
	var book model.Book
	err := r.db.WithContext(ctx).
		Where("book_id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) UpdateDetails(ctx context.Context, id string, title, author *string, totalCopies *int) (*model.Book, error) {
	var book model.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("book_id = ?", id).
			First(&book).Error; err != nil {
			return err
		}

		if title != nil {
			book.Title = *title
		}
		if author != nil {
			book.Author = *author
		}
		if totalCopies != nil {
			delta := *totalCopies - book.TotalCopies
			if book.AvailableCopies+delta < 0 {
				return apperrors.ErrCopiesBelowBorrowed
			}
			book.TotalCopies = *totalCopies
			book.AvailableCopies += delta
		}

		return tx.Save(&book).Error
	})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *bookRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		if err := tx.Model(&model.LoanRecord{}).
			Where("book_id = ? AND status = ?", id, model.LoanStatusBorrowed).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.ErrBookHasActiveLoans
		}

		res := tx.Where("book_id = ?", id).Delete(&model.Book{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *bookRepo) List(ctx context.Context, offset, limit int) ([]model.Book, int64, error) {
	return r.list(ctx, r.db.WithContext(ctx).Model(&model.Book{}), offset, limit)
}

func (r *bookRepo) ListAvailable(ctx context.Context, offset, limit int) ([]model.Book, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Book{}).Where("available_copies > 0")
	return r.list(ctx, db, offset, limit)
}

func (r *bookRepo) list(_ context.Context, db *gorm.DB, offset, limit int) ([]model.Book, int64, error) {
	var books []model.Book
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("title ASC").
		Find(&books).Error; err != nil {
		return nil, 0, err
	}

	return books, total, nil
}
