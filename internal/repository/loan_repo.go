package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"library-system/internal/model"
	apperrors "library-system/pkg/errors"
)

// LoanRepository is the loan ledger data access interface.
//
// Borrow and Return each run as a single transaction spanning the book and
// the loan record, so two concurrent borrows of the last copy serialize on
// the book row lock and exactly one succeeds.
type LoanRepository interface {
	// Borrow locks the book row, rejects a duplicate active loan, decrements
	// available copies with a conditional update and inserts the loan record.
	// Errors: gorm.ErrRecordNotFound (book missing),
	// ErrDuplicateActiveLoan, ErrNoCopiesAvailable.
	Borrow(ctx context.Context, userID, bookID string) (*model.LoanRecord, error)
	// Return closes a borrowed loan and increments the book's available
	// copies. A missing book is tolerated: the loan still closes.
	// Errors: gorm.ErrRecordNotFound (loan missing), ErrLoanAlreadyReturned.
	Return(ctx context.Context, loanID string) (*model.LoanRecord, error)
	GetByID(ctx context.Context, id string) (*model.LoanRecord, error)
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LoanRecord, int64, error)
	ListActive(ctx context.Context, offset, limit int) ([]model.LoanRecord, int64, error)
	ListActiveAll(ctx context.Context) ([]model.LoanRecord, error)
}

type loanRepo struct {
	db *gorm.DB
}

// NewLoanRepo creates the GORM-backed LoanRepository.
func NewLoanRepo(db *gorm.DB) LoanRepository {
	return &loanRepo{db: db}
}

func (r *loanRepo) Borrow(ctx context.Context, userID, bookID string) (*model.LoanRecord, error) {
	var loan *model.LoanRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the book row for the duration of the transaction.
		var book model.Book
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("book_id = ?", bookID).
			First(&book).Error; err != nil {
			return err
		}

		var active int64
		if err := tx.Model(&model.LoanRecord{}).
			Where("user_id = ? AND book_id = ? AND status = ?", userID, bookID, model.LoanStatusBorrowed).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return apperrors.ErrDuplicateActiveLoan
		}

		// Conditional decrement: zero rows affected means the last copy went
		// out between the read and the write (or there were none).
		res := tx.Model(&model.Book{}).
			Where("book_id = ? AND available_copies > 0", bookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNoCopiesAvailable
		}

		loan = &model.LoanRecord{
			UserID:    userID,
			BookID:    bookID,
			IssueDate: time.Now(),
			DueAmount: 0,
			Status:    model.LoanStatusBorrowed,
		}
		if err := tx.Create(loan).Error; err != nil {
			// The partial unique index on active (user, book) loans backstops
			// the count above; surface it as the same duplicate error.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateActiveLoan
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (r *loanRepo) Return(ctx context.Context, loanID string) (*model.LoanRecord, error) {
	var loan model.LoanRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("loan_id = ?", loanID).
			First(&loan).Error; err != nil {
			return err
		}

		if loan.Status == model.LoanStatusReturned {
			return apperrors.ErrLoanAlreadyReturned
		}

		// Conditional flip: zero rows affected means another return closed
		// the loan first, so the book increment below must not run again.
		now := time.Now()
		res := tx.Model(&model.LoanRecord{}).
			Where("loan_id = ? AND status = ?", loanID, model.LoanStatusBorrowed).
			Updates(map[string]interface{}{
				"status":      model.LoanStatusReturned,
				"return_date": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrLoanAlreadyReturned
		}
		loan.Status = model.LoanStatusReturned
		loan.ReturnDate = &now

		// The book may have been deleted after the loan closed out its
		// inventory; a missing row is not an error for the return itself.
		return tx.Model(&model.Book{}).
			Where("book_id = ?", loan.BookID).
			UpdateColumn("available_copies", gorm.Expr("available_copies + 1")).Error
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) GetByID(ctx context.Context, id string) (*model.LoanRecord, error) {
	var loan model.LoanRecord
	err := r.db.WithContext(ctx).
		Preload("Book").
		Where("loan_id = ?", id).
		First(&loan).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.LoanRecord, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.LoanRecord{}).Where("user_id = ?", userID)
	return r.list(db, offset, limit, "Book")
}

func (r *loanRepo) ListActive(ctx context.Context, offset, limit int) ([]model.LoanRecord, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.LoanRecord{}).
		Where("status = ?", model.LoanStatusBorrowed)
	return r.list(db, offset, limit, "Book", "User")
}

func (r *loanRepo) ListActiveAll(ctx context.Context) ([]model.LoanRecord, error) {
	var loans []model.LoanRecord
	err := r.db.WithContext(ctx).
		Preload("Book").
		Preload("User").
		Where("status = ?", model.LoanStatusBorrowed).
		Order("issue_date ASC").
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepo) list(db *gorm.DB, offset, limit int, preloads ...string) ([]model.LoanRecord, int64, error) {
	var loans []model.LoanRecord
	var total int64

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	for _, p := range preloads {
		db = db.Preload(p)
	}

	if err := db.Offset(offset).Limit(limit).
		Order("issue_date DESC").
		Find(&loans).Error; err != nil {
		return nil, 0, err
	}

	return loans, total, nil
}
