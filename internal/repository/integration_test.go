//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"library-system/internal/model"
	"library-system/internal/repository"
	apperrors "library-system/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5432 user=postgres password=postgres dbname=library_system_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot connect to test database: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.LoanRecord{},
	); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate failed: %v\n", err)
		os.Exit(1)
	}

	// AutoMigrate does not create partial indexes; mirror the migration.
	if err := testDB.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_loan_records_active_unique
		 ON loan_records (user_id, book_id) WHERE status = 'borrowed'`,
	).Error; err != nil {
		fmt.Fprintf(os.Stderr, "create partial index failed: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func seedUser(t *testing.T) *model.User {
	t.Helper()
	user := &model.User{
		Name:         "Test Student",
		Email:        fmt.Sprintf("student%d@example.com", time.Now().UnixNano()),
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleStudent,
		IsApproved:   true,
	}
	if err := testDB.Create(user).Error; err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("user_id = ?", user.UserID).Delete(&model.LoanRecord{})
		testDB.Where("user_id = ?", user.UserID).Delete(&model.User{})
	})
	return user
}

func seedBook(t *testing.T, total, available int) *model.Book {
	t.Helper()
	book := &model.Book{
		Title:           fmt.Sprintf("Test Book %d", time.Now().UnixNano()),
		Author:          "Test Author",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	if err := testDB.Create(book).Error; err != nil {
		t.Fatalf("seed book failed: %v", err)
	}
	t.Cleanup(func() {
		testDB.Where("book_id = ?", book.BookID).Delete(&model.LoanRecord{})
		testDB.Where("book_id = ?", book.BookID).Delete(&model.Book{})
	})
	return book
}

func reloadBook(t *testing.T, id string) *model.Book {
	t.Helper()
	var book model.Book
	if err := testDB.Where("book_id = ?", id).First(&book).Error; err != nil {
		t.Fatalf("reload book failed: %v", err)
	}
	return &book
}

// ═══════════════════════════════════════════════════════════
// Test: Concurrent Borrow (last copy)
// ═══════════════════════════════════════════════════════════

func TestLoanRepo_Borrow_ConcurrentLastCopy(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 1, 1)
	user1 := seedUser(t)
	user2 := seedUser(t)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, uid := range []string{user1.UserID, user2.UserID} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, results[i] = repo.Loan.Borrow(ctx, uid, book.BookID)
		}(i, uid)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrNoCopiesAvailable):
			rejections++
		default:
			t.Fatalf("unexpected borrow error: %v", err)
		}
	}
	if successes != 1 || rejections != 1 {
		t.Fatalf("expected exactly 1 success and 1 rejection, got %d/%d", successes, rejections)
	}

	if got := reloadBook(t, book.BookID); got.AvailableCopies != 0 {
		t.Errorf("expected available=0, got %d", got.AvailableCopies)
	}
}

func TestLoanRepo_Borrow_ConcurrentSameUser(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 2, 2)
	user := seedUser(t)

	// Both requests serialize on the book row lock; whichever runs second is
	// rejected by the active-loan check (or by the partial unique index).
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Loan.Borrow(ctx, user.UserID, book.BookID)
		}(i)
	}
	wg.Wait()

	var successes, duplicates int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrDuplicateActiveLoan):
			duplicates++
		default:
			t.Fatalf("unexpected borrow error: %v", err)
		}
	}
	if successes != 1 || duplicates != 1 {
		t.Fatalf("expected exactly 1 success and 1 duplicate rejection, got %d/%d", successes, duplicates)
	}

	if got := reloadBook(t, book.BookID); got.AvailableCopies != 1 {
		t.Errorf("expected available=1 after single borrow, got %d", got.AvailableCopies)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Concurrent Return (double return)
// ═══════════════════════════════════════════════════════════

func TestLoanRepo_Return_ConcurrentDoubleReturn(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 3, 3)
	user := seedUser(t)

	loan, err := repo.Loan.Borrow(ctx, user.UserID, book.BookID)
	if err != nil {
		t.Fatalf("borrow failed: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = repo.Loan.Return(ctx, loan.LoanID)
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrLoanAlreadyReturned):
			rejections++
		default:
			t.Fatalf("unexpected return error: %v", err)
		}
	}
	if successes != 1 || rejections != 1 {
		t.Fatalf("expected exactly 1 success and 1 rejection, got %d/%d", successes, rejections)
	}

	// The increment must have run exactly once.
	if got := reloadBook(t, book.BookID); got.AvailableCopies != 3 {
		t.Errorf("expected available=3 after single return, got %d", got.AvailableCopies)
	}
}

func TestLoanRepo_Return_AlreadyReturned(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 1, 1)
	user := seedUser(t)

	loan, err := repo.Loan.Borrow(ctx, user.UserID, book.BookID)
	if err != nil {
		t.Fatalf("borrow failed: %v", err)
	}
	if _, err := repo.Loan.Return(ctx, loan.LoanID); err != nil {
		t.Fatalf("first return failed: %v", err)
	}

	if _, err := repo.Loan.Return(ctx, loan.LoanID); !errors.Is(err, apperrors.ErrLoanAlreadyReturned) {
		t.Fatalf("expected ErrLoanAlreadyReturned, got %v", err)
	}
	if got := reloadBook(t, book.BookID); got.AvailableCopies != 1 {
		t.Errorf("second return must not change availability, got %d", got.AvailableCopies)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Inventory Edit vs on-loan copies
// ═══════════════════════════════════════════════════════════

func TestBookRepo_UpdateDetails_CopiesBelowBorrowed(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 2, 2)
	user1 := seedUser(t)
	user2 := seedUser(t)

	// Put both copies on loan.
	if _, err := repo.Loan.Borrow(ctx, user1.UserID, book.BookID); err != nil {
		t.Fatalf("borrow 1 failed: %v", err)
	}
	if _, err := repo.Loan.Borrow(ctx, user2.UserID, book.BookID); err != nil {
		t.Fatalf("borrow 2 failed: %v", err)
	}

	newTotal := 1
	_, err := repo.Book.UpdateDetails(ctx, book.BookID, nil, nil, &newTotal)
	if !errors.Is(err, apperrors.ErrCopiesBelowBorrowed) {
		t.Fatalf("expected ErrCopiesBelowBorrowed, got %v", err)
	}

	got := reloadBook(t, book.BookID)
	if got.TotalCopies != 2 || got.AvailableCopies != 0 {
		t.Errorf("rejected edit must leave the book unchanged: total=%d available=%d",
			got.TotalCopies, got.AvailableCopies)
	}
}

func TestBookRepo_UpdateDetails_ConcurrentWithBorrow(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 3, 3)
	user := seedUser(t)

	// An inventory edit and a borrow race on the same book row; the row lock
	// serializes them, so neither write may be lost.
	var wg sync.WaitGroup
	var borrowErr, updateErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, borrowErr = repo.Loan.Borrow(ctx, user.UserID, book.BookID)
	}()
	go func() {
		defer wg.Done()
		newTotal := 5
		_, updateErr = repo.Book.UpdateDetails(ctx, book.BookID, nil, nil, &newTotal)
	}()
	wg.Wait()

	if borrowErr != nil {
		t.Fatalf("borrow failed: %v", borrowErr)
	}
	if updateErr != nil {
		t.Fatalf("update failed: %v", updateErr)
	}

	// total 3→5 (+2) and one borrow (-1): available must be 3+2-1 = 4.
	got := reloadBook(t, book.BookID)
	if got.TotalCopies != 5 || got.AvailableCopies != 4 {
		t.Errorf("lost update: total=%d available=%d, want total=5 available=4",
			got.TotalCopies, got.AvailableCopies)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Delete guard
// ═══════════════════════════════════════════════════════════

func TestBookRepo_Delete_WithActiveLoans(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	book := seedBook(t, 1, 1)
	user := seedUser(t)

	if _, err := repo.Loan.Borrow(ctx, user.UserID, book.BookID); err != nil {
		t.Fatalf("borrow failed: %v", err)
	}

	if err := repo.Book.Delete(ctx, book.BookID); !errors.Is(err, apperrors.ErrBookHasActiveLoans) {
		t.Fatalf("expected ErrBookHasActiveLoans, got %v", err)
	}
}
