package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"library-system/internal/model"
)

func setupTestExportService() (ExportService, *mockStore) {
	repo, store := newMockRepository()
	svc := NewExportService(repo, zap.NewNop())
	return svc, store
}

func TestExportService_NoActiveLoans(t *testing.T) {
	svc, _ := setupTestExportService()

	_, _, err := svc.ExportActiveLoans(context.Background())
	if !errors.Is(err, ErrExportNoLoans) {
		t.Fatalf("expected ErrExportNoLoans, got %v", err)
	}
}

func TestExportService_ActiveLoansWorkbook(t *testing.T) {
	svc, store := setupTestExportService()
	addBook(store, "book-a", 2, 1)
	addUser(store, "user-1", "alice@example.com", "password123", model.RoleStudent, true)
	store.loans["loan-1"] = &model.LoanRecord{
		LoanID:    "loan-1",
		UserID:    "user-1",
		BookID:    "book-a",
		IssueDate: time.Now(),
		Status:    model.LoanStatusBorrowed,
	}

	buf, filename, err := svc.ExportActiveLoans(context.Background())
	if err != nil {
		t.Fatalf("ExportActiveLoans failed: %v", err)
	}
	if buf == nil || buf.Len() == 0 {
		t.Fatal("export buffer should not be empty")
	}
	if !strings.HasPrefix(filename, "active-loans-") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename: %s", filename)
	}
}

func TestExportService_ReturnedLoansExcluded(t *testing.T) {
	svc, store := setupTestExportService()
	addBook(store, "book-a", 2, 2)
	now := time.Now()
	store.loans["loan-1"] = &model.LoanRecord{
		LoanID:     "loan-1",
		UserID:     "user-1",
		BookID:     "book-a",
		IssueDate:  now.Add(-time.Hour),
		ReturnDate: &now,
		Status:     model.LoanStatusReturned,
	}

	_, _, err := svc.ExportActiveLoans(context.Background())
	if !errors.Is(err, ErrExportNoLoans) {
		t.Fatalf("returned loans are not part of the export, got %v", err)
	}
}
