package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"library-system/internal/repository"
)

var (
	ErrExportNoLoans      = errors.New("no active loans to export")
	ErrExportGenerateFail = errors.New("generate excel file failed")
)

// ExportService produces admin reports.
//
// The export is returned as a bytes.Buffer; the handler sets the HTTP headers
// and streams it.
type ExportService interface {
	// ExportActiveLoans renders all open loans as an .xlsx workbook.
	ExportActiveLoans(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService creates the ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

func (s *exportService) ExportActiveLoans(ctx context.Context) (*bytes.Buffer, string, error) {
	loans, err := s.repo.Loan.ListActiveAll(ctx)
	if err != nil {
		s.logger.Error("list active loans failed", zap.Error(err))
		return nil, "", err
	}
	if len(loans) == 0 {
		return nil, "", ErrExportNoLoans
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Active Loans"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Borrower", "Email", "Title", "Author", "Issued At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, "", ErrExportGenerateFail
		}
	}

	for row, loan := range loans {
		borrower, email := "(deleted user)", ""
		if loan.User != nil {
			borrower = loan.User.Name
			email = loan.User.Email
		}
		title, author := "(deleted book)", ""
		if loan.Book != nil {
			title = loan.Book.Title
			author = loan.Book.Author
		}

		values := []interface{}{
			borrower,
			email,
			title,
			author,
			loan.IssueDate.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", ErrExportGenerateFail
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write excel buffer failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("active-loans-%s.xlsx", time.Now().Format("2006-01-02"))
	return buf, filename, nil
}
