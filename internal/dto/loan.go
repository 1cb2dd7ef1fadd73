package dto

// ── Loan requests ──

// BorrowRequest borrows one copy of a book for the calling student.
type BorrowRequest struct {
	BookID string `json:"book_id" binding:"required,uuid"`
}

// ReturnRequest closes a loan record.
type ReturnRequest struct {
	LoanID string `json:"loan_id" binding:"required,uuid"`
}

// ── Loan responses ──

// LoanResponse is the public view of a loan record.
type LoanResponse struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	IssueDate  string        `json:"issue_date"`
	ReturnDate string        `json:"return_date,omitempty"`
	DueAmount  float64       `json:"due_amount"`
	Book       *BookResponse `json:"book,omitempty"`
	Borrower   *UserResponse `json:"borrower,omitempty"`
}
