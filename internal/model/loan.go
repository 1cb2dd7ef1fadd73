package model

import "time"

// LoanRecord — table loan_records. One row per borrow event, updated exactly
// once when the book comes back. Rows are never deleted.
//
// DueAmount is stored but never computed from elapsed time; fine calculation
// is outside this service.
type LoanRecord struct {
	LoanID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"loan_id"`
	UserID     string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	BookID     string     `gorm:"type:uuid;not null;index"                       json:"book_id"`
	IssueDate  time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"issue_date"`
	ReturnDate *time.Time `gorm:"type:timestamptz"                               json:"return_date,omitempty"`
	DueAmount  float64    `gorm:"type:numeric(10,2);not null;default:0"          json:"due_amount"`
	Status     string     `gorm:"type:varchar(20);not null;default:'borrowed'"   json:"status"`
	BaseModel

	// Weak references, preloaded for listings. Deleting a book is blocked
	// while active loans exist; closed loans may outlive their book.
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
	Book *Book `gorm:"foreignKey:BookID;references:BookID" json:"book,omitempty"`
}

// TableName sets the table name.
func (LoanRecord) TableName() string { return "loan_records" }
