package model

import "time"

// Role values stored on users and carried in token claims.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Loan status values. A loan moves borrowed → returned exactly once.
const (
	LoanStatusBorrowed = "borrowed"
	LoanStatusReturned = "returned"
)

// BaseModel holds audit timestamps embedded by every business model.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
