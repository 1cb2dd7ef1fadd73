package repository

import "gorm.io/gorm"

// Repository aggregates all repositories.
type Repository struct {
	User UserRepository
	Book BookRepository
	Loan LoanRepository
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User: NewUserRepo(db),
		Book: NewBookRepo(db),
		Loan: NewLoanRepo(db),
	}
}
