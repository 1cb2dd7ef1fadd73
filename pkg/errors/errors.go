package errors

import "errors"

// Sentinels raised by the repository layer when a guarded write does not
// apply. Services match these with errors.Is and translate them into
// module-level errors.
var (
	// ErrNoCopiesAvailable: conditional decrement touched zero rows because
	// available_copies was already 0.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrDuplicateActiveLoan: the borrower already holds an open loan for the
	// same book.
	ErrDuplicateActiveLoan = errors.New("active loan already exists for this book")

	// ErrLoanAlreadyReturned: the loan record was already closed.
	ErrLoanAlreadyReturned = errors.New("loan record already returned")

	// ErrCopiesBelowBorrowed: reducing total copies would push available
	// copies negative.
	ErrCopiesBelowBorrowed = errors.New("total copies cannot drop below copies on loan")

	// ErrBookHasActiveLoans: the book cannot be deleted while open loans
	// still reference it.
	ErrBookHasActiveLoans = errors.New("book has active loans")
)
