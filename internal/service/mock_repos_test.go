package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"library-system/internal/model"
	"library-system/internal/repository"
	apperrors "library-system/pkg/errors"
)

// mockStore backs the in-memory repositories. Borrow/Return span books and
// loans, so all three repositories share one store and one mutex; the mutex
// stands in for the database transaction.
type mockStore struct {
	mu    sync.Mutex
	users map[string]*model.User
	books map[string]*model.Book
	loans map[string]*model.LoanRecord
	seq   int
}

func newMockStore() *mockStore {
	return &mockStore{
		users: make(map[string]*model.User),
		books: make(map[string]*model.Book),
		loans: make(map[string]*model.LoanRecord),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func newMockRepository() (*repository.Repository, *mockStore) {
	s := newMockStore()
	return &repository.Repository{
		User: &mockUserRepo{store: s},
		Book: &mockBookRepo{store: s},
		Loan: &mockLoanRepo{store: s},
	}, s
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	store *mockStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if user.UserID == "" {
		user.UserID = m.store.nextID("user")
	}
	user.CreatedAt = time.Now()
	m.store.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if u, ok := m.store.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) ListByRole(_ context.Context, role string, offset, limit int) ([]model.User, int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var all []model.User
	for _, u := range m.store.users {
		if u.Role == role {
			all = append(all, *u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return paginateUsers(all, offset, limit), int64(len(all)), nil
}

func paginateUsers(all []model.User, offset, limit int) []model.User {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// ── Mock BookRepository ──

type mockBookRepo struct {
	store *mockStore
}

func (m *mockBookRepo) Create(_ context.Context, book *model.Book) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if book.BookID == "" {
		book.BookID = m.store.nextID("book")
	}
	m.store.books[book.BookID] = book
	return nil
}

func (m *mockBookRepo) GetByID(_ context.Context, id string) (*model.Book, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if b, ok := m.store.books[id]; ok {
		copied := *b
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBookRepo) UpdateDetails(_ context.Context, id string, title, author *string, totalCopies *int) (*model.Book, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	book, ok := m.store.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	if totalCopies != nil {
		delta := *totalCopies - book.TotalCopies
		if book.AvailableCopies+delta < 0 {
			return nil, apperrors.ErrCopiesBelowBorrowed
		}
	}

	if title != nil {
		book.Title = *title
	}
	if author != nil {
		book.Author = *author
	}
	if totalCopies != nil {
		delta := *totalCopies - book.TotalCopies
		book.TotalCopies = *totalCopies
		book.AvailableCopies += delta
	}

	copied := *book
	return &copied, nil
}

func (m *mockBookRepo) Delete(_ context.Context, id string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.books[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, l := range m.store.loans {
		if l.BookID == id && l.Status == model.LoanStatusBorrowed {
			return apperrors.ErrBookHasActiveLoans
		}
	}
	delete(m.store.books, id)
	return nil
}

func (m *mockBookRepo) List(_ context.Context, offset, limit int) ([]model.Book, int64, error) {
	return m.listFiltered(offset, limit, false)
}

func (m *mockBookRepo) ListAvailable(_ context.Context, offset, limit int) ([]model.Book, int64, error) {
	return m.listFiltered(offset, limit, true)
}

func (m *mockBookRepo) listFiltered(offset, limit int, availableOnly bool) ([]model.Book, int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var all []model.Book
	for _, b := range m.store.books {
		if availableOnly && b.AvailableCopies <= 0 {
			continue
		}
		all = append(all, *b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Title < all[j].Title })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock LoanRepository ──

type mockLoanRepo struct {
	store *mockStore
}

func (m *mockLoanRepo) Borrow(_ context.Context, userID, bookID string) (*model.LoanRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	book, ok := m.store.books[bookID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	for _, l := range m.store.loans {
		if l.UserID == userID && l.BookID == bookID && l.Status == model.LoanStatusBorrowed {
			return nil, apperrors.ErrDuplicateActiveLoan
		}
	}

	if book.AvailableCopies <= 0 {
		return nil, apperrors.ErrNoCopiesAvailable
	}
	book.AvailableCopies--

	loan := &model.LoanRecord{
		LoanID:    m.store.nextID("loan"),
		UserID:    userID,
		BookID:    bookID,
		IssueDate: time.Now(),
		DueAmount: 0,
		Status:    model.LoanStatusBorrowed,
	}
	m.store.loans[loan.LoanID] = loan

	copied := *loan
	return &copied, nil
}

func (m *mockLoanRepo) Return(_ context.Context, loanID string) (*model.LoanRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	loan, ok := m.store.loans[loanID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if loan.Status == model.LoanStatusReturned {
		return nil, apperrors.ErrLoanAlreadyReturned
	}

	now := time.Now()
	loan.Status = model.LoanStatusReturned
	loan.ReturnDate = &now

	if book, ok := m.store.books[loan.BookID]; ok {
		book.AvailableCopies++
	}

	copied := *loan
	return &copied, nil
}

func (m *mockLoanRepo) GetByID(_ context.Context, id string) (*model.LoanRecord, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	loan, ok := m.store.loans[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *loan
	if book, ok := m.store.books[loan.BookID]; ok {
		b := *book
		copied.Book = &b
	}
	return &copied, nil
}

func (m *mockLoanRepo) ListByUser(_ context.Context, userID string, offset, limit int) ([]model.LoanRecord, int64, error) {
	return m.listFiltered(offset, limit, func(l *model.LoanRecord) bool { return l.UserID == userID })
}

func (m *mockLoanRepo) ListActive(_ context.Context, offset, limit int) ([]model.LoanRecord, int64, error) {
	return m.listFiltered(offset, limit, func(l *model.LoanRecord) bool { return l.Status == model.LoanStatusBorrowed })
}

func (m *mockLoanRepo) ListActiveAll(ctx context.Context) ([]model.LoanRecord, error) {
	loans, _, err := m.ListActive(ctx, 0, 1<<20)
	return loans, err
}

func (m *mockLoanRepo) listFiltered(offset, limit int, match func(*model.LoanRecord) bool) ([]model.LoanRecord, int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var all []model.LoanRecord
	for _, l := range m.store.loans {
		if !match(l) {
			continue
		}
		copied := *l
		if book, ok := m.store.books[l.BookID]; ok {
			b := *book
			copied.Book = &b
		}
		if user, ok := m.store.users[l.UserID]; ok {
			u := *user
			copied.User = &u
		}
		all = append(all, copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].LoanID < all[j].LoanID })
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}
