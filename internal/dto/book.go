package dto

// ── Book requests ──

// CreateBookRequest adds a title to the inventory. Available copies start
// equal to total copies.
type CreateBookRequest struct {
	Title       string `json:"title"        binding:"required,max=255"`
	Author      string `json:"author"       binding:"required,max=255"`
	TotalCopies int    `json:"total_copies" binding:"required,min=1"`
}

// UpdateBookRequest patches a book. Nil fields are left unchanged; changing
// TotalCopies shifts AvailableCopies by the same delta.
type UpdateBookRequest struct {
	Title       *string `json:"title"        binding:"omitempty,max=255"`
	Author      *string `json:"author"       binding:"omitempty,max=255"`
	TotalCopies *int    `json:"total_copies" binding:"omitempty,min=0"`
}

// ── Book responses ──

// BookResponse is the public view of a book.
type BookResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}
