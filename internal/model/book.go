package model

// Book — table books.
// Invariant: 0 <= available_copies <= total_copies, maintained by guarded
// updates in the repository and backed by CHECK constraints.
type Book struct {
	BookID          string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"book_id"`
	Title           string `gorm:"type:varchar(255);not null"                     json:"title"`
	Author          string `gorm:"type:varchar(255);not null"                     json:"author"`
	TotalCopies     int    `gorm:"not null;default:0"                             json:"total_copies"`
	AvailableCopies int    `gorm:"not null;default:0"                             json:"available_copies"`
	BaseModel
}

// TableName sets the table name.
func (Book) TableName() string { return "books" }
