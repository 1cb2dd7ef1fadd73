package model

// User — table users.
// Students start unapproved and cannot log in until an admin approves them;
// admins are approved at registration.
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	IsApproved   bool   `gorm:"not null;default:false"                         json:"is_approved"`
	BaseModel
}

// TableName sets the table name.
func (User) TableName() string { return "users" }
