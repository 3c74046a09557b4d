package domain

// Usuario Model
type Usuario struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                // Primary key
	Nome      string `gorm:"not null" json:"nome"`                // Display name
	Email     string `gorm:"unique;not null" json:"email"`        // Unique login email
	SenhaHash string `gorm:"column:senha_hash;not null" json:"-"` // Bcrypt hash, never serialized
	IsAdmin   bool   `gorm:"default:false" json:"is_admin"`       // Admin capability flag
}

// TableName keeps the original schema's table name
func (Usuario) TableName() string { return "usuarios" }
