package domain

// Categoria Model
type Categoria struct {
	ID        uint   `gorm:"primaryKey" json:"id"`    // Primary key
	Nome      string `gorm:"not null" json:"nome"`    // Category label
	UsuarioID *uint  `gorm:"index" json:"usuario_id"` // NULL means global (visible to everyone)
}

// TableName keeps the original schema's table name
func (Categoria) TableName() string { return "categorias" }
