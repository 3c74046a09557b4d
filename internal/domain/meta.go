package domain

// Meta Model: a standing per-category expense target.
// At most one row per (usuario, categoria) pair; creation is an upsert on that key.
type Meta struct {
	ID          uint    `gorm:"primaryKey" json:"id"`                                          // Primary key
	UsuarioID   uint    `gorm:"not null;uniqueIndex:idx_meta_usuario_cat" json:"usuario_id"`   // Owning user
	CategoriaID uint    `gorm:"not null;uniqueIndex:idx_meta_usuario_cat" json:"categoria_id"` // Target category
	Valor       float64 `gorm:"not null" json:"valor"`                                         // Target amount
}

// TableName keeps the original schema's table name
func (Meta) TableName() string { return "metas" }
