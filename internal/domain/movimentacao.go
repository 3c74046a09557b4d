package domain

// Movimentacao Model: a single income ("entrada") or expense ("gasto") ledger entry
type Movimentacao struct {
	ID          uint    `gorm:"primaryKey" json:"id"`             // Primary key
	UsuarioID   uint    `gorm:"not null;index" json:"usuario_id"` // Owning user
	Tipo        string  `gorm:"not null" json:"tipo"`             // "entrada" or "gasto"
	Valor       float64 `gorm:"not null" json:"valor"`            // Amount
	Detalhes    *string `json:"detalhes"`                         // Optional free-text note
	CategoriaID *uint   `gorm:"index" json:"categoria_id"`        // NULL for entradas
	Data        string  `gorm:"not null;index" json:"data"`       // ISO date (YYYY-MM-DD)
}

// TableName keeps the original schema's table name
func (Movimentacao) TableName() string { return "movimentacoes" }
