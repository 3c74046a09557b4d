package api

import (
	"errors"   // For gorm error matching
	"net/http" // HTTP status codes

	"bolso_aberto/internal/domain"     // Importing domain models
	"bolso_aberto/internal/middleware" // For the verified claims

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for creating/updating a meta
type MetaRequest struct {
	CategoriaID uint    `json:"categoria_id" binding:"required"` // Target category
	Valor       float64 `json:"valor" binding:"required"`        // Target amount
}

// UpsertMetaHandler creates or updates the caller's meta for a category.
// At most one meta exists per (usuario, categoria) pair: a second call with
// the same category overwrites the target amount.
func UpsertMetaHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		var req MetaRequest                   // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Categoria e valor são obrigatórios."})
			return
		}
		var existing domain.Meta
		err := db.Where("usuario_id = ? AND categoria_id = ?", claims.UserID, req.CategoriaID).
			First(&existing).Error
		switch {
		case err == nil:
			// Existing meta: overwrite the target amount
			if err := db.Model(&existing).Update("valor", req.Valor).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao gerenciar meta."})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Meta atualizada com sucesso!"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			// No meta yet: insert one
			meta := domain.Meta{
				UsuarioID:   claims.UserID,
				CategoriaID: req.CategoriaID,
				Valor:       req.Valor,
			}
			if err := db.Create(&meta).Error; err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id":      claims.UserID,   // Owner
					"categoria_id": req.CategoriaID, // Target category
					"error":        err.Error(),     // Error message
				}).Error("Create meta failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao gerenciar meta."})
				return
			}
			c.JSON(http.StatusCreated, gin.H{"id": meta.ID, "message": "Meta criada com sucesso!"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao gerenciar meta."})
		}
	}
}

// MetaStatus is a meta with its derived progress
type MetaStatus struct {
	ID            uint    `json:"id"`             // Meta ID
	CategoriaNome string  `json:"categoria_nome"` // Category label
	Valor         float64 `json:"valor"`          // Target amount
	GastoAtual    float64 `json:"gasto_atual"`    // All-time accumulated expense in the category
	Progresso     float64 `json:"progresso"`      // GastoAtual / Valor * 100
	Ultrapassada  bool    `json:"ultrapassada"`   // GastoAtual > Valor
}

// ListMetaStatusHandler computes progress for every meta the caller owns.
// Progress is measured against the ALL-TIME accumulated gasto in the
// category, not a per-month window.
func ListMetaStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		var rows []struct {
			ID            uint
			Valor         float64
			CategoriaID   uint
			CategoriaNome string
			GastoAtual    float64
		}
		err := db.Table("metas m").
			Select(`m.id, m.valor, m.categoria_id, c.nome AS categoria_nome,
				COALESCE(SUM(CASE WHEN mov.tipo = 'gasto' THEN mov.valor ELSE 0 END), 0) AS gasto_atual`).
			Joins("JOIN categorias c ON m.categoria_id = c.id").
			Joins("LEFT JOIN movimentacoes mov ON mov.usuario_id = m.usuario_id AND mov.categoria_id = m.categoria_id").
			Where("m.usuario_id = ?", claims.UserID).
			Group("m.id, m.valor, m.categoria_id, c.nome").
			Scan(&rows).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao buscar status das metas."})
			return
		}
		status := make([]MetaStatus, len(rows))
		for i, r := range rows {
			status[i] = MetaStatus{
				ID:            r.ID,
				CategoriaNome: r.CategoriaNome,
				Valor:         r.Valor,
				GastoAtual:    r.GastoAtual,
				Progresso:     r.GastoAtual / r.Valor * 100, // Valor is validated non-zero on write
				Ultrapassada:  r.GastoAtual > r.Valor,
			}
		}
		c.JSON(http.StatusOK, status)
	}
}

// DeleteMetaHandler removes a meta owned by the caller
func DeleteMetaHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		res := db.Where("id = ? AND usuario_id = ?", c.Param("id"), claims.UserID).
			Delete(&domain.Meta{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao deletar meta."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Meta não encontrada ou acesso negado."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Meta excluída com sucesso."})
	}
}
