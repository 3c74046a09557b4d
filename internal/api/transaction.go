package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"bolso_aberto/internal/domain"     // Importing domain models
	"bolso_aberto/internal/middleware" // For the verified claims
	"bolso_aberto/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Request struct for creating/updating a movimentação
type MovimentacaoRequest struct {
	Tipo        string  `json:"tipo" binding:"required"`       // "entrada" or "gasto"
	Valor       float64 `json:"valor" binding:"required,gt=0"` // Amount
	Detalhes    *string `json:"detalhes"`                      // Optional free-text note
	CategoriaID *uint   `json:"categoria_id"`                  // Required for gastos
	Data        string  `json:"data" binding:"required"`       // ISO date (YYYY-MM-DD)
}

// categoriaFinal applies the category rules: a gasto requires one, an
// entrada (or an absent id) forces NULL. Returns false when the request
// is a gasto with no category.
func (r *MovimentacaoRequest) categoriaFinal() (*uint, bool) {
	if r.Tipo == "gasto" && r.CategoriaID == nil {
		return nil, false // Category is mandatory for expenses
	}
	if r.Tipo == "entrada" || r.CategoriaID == nil {
		return nil, true // Incomes never carry a category
	}
	return r.CategoriaID, true
}

// MovimentacaoRow is a ledger row joined with its category name
type MovimentacaoRow struct {
	ID            uint    `json:"id"`             // Row ID
	Tipo          string  `json:"tipo"`           // "entrada" or "gasto"
	Valor         float64 `json:"valor"`          // Amount
	Detalhes      *string `json:"detalhes"`       // Optional note
	Data          string  `json:"data"`           // ISO date
	CategoriaNome *string `json:"categoria_nome"` // NULL for uncategorized rows
	CategoriaID   *uint   `json:"categoria_id"`   // NULL for entradas
}

// CreateMovimentacaoHandler inserts a ledger entry for the authenticated user
func CreateMovimentacaoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		var req MovimentacaoRequest           // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes: tipo, valor e data."})
			return
		}
		categoria, ok := req.categoriaFinal() // Apply the category rules
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A categoria é obrigatória para gastos."})
			return
		}
		mov := domain.Movimentacao{
			UsuarioID:   claims.UserID, // Owner is always the caller
			Tipo:        req.Tipo,
			Valor:       req.Valor,
			Detalhes:    req.Detalhes,
			CategoriaID: categoria,
			Data:        req.Data,
		}
		if err := db.Create(&mov).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID, // Owner
				"tipo":    req.Tipo,      // Entry kind
				"error":   err.Error(),   // Error message
			}).Error("Create movimentação failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao adicionar movimentação."})
			return
		}
		// Log the mutation
		logrus.WithFields(logrus.Fields{
			"user_id": claims.UserID, // Owner
			"mov_id":  mov.ID,        // New row ID
			"tipo":    req.Tipo,      // Entry kind
			"valor":   req.Valor,     // Amount
		}).Info("Movimentação created")
		invalidateResumoCache(rdb, claims.UserID) // Reports are stale now
		c.JSON(http.StatusCreated, gin.H{"id": mov.ID, "message": "Movimentação adicionada com sucesso!"})
	}
}

// UpdateMovimentacaoHandler rewrites a ledger entry. Ownership is folded into
// the row-match condition: updating someone else's row matches zero rows.
func UpdateMovimentacaoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		var req MovimentacaoRequest           // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Campos obrigatórios ausentes: tipo, valor e data."})
			return
		}
		categoria, ok := req.categoriaFinal() // Apply the category rules
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A categoria é obrigatória para gastos."})
			return
		}
		// A map is needed so categoria_id can be written back to NULL
		res := db.Model(&domain.Movimentacao{}).
			Where("id = ? AND usuario_id = ?", c.Param("id"), claims.UserID).
			Updates(map[string]any{
				"tipo":         req.Tipo,
				"categoria_id": categoria,
				"valor":        req.Valor,
				"detalhes":     req.Detalhes,
				"data":         req.Data,
			})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao atualizar transação."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada ou acesso negado."})
			return
		}
		invalidateResumoCache(rdb, claims.UserID) // Reports are stale now
		c.JSON(http.StatusOK, gin.H{"message": "Transação atualizada com sucesso."})
	}
}

// DeleteMovimentacaoHandler removes a ledger entry owned by the caller
func DeleteMovimentacaoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		res := db.Where("id = ? AND usuario_id = ?", c.Param("id"), claims.UserID).
			Delete(&domain.Movimentacao{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno do servidor ao tentar excluir a movimentação."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movimentação não encontrada ou acesso negado."})
			return
		}
		invalidateResumoCache(rdb, claims.UserID) // Reports are stale now
		c.Status(http.StatusNoContent)
	}
}

// ListMovimentacoesHandler returns the caller's ledger, newest first, joined
// with category names. The date filter only applies when BOTH bounds are given.
func ListMovimentacoesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c)  // Verified identity
		dataInicial := c.Query("data_inicial") // Optional range start
		dataFinal := c.Query("data_final")     // Optional range end

		query := db.Table("movimentacoes m").
			Select("m.id, m.tipo, m.valor, m.detalhes, m.data, c.nome AS categoria_nome, c.id AS categoria_id").
			Joins("LEFT JOIN categorias c ON m.categoria_id = c.id").
			Where("m.usuario_id = ?", claims.UserID)
		// Both-or-neither policy: a single bound is ignored
		if dataInicial != "" && dataFinal != "" {
			query = query.Where("m.data BETWEEN ? AND ?", dataInicial, dataFinal)
		}

		var rows []MovimentacaoRow
		if err := query.Order("m.data DESC").Scan(&rows).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar movimentações"})
			return
		}
		if rows == nil {
			rows = []MovimentacaoRow{} // Serialize as [] rather than null
		}
		c.JSON(http.StatusOK, gin.H{"movimentacoes": rows})
	}
}

// MovimentacaoDetail is the single-row fetch shape: the owner is implied
// by the token, so usuario_id stays out of the body
type MovimentacaoDetail struct {
	ID          uint    `json:"id"`           // Row ID
	Tipo        string  `json:"tipo"`         // "entrada" or "gasto"
	CategoriaID *uint   `json:"categoria_id"` // NULL for entradas
	Valor       float64 `json:"valor"`        // Amount
	Detalhes    *string `json:"detalhes"`     // Optional note
	Data        string  `json:"data"`         // ISO date
}

// GetMovimentacaoHandler fetches one ledger entry owned by the caller
func GetMovimentacaoHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		var mov MovimentacaoDetail
		err := db.Model(&domain.Movimentacao{}).
			Select("id, tipo, categoria_id, valor, detalhes, data").
			Where("id = ? AND usuario_id = ?", c.Param("id"), claims.UserID).
			First(&mov).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transação não encontrada."})
			return
		}
		c.JSON(http.StatusOK, mov)
	}
}

// invalidateResumoCache drops the user's cached resumo variants and the
// month comparison, called on every ledger write
func invalidateResumoCache(rdb *redis.Client, userID uint) {
	ctx := context.Background()
	uid := strconv.Itoa(int(userID))
	_ = utils.DeleteCacheByPrefix(ctx, rdb, "resumo:user:"+uid+":")
	_ = utils.DeleteCache(ctx, rdb, "comparativo:user:"+uid)
}
