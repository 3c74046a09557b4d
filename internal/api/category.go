package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"bolso_aberto/internal/domain"     // Importing domain models
	"bolso_aberto/internal/middleware" // For the verified claims
	"bolso_aberto/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CategoriaResponse is a category row as the front end consumes it
type CategoriaResponse struct {
	ID   uint   `json:"id"`   // Category ID
	Nome string `json:"nome"` // Category label
}

// categoriasCacheKey is the cache key for a user's visible category list
func categoriasCacheKey(userID uint) string {
	return "categorias:user:" + strconv.Itoa(int(userID))
}

// ListCategoriasHandler returns the user's own categories plus the global ones
func ListCategoriasHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		ctx := context.Background()           // Context for Redis operations
		cacheKey := categoriasCacheKey(claims.UserID)

		var cached []CategoriaResponse
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached list
			return
		}

		var categorias []CategoriaResponse
		// Own categories OR global ones (no owner), ordered by name
		if err := db.Model(&domain.Categoria{}).
			Select("id, nome").
			Where("usuario_id = ? OR usuario_id IS NULL", claims.UserID).
			Order("nome ASC").
			Scan(&categorias).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias"})
			return
		}
		if categorias == nil {
			categorias = []CategoriaResponse{} // Serialize as [] rather than null
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, categorias, 60*time.Second) // Cache for 60 seconds
		c.JSON(http.StatusOK, categorias)
	}
}

// Request struct for category create/update (admin only)
type CategoriaRequest struct {
	Nome string `json:"nome" binding:"required"` // Label must be provided
}

// CreateCategoriaHandler creates a global category (admin only)
func CreateCategoriaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoriaRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "O nome da categoria é obrigatório."})
			return
		}
		categoria := domain.Categoria{Nome: req.Nome} // No owner: visible to every user
		if err := db.Create(&categoria).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"nome":  req.Nome,    // Attempted label
				"error": err.Error(), // Error message
			}).Error("Create categoria failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar categoria."})
			return
		}
		invalidateCategoriaCache(rdb) // Every user sees global categories
		c.JSON(http.StatusCreated, gin.H{"id": categoria.ID, "message": "Categoria criada com sucesso!"})
	}
}

// UpdateCategoriaHandler renames a category (admin only)
func UpdateCategoriaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoriaRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "O nome da categoria é obrigatório."})
			return
		}
		res := db.Model(&domain.Categoria{}).
			Where("id = ?", c.Param("id")).
			Update("nome", req.Nome)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar categoria."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada."})
			return
		}
		invalidateCategoriaCache(rdb)
		c.JSON(http.StatusOK, gin.H{"message": "Categoria atualizada com sucesso!"})
	}
}

// DeleteCategoriaHandler removes a category (admin only).
// Existing movimentações and metas referencing it are left untouched.
func DeleteCategoriaHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		res := db.Where("id = ?", c.Param("id")).Delete(&domain.Categoria{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao excluir categoria."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Categoria não encontrada."})
			return
		}
		invalidateCategoriaCache(rdb)
		c.JSON(http.StatusOK, gin.H{"message": "Categoria excluída com sucesso!"})
	}
}

// invalidateCategoriaCache drops every user's cached category list
func invalidateCategoriaCache(rdb *redis.Client) {
	_ = utils.DeleteCacheByPrefix(context.Background(), rdb, "categorias:user:")
}
