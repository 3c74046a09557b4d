package api

import (
	"context"  // Context for Redis operations
	"errors"   // For gorm error matching
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

// AdminStatusHandler is the probe the admin front end hits before rendering
func AdminStatusHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Administrador autenticado.", "isAdmin": true})
	}
}

// UsuarioAdminResponse is the user data returned to admins (never the hash)
type UsuarioAdminResponse struct {
	ID      uint   `json:"id"`       // User ID
	Nome    string `json:"nome"`     // Display name
	Email   string `json:"email"`    // Login email
	IsAdmin bool   `json:"is_admin"` // Admin capability flag
}

// ListUsuariosHandler returns every account's id, nome, email and admin flag
func ListUsuariosHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var usuarios []UsuarioAdminResponse
		if err := db.Model(&domain.Usuario{}).
			Select("id, nome, email, is_admin").
			Scan(&usuarios).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no servidor ao listar usuários."})
			return
		}
		if usuarios == nil {
			usuarios = []UsuarioAdminResponse{} // Serialize as [] rather than null
		}
		c.JSON(http.StatusOK, usuarios)
	}
}

// DeleteUsuarioHandler deletes an account and everything it owns inside one
// transaction: movimentações, then metas, then the user row. If the user row
// does not exist the whole transaction rolls back and nothing is deleted.
func DeleteUsuarioHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, err := strconv.Atoi(c.Param("id")) // Target user ID from the URL
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuário inválido."})
			return
		}
		// Cascading deletes succeed together or not at all
		err = db.Transaction(func(tx *gorm.DB) error {
			// Ledger rows first
			if err := tx.Where("usuario_id = ?", targetID).Delete(&domain.Movimentacao{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Then metas
			if err := tx.Where("usuario_id = ?", targetID).Delete(&domain.Meta{}).Error; err != nil {
				return err // Return error to rollback
			}
			// Finally the user row; zero rows means the account never existed
			res := tx.Delete(&domain.Usuario{}, targetID)
			if res.Error != nil {
				return res.Error // Return error to rollback
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound // Rolls the earlier deletes back
			}
			return nil // Commit transaction
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}
		if err != nil {
			// Log the error with context
			logrus.WithFields(logrus.Fields{
				"target_id": targetID,    // Target user ID
				"error":     err.Error(), // Error message
			}).Error("Delete usuário failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno ao apagar o usuário."})
			return
		}
		// Log the cascade
		logrus.WithFields(logrus.Fields{
			"admin_id":  middleware.CurrentClaims(c).UserID, // Acting admin
			"target_id": targetID,                           // Deleted user ID
		}).Info("Usuário deleted with all owned rows")
		// Drop everything cached for the deleted account
		ctx := context.Background()
		uid := strconv.Itoa(targetID)
		_ = utils.DeleteCacheByPrefix(ctx, rdb, "resumo:user:"+uid+":")
		_ = utils.DeleteCache(ctx, rdb, "comparativo:user:"+uid)
		_ = utils.DeleteCache(ctx, rdb, "categorias:user:"+uid)
		c.JSON(http.StatusOK, gin.H{"message": "Usuário e todos os dados relacionados apagados com sucesso."})
	}
}

// Request struct for toggling the admin flag
type ToggleAdminRequest struct {
	IsAdmin *bool `json:"isAdmin" binding:"required"` // Pointer so false binds
}

// ToggleAdminHandler grants or revokes the admin flag on another account.
// Admins cannot change their own flag through this route.
func ToggleAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c)        // Acting admin
		targetID, err := strconv.Atoi(c.Param("id")) // Target user ID from the URL
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "ID de usuário inválido."})
			return
		}
		if claims.UserID == uint(targetID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Você não pode mudar seu próprio status de administrador por aqui."})
			return
		}
		var req ToggleAdminRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "O campo isAdmin é obrigatório."})
			return
		}
		res := db.Model(&domain.Usuario{}).
			Where("id = ?", targetID).
			Update("is_admin", *req.IsAdmin)
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no servidor."})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}
		// Log the role change
		logrus.WithFields(logrus.Fields{
			"admin_id":  claims.UserID, // Acting admin
			"target_id": targetID,      // Affected user
			"is_admin":  *req.IsAdmin,  // New flag value
		}).Info("Admin flag updated")
		c.JSON(http.StatusOK, gin.H{"message": "Status de administrador atualizado com sucesso."})
	}
}
