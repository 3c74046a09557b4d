package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"bolso_aberto/internal/domain" // Importing domain models
	"bolso_aberto/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// Request struct for registration
type RegisterRequest struct {
	Nome  string `json:"nome" binding:"required"`        // Display name must be provided
	Email string `json:"email" binding:"required,email"` // Login email must be provided
	Senha string `json:"senha" binding:"required"`       // Password must be provided
}

// Request struct for login
type LoginRequest struct {
	Email string `json:"email" binding:"required"` // Email must be provided
	Senha string `json:"senha" binding:"required"` // Password must be provided
}

// Response struct for a successful login
type LoginResponse struct {
	Message     string `json:"message"`     // Human-readable outcome
	Token       string `json:"token"`       // JWT token
	UsuarioID   uint   `json:"usuarioId"`   // Authenticated user ID
	UsuarioNome string `json:"usuarioNome"` // Authenticated user name
	IsAdmin     bool   `json:"is_admin"`    // Admin capability flag
}

// RegisterHandler creates a new user account with a bcrypt-hashed password
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Preencha todos os campos"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Senha), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao registrar usuário"})
			return
		}
		// Store the email lowercased so uniqueness is case-insensitive
		usuario := domain.Usuario{
			Nome:      req.Nome,
			Email:     strings.ToLower(req.Email),
			SenhaHash: string(hash),
		}
		// Attempt to create the user in the database
		if err := db.Create(&usuario).Error; err != nil {
			// A unique violation on email is the only expected failure here
			if strings.Contains(err.Error(), "unique") || strings.Contains(err.Error(), "UNIQUE") || strings.Contains(err.Error(), "duplicate") {
				c.JSON(http.StatusConflict, gin.H{"error": "E-mail já cadastrado."})
				return
			}
			logrus.WithFields(logrus.Fields{
				"email": usuario.Email, // Attempted email
				"error": err.Error(),   // Error message
			}).Error("Register failed") // Log registration failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao registrar usuário"})
			return
		}
		// Return success response with the new user's id
		c.JSON(http.StatusCreated, gin.H{"id": usuario.ID, "message": "Usuário registrado com sucesso!"})
	}
}

// LoginHandler authenticates a user and returns a JWT token plus profile data
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Preencha todos os campos"})
			return
		}
		var usuario domain.Usuario // Fetch user from database
		if err := db.Where("email = ?", strings.ToLower(req.Email)).First(&usuario).Error; err != nil {
			// Unknown email is reported distinctly from a wrong password
			c.JSON(http.StatusBadRequest, gin.H{"error": "Usuário não encontrado"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(usuario.SenhaHash), []byte(req.Senha)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Senha incorreta"})
			return
		}
		// Generate JWT token carrying id, nome and is_admin
		token, err := utils.GenerateJWT(usuario.ID, usuario.Nome, usuario.IsAdmin, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro no servidor"})
			return
		}
		// Return the token and profile in the response
		c.JSON(http.StatusOK, LoginResponse{
			Message:     "Login realizado com sucesso",
			Token:       token,
			UsuarioID:   usuario.ID,
			UsuarioNome: usuario.Nome,
			IsAdmin:     usuario.IsAdmin,
		})
	}
}
