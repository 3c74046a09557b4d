package api

import (
	"net/http" // HTTP status codes
	"time"     // CORS preflight cache duration

	"bolso_aberto/internal/config"     // Application configuration
	"bolso_aberto/internal/middleware" // Auth middleware

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// RootHandler answers the bare health probe
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"message": "Bolso Aberto API está no ar e funcionando!",
		})
	}
}

// PingHandler answers the API health probe, checking the database on the way
func PingHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "service": "Bolso Aberto API", "db": "Indisponível"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "Bolso Aberto API", "db": "Conectado"})
	}
}

// NewRouter wires every route onto a gin engine. cmd/server and the tests
// build the application the same way through here.
func NewRouter(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *gin.Engine {
	r := gin.Default() // Gin router instance

	// Credentialed cross-origin requests only from the explicit allow-list
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health probes (public)
	r.GET("/", RootHandler())
	r.GET("/api/ping", PingHandler(db))

	// Auth routes (public)
	r.POST("/register", RegisterHandler(db))          // Registration endpoint
	r.POST("/login", LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// User routes (protected by JWT)
	auth := middleware.JWTAuthMiddleware(cfg.JWTSecret)

	r.GET("/categorias", auth, ListCategoriasHandler(db, rdb)) // Visible categories

	mov := r.Group("/movimentacoes", auth) // Ledger, ownership-scoped
	mov.POST("", CreateMovimentacaoHandler(db, rdb))
	mov.GET("", ListMovimentacoesHandler(db))
	mov.GET("/:id", GetMovimentacaoHandler(db))
	mov.PUT("/:id", UpdateMovimentacaoHandler(db, rdb))
	mov.DELETE("/:id", DeleteMovimentacaoHandler(db, rdb))

	resumo := r.Group("/resumo", auth) // Reporting
	resumo.GET("", ResumoHandler(db, rdb))
	resumo.GET("/comparativo", ComparativoHandler(db, rdb))

	metas := r.Group("/metas", auth) // Goals
	metas.POST("", UpsertMetaHandler(db))
	metas.GET("/status", ListMetaStatusHandler(db))
	metas.DELETE("/:id", DeleteMetaHandler(db))

	// Admin routes (protected, admin only)
	adminOnly := middleware.AdminOnlyMiddleware()

	admin := r.Group("/admin", auth, adminOnly)
	admin.GET("/status", AdminStatusHandler())                      // Admin probe
	admin.GET("/usuarios", ListUsuariosHandler(db))                 // List users endpoint
	admin.DELETE("/usuarios/:id", DeleteUsuarioHandler(db, rdb))    // Cascading account deletion
	admin.PUT("/usuarios/toggle-admin/:id", ToggleAdminHandler(db)) // Role toggle endpoint

	// Category management is an admin capability on the shared /categorias paths
	r.POST("/categorias", auth, adminOnly, CreateCategoriaHandler(db, rdb))
	r.PUT("/categorias/:id", auth, adminOnly, UpdateCategoriaHandler(db, rdb))
	r.DELETE("/categorias/:id", auth, adminOnly, DeleteCategoriaHandler(db, rdb))

	return r
}
