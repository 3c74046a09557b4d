package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"sort"     // Sorting the comparison result
	"strconv"  // Number formatting
	"time"     // Month boundary computation

	"bolso_aberto/internal/middleware" // For the verified claims
	"bolso_aberto/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// resumoCacheTTL bounds the staleness of cached reports
const resumoCacheTTL = 60 * time.Second

// ResumoResponse aggregates the ledger into income, expense and balance
type ResumoResponse struct {
	Entradas float64 `json:"entradas"` // Sum of incomes
	Saidas   float64 `json:"saidas"`   // Sum of expenses
	Saldo    float64 `json:"saldo"`    // Entradas - Saidas
}

// ResumoHandler sums the caller's movimentações by kind, optionally within a
// date range. The range only applies when BOTH bounds are given.
func ResumoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c)  // Verified identity
		dataInicial := c.Query("data_inicial") // Optional range start
		dataFinal := c.Query("data_final")     // Optional range end

		ctx := context.Background() // Context for Redis operations
		cacheKey := "resumo:user:" + strconv.Itoa(int(claims.UserID)) +
			":from=" + dataInicial + ":to=" + dataFinal

		var cached ResumoResponse
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached summary
			return
		}

		query := db.Table("movimentacoes").
			Select(`COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN valor ELSE 0 END), 0) AS entradas,
				COALESCE(SUM(CASE WHEN tipo = 'gasto' THEN valor ELSE 0 END), 0) AS saidas`).
			Where("usuario_id = ?", claims.UserID)
		// Both-or-neither policy: a single bound is ignored
		if dataInicial != "" && dataFinal != "" {
			query = query.Where("data BETWEEN ? AND ?", dataInicial, dataFinal)
		}

		var sums struct {
			Entradas float64
			Saidas   float64
		}
		if err := query.Scan(&sums).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar resumo"})
			return
		}
		resp := ResumoResponse{
			Entradas: sums.Entradas,
			Saidas:   sums.Saidas,
			Saldo:    sums.Entradas - sums.Saidas, // Balance is derived
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, resumoCacheTTL) // Cache the summary
		c.JSON(http.StatusOK, resp)
	}
}

// ComparativoItem is one category's month-over-month expense comparison.
// Amounts are 2-decimal strings and growth a 1-decimal string, matching the
// shape the front end renders.
type ComparativoItem struct {
	CategoriaNome         string `json:"categoria_nome"`         // Category label
	GastoM1               string `json:"gasto_m1"`               // Current-month expense
	GastoM0               string `json:"gasto_m0"`               // Prior-month expense
	CrescimentoPercentual string `json:"crescimento_percentual"` // Growth percentage
}

// MonthBounds returns the inclusive ISO date range of the calendar month that
// contains now, shifted by offset months (0 = current, -1 = prior).
func MonthBounds(now time.Time, offset int) (string, string) {
	first := time.Date(now.Year(), now.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1) // Day 0 of the next month
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

// gastosPorCategoria sums the user's gasto movimentações per category name
// within the inclusive date range
func gastosPorCategoria(db *gorm.DB, userID uint, start, end string) (map[string]float64, error) {
	var rows []struct {
		CategoriaNome string
		GastoTotal    float64
	}
	err := db.Table("movimentacoes m").
		Select("c.nome AS categoria_nome, COALESCE(SUM(m.valor), 0) AS gasto_total").
		Joins("JOIN categorias c ON m.categoria_id = c.id").
		Where("m.usuario_id = ? AND m.tipo = 'gasto' AND m.data BETWEEN ? AND ?", userID, start, end).
		Group("c.nome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	gastos := make(map[string]float64, len(rows))
	for _, r := range rows {
		gastos[r.CategoriaNome] = r.GastoTotal
	}
	return gastos, nil
}

// ComparativoHandler compares the caller's per-category expense between the
// current and the prior calendar month. Growth is (cur-prev)/prev*100 when the
// prior month had expense, exactly 100 when only the current month has, and a
// category absent from both months never appears.
func ComparativoHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.CurrentClaims(c) // Verified identity
		ctx := context.Background()           // Context for Redis operations
		cacheKey := "comparativo:user:" + strconv.Itoa(int(claims.UserID))

		var cached []ComparativoItem
		// Try to get from cache
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, cached) // Return cached comparison
			return
		}

		now := time.Now()                      // Server wall-clock defines the months
		startM1, endM1 := MonthBounds(now, 0)  // Current month
		startM0, endM0 := MonthBounds(now, -1) // Prior month

		gastosM1, err := gastosPorCategoria(db, claims.UserID, startM1, endM1)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar comparativo de categorias"})
			return
		}
		gastosM0, err := gastosPorCategoria(db, claims.UserID, startM0, endM0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar comparativo de categorias"})
			return
		}

		// Union of every category seen in either month
		nomes := make(map[string]struct{}, len(gastosM1)+len(gastosM0))
		for nome := range gastosM1 {
			nomes[nome] = struct{}{}
		}
		for nome := range gastosM0 {
			nomes[nome] = struct{}{}
		}

		type entry struct {
			item    ComparativoItem
			gastoM1 float64
		}
		entries := make([]entry, 0, len(nomes))
		for nome := range nomes {
			gastoM1 := gastosM1[nome]
			gastoM0 := gastosM0[nome]
			var crescimento float64
			if gastoM0 > 0 {
				crescimento = (gastoM1 - gastoM0) / gastoM0 * 100
			} else if gastoM1 > 0 {
				crescimento = 100 // New category this month
			}
			entries = append(entries, entry{
				item: ComparativoItem{
					CategoriaNome:         nome,
					GastoM1:               strconv.FormatFloat(gastoM1, 'f', 2, 64),
					GastoM0:               strconv.FormatFloat(gastoM0, 'f', 2, 64),
					CrescimentoPercentual: strconv.FormatFloat(crescimento, 'f', 1, 64),
				},
				gastoM1: gastoM1,
			})
		}
		// Largest current-month expense first
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].gastoM1 > entries[j].gastoM1
		})

		comparativo := make([]ComparativoItem, len(entries))
		for i, e := range entries {
			comparativo[i] = e.item
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, comparativo, resumoCacheTTL) // Cache the comparison
		c.JSON(http.StatusOK, comparativo)
	}
}
