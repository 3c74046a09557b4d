package api

import (
	"fmt"
	"net/http"
	"testing"

	"bolso_aberto/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// createMovimentacao posts a ledger entry and returns the new id
func createMovimentacao(t *testing.T, r *gin.Engine, token string, body gin.H) uint {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/movimentacoes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uint `json:"id"`
	}
	decode(t, w, &resp)
	require.NotZero(t, resp.ID)
	return resp.ID
}

func TestCreateMovimentacaoValidation(t *testing.T) {
	r, conn := newTestApp(t)
	token, _ := registerAndLogin(t, r, "Ana", "a@x.com", "s3cret")
	catID := newCategoria(t, conn, "Mercado", nil)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{"missing tipo", gin.H{"valor": 10, "data": "2024-01-10"}, http.StatusBadRequest},
		{"missing valor", gin.H{"tipo": "gasto", "categoria_id": catID, "data": "2024-01-10"}, http.StatusBadRequest},
		{"zero valor", gin.H{"tipo": "gasto", "valor": 0, "categoria_id": catID, "data": "2024-01-10"}, http.StatusBadRequest},
		{"missing data", gin.H{"tipo": "gasto", "valor": 10, "categoria_id": catID}, http.StatusBadRequest},
		{"gasto without categoria", gin.H{"tipo": "gasto", "valor": 10, "data": "2024-01-10"}, http.StatusBadRequest},
		{"valid gasto", gin.H{"tipo": "gasto", "valor": 10, "categoria_id": catID, "data": "2024-01-10"}, http.StatusCreated},
		{"valid entrada", gin.H{"tipo": "entrada", "valor": 10, "data": "2024-01-10"}, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/movimentacoes", token, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestEntradaIgnoresCategoria(t *testing.T) {
	r, conn := newTestApp(t)
	token, _ := registerAndLogin(t, r, "Ana", "a@x.com", "s3cret")
	catID := newCategoria(t, conn, "Mercado", nil)

	// A supplied category on an entrada must be stored as absent
	id := createMovimentacao(t, r, token, gin.H{
		"tipo": "entrada", "valor": 100, "categoria_id": catID, "data": "2024-01-10",
	})

	var mov domain.Movimentacao
	require.NoError(t, conn.First(&mov, id).Error)
	assert.Nil(t, mov.CategoriaID)

	// Same rule on update
	gastoID := createMovimentacao(t, r, token, gin.H{
		"tipo": "gasto", "valor": 50, "categoria_id": catID, "data": "2024-01-11",
	})
	w := doJSON(t, r, http.MethodPut, fmt.Sprintf("/movimentacoes/%d", gastoID), token, gin.H{
		"tipo": "entrada", "valor": 50, "categoria_id": catID, "data": "2024-01-11",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated domain.Movimentacao
	require.NoError(t, conn.First(&updated, gastoID).Error)
	assert.Nil(t, updated.CategoriaID)
}

func TestMovimentacaoOwnershipScoping(t *testing.T) {
	r, conn := newTestApp(t)
	tokenA, _ := registerAndLogin(t, r, "Ana", "a@x.com", "s3cret")
	tokenB, _ := registerAndLogin(t, r, "Bia", "b@x.com", "s3cret")
	catID := newCategoria(t, conn, "Mercado", nil)

	id := createMovimentacao(t, r, tokenA, gin.H{
		"tipo": "gasto", "valor": 50, "categoria_id": catID, "data": "2024-01-10",
	})
	path := fmt.Sprintf("/movimentacoes/%d", id)
	update := gin.H{"tipo": "gasto", "valor": 99, "categoria_id": catID, "data": "2024-01-10"}

	// B guesses A's row id and gets 404 on every verb
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodGet, path, tokenB, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodPut, path, tokenB, update).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(t, r, http.MethodDelete, path, tokenB, nil).Code)

	// The row is untouched
	var mov domain.Movimentacao
	require.NoError(t, conn.First(&mov, id).Error)
	assert.Equal(t, float64(50), mov.Valor)

	// B's list never contains A's rows
	var list struct {
		Movimentacoes []MovimentacaoRow `json:"movimentacoes"`
	}
	w := doJSON(t, r, http.MethodGet, "/movimentacoes", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Empty(t, list.Movimentacoes)

	// The owner still can do everything
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodGet, path, tokenA, nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPut, path, tokenA, update).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(t, r, http.MethodDelete, path, tokenA, nil).Code)
	assert.ErrorIs(t, conn.First(&mov, id).Error, gorm.ErrRecordNotFound)
}

func TestGetMovimentacaoResponseShape(t *testing.T) {
	r, conn := newTestApp(t)
	token, _ := registerAndLogin(t, r, "Ana", "a@x.com", "s3cret")
	catID := newCategoria(t, conn, "Mercado", nil)

	id := createMovimentacao(t, r, token, gin.H{
		"tipo": "gasto", "valor": 42.5, "categoria_id": catID, "data": "2024-03-01",
	})

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/movimentacoes/%d", id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The owner is implied by the token: usuario_id never leaks into the body
	var raw map[string]any
	decode(t, w, &raw)
	assert.Equal(t, []string{"categoria_id", "data", "detalhes", "id", "tipo", "valor"}, keysOf(raw))
	assert.Equal(t, 42.5, raw["valor"])
	assert.Equal(t, "gasto", raw["tipo"])
}

func TestListMovimentacoesDateFilter(t *testing.T) {
	r, conn := newTestApp(t)
	token, _ := registerAndLogin(t, r, "Ana", "a@x.com", "s3cret")
	catID := newCategoria(t, conn, "Mercado", nil)

	createMovimentacao(t, r, token, gin.H{"tipo": "gasto", "valor": 10, "categoria_id": catID, "data": "2024-01-05"})
	createMovimentacao(t, r, token, gin.H{"tipo": "gasto", "valor": 20, "categoria_id": catID, "data": "2024-01-31"})
	createMovimentacao(t, r, token, gin.H{"tipo": "gasto", "valor": 30, "categoria_id": catID, "data": "2024-02-15"})

	fetch := func(query string) []MovimentacaoRow {
		w := doJSON(t, r, http.MethodGet, "/movimentacoes"+query, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Movimentacoes []MovimentacaoRow `json:"movimentacoes"`
		}
		decode(t, w, &resp)
		return resp.Movimentacoes
	}

	t.Run("both bounds filter inclusively", func(t *testing.T) {
		rows := fetch("?data_inicial=2024-01-01&data_final=2024-01-31")
		require.Len(t, rows, 2)
		// Ordered by date descending
		assert.Equal(t, "2024-01-31", rows[0].Data)
		assert.Equal(t, "2024-01-05", rows[1].Data)
	})

	t.Run("single bound is ignored", func(t *testing.T) {
		assert.Len(t, fetch("?data_inicial=2024-02-01"), 3)
		assert.Len(t, fetch("?data_final=2024-01-31"), 3)
	})

	t.Run("no bounds returns everything newest first", func(t *testing.T) {
		rows := fetch("")
		require.Len(t, rows, 3)
		assert.Equal(t, "2024-02-15", rows[0].Data)
	})

	t.Run("rows carry the category name", func(t *testing.T) {
		rows := fetch("")
		require.NotEmpty(t, rows)
		require.NotNil(t, rows[0].CategoriaNome)
		assert.Equal(t, "Mercado", *rows[0].CategoriaNome)
	})
}
