package service

import (
	"testing"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loteConVencimiento(venc *time.Time, stock int) model.Lote {
	return model.Lote{
		ID:                 uuid.New(),
		ProductoID:         uuid.New(),
		NumeroLote:         "A-1",
		FechaVencimiento:   venc,
		UnidadesPorEmpaque: 1,
		PrecioEmpaque:      decimal.RequireFromString("1.00"),
		StockEmpaques:      stock,
		Activo:             true,
	}
}

func TestLotesElegibles(t *testing.T) {
	hoy := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	ayer := hoy.AddDate(0, 0, -1)
	manana := hoy.AddDate(0, 0, 1)

	vencido := loteConVencimiento(&ayer, 10)
	vigente := loteConVencimiento(&manana, 10)
	sinVencimiento := loteConVencimiento(nil, 10)
	sinStock := loteConVencimiento(&manana, 0)
	inactivo := loteConVencimiento(&manana, 10)
	inactivo.Activo = false

	// A lot expiring today is still sellable today.
	venceHoy := loteConVencimiento(&hoy, 10)

	out := LotesElegibles([]model.Lote{vencido, vigente, sinVencimiento, sinStock, inactivo, venceHoy}, hoy)
	require.Len(t, out, 3)
	ids := []uuid.UUID{out[0].ID, out[1].ID, out[2].ID}
	assert.Contains(t, ids, vigente.ID)
	assert.Contains(t, ids, sinVencimiento.ID)
	assert.Contains(t, ids, venceHoy.ID)
}

func TestSortFEFO_OrdenYDeterminismo(t *testing.T) {
	base := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	pronto := base
	tarde := base.AddDate(0, 1, 0)

	a := loteConVencimiento(&tarde, 5)
	b := loteConVencimiento(&pronto, 5)
	c := loteConVencimiento(nil, 5) // never expires: always last

	out := SortFEFO([]model.Lote{a, b, c})
	require.Len(t, out, 3)
	assert.Equal(t, b.ID, out[0].ID)
	assert.Equal(t, a.ID, out[1].ID)
	assert.Equal(t, c.ID, out[2].ID)

	// Any input permutation yields the same order.
	inverso := SortFEFO([]model.Lote{c, a, b})
	assert.Equal(t, out[0].ID, inverso[0].ID)
	assert.Equal(t, out[1].ID, inverso[1].ID)
	assert.Equal(t, out[2].ID, inverso[2].ID)
}

func TestSortFEFO_EmpatePorID(t *testing.T) {
	venc := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	a := loteConVencimiento(&venc, 5)
	b := loteConVencimiento(&venc, 5)

	primero := SortFEFO([]model.Lote{a, b})
	segundo := SortFEFO([]model.Lote{b, a})
	assert.Equal(t, primero[0].ID, segundo[0].ID)
	assert.True(t, primero[0].ID.String() < primero[1].ID.String())
}

func TestSortFEFO_NoMutaEntrada(t *testing.T) {
	pronto := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	tarde := pronto.AddDate(0, 1, 0)
	entrada := []model.Lote{loteConVencimiento(&tarde, 5), loteConVencimiento(&pronto, 5)}
	original := entrada[0].ID

	SortFEFO(entrada)
	assert.Equal(t, original, entrada[0].ID)
}

func TestLotePorDefecto_Vacio(t *testing.T) {
	assert.Nil(t, LotePorDefecto(nil))
	assert.Nil(t, LotePorDefecto([]model.Lote{}))
}

func TestClampLinea_SinAjuste(t *testing.T) {
	lote := loteConVencimiento(nil, 10)
	linea := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 10}

	out, ajustada := ClampLinea(linea, nil, &lote)
	assert.False(t, ajustada)
	assert.Equal(t, 10, out.Cantidad)
}

func TestClampLinea_UnidadesConHermanas(t *testing.T) {
	// 10 available, a sibling already takes 7: the line is clamped to 3.
	lote := loteConVencimiento(nil, 10)
	hermana := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 7}
	linea := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 5}

	out, ajustada := ClampLinea(linea, []LineaCarrito{hermana}, &lote)
	assert.True(t, ajustada)
	assert.Equal(t, 3, out.Cantidad)
}

func TestClampLinea_EmpaqueRedondeaHaciaAbajo(t *testing.T) {
	// Pack size 5, 13 base units available: only 2 whole packs fit.
	lote := model.Lote{
		ID:                   uuid.New(),
		UnidadesPorEmpaque:   5,
		StockEmpaques:        2,
		StockUnidadesSueltas: 3,
		Activo:               true,
	}
	linea := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoEmpaque, Cantidad: 4}

	out, ajustada := ClampLinea(linea, nil, &lote)
	assert.True(t, ajustada)
	assert.Equal(t, 2, out.Cantidad)
}

func TestClampLinea_SinStockRestante(t *testing.T) {
	lote := loteConVencimiento(nil, 4)
	hermana := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 4}
	linea := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 2}

	out, ajustada := ClampLinea(linea, []LineaCarrito{hermana}, &lote)
	assert.True(t, ajustada)
	assert.Equal(t, 0, out.Cantidad)
}

func TestClampLinea_IgnoraHermanasDeOtroLote(t *testing.T) {
	lote := loteConVencimiento(nil, 10)
	otra := LineaCarrito{ID: uuid.New(), LoteID: uuid.New(), Modo: ModoUnidad, Cantidad: 9}
	linea := LineaCarrito{ID: uuid.New(), LoteID: lote.ID, Modo: ModoUnidad, Cantidad: 10}

	out, ajustada := ClampLinea(linea, []LineaCarrito{otra}, &lote)
	assert.False(t, ajustada)
	assert.Equal(t, 10, out.Cantidad)
}
