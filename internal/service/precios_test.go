package service

import (
	"testing"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizarDescuento(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"0.10", "0.1"},  // already a fraction
		{"10", "0.1"},    // raw percentage
		{"1", "0.01"},    // 1 is taken as 1%
		{"150", "1"},     // clamped to 100%
		{"-5", "0"},      // negative clamped to zero
		{"0", "0"},
		{"0.999", "0.999"},
	}
	for _, c := range casos {
		d := decimal.RequireFromString(c.entrada)
		assert.Equal(t, c.esperado, NormalizarDescuento(d).String(), "entrada %s", c.entrada)
	}
}

func TestCalcularLinea_EmpaqueConDescuento(t *testing.T) {
	// Pack of 5 at 10.00 with 10% lot discount: effective pack 9.00,
	// unit price 1.80. Two packs = 10 base units, subtotal 18.00.
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 5,
		PrecioEmpaque:      decimal.RequireFromString("10.00"),
		DescuentoPct:       decimal.RequireFromString("0.10"),
	}
	linea := LineaCarrito{Modo: ModoEmpaque, Cantidad: 2}

	tot := CalcularLinea(linea, lote)
	assert.Equal(t, 10, tot.UnidadesBase)
	assert.Equal(t, "1.8", tot.PrecioUnitario.String())
	assert.Equal(t, "18", tot.Subtotal.String())
}

func TestCalcularLinea_UnidadSinDescuento(t *testing.T) {
	// The lot discount applies only in pack mode. Unit mode sells at the
	// explicit unit price even when the lot carries a discount.
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 5,
		PrecioEmpaque:      decimal.RequireFromString("10.00"),
		PrecioUnidad:       decimal.RequireFromString("2.50"),
		DescuentoPct:       decimal.RequireFromString("0.10"),
	}
	linea := LineaCarrito{Modo: ModoUnidad, Cantidad: 2}

	tot := CalcularLinea(linea, lote)
	assert.Equal(t, 2, tot.UnidadesBase)
	assert.Equal(t, "2.5", tot.PrecioUnitario.String())
	assert.Equal(t, "5", tot.Subtotal.String())
}

func TestCalcularLinea_PrecioUnidadDerivado(t *testing.T) {
	// No explicit unit price: derived as pack price / pack size.
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 4,
		PrecioEmpaque:      decimal.RequireFromString("10.00"),
	}
	linea := LineaCarrito{Modo: ModoUnidad, Cantidad: 3}

	tot := CalcularLinea(linea, lote)
	assert.Equal(t, "2.5", tot.PrecioUnitario.String())
	assert.Equal(t, "7.5", tot.Subtotal.String())
}

func TestCalcularLinea_IVA(t *testing.T) {
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 1,
		PrecioEmpaque:      decimal.RequireFromString("100.00"),
		IVAPct:             decimal.RequireFromString("18"),
	}
	linea := LineaCarrito{Modo: ModoEmpaque, Cantidad: 1}

	tot := CalcularLinea(linea, lote)
	assert.Equal(t, "100", tot.Subtotal.String())
	assert.Equal(t, "18", tot.IVA.String())
	assert.Equal(t, "118", tot.Total.String())
}

func TestCalcularLinea_OverrideIVA(t *testing.T) {
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 1,
		PrecioEmpaque:      decimal.RequireFromString("100.00"),
		IVAPct:             decimal.RequireFromString("18"),
	}
	cero := decimal.Zero
	linea := LineaCarrito{Modo: ModoEmpaque, Cantidad: 1, IVAPctOverride: &cero}

	tot := CalcularLinea(linea, lote)
	assert.Equal(t, "0", tot.IVA.String())
	assert.Equal(t, "100", tot.Total.String())
}

func TestCalcularLinea_Deterministica(t *testing.T) {
	// Pricing is pure: repeated evaluation of the same line yields the exact
	// same result, so the cart can reprice on every edit.
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 3,
		PrecioEmpaque:      decimal.RequireFromString("7.77"),
		DescuentoPct:       decimal.RequireFromString("0.15"),
		IVAPct:             decimal.RequireFromString("18"),
	}
	linea := LineaCarrito{Modo: ModoEmpaque, Cantidad: 4}

	a := CalcularLinea(linea, lote)
	b := CalcularLinea(linea, lote)
	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.IVA.Equal(b.IVA))
	assert.True(t, a.Total.Equal(b.Total))
}

func TestCalcularOrden_SumaLineasRedondeadas(t *testing.T) {
	// Pack 10.00 / 10% discount / size 5 / 2 packs ⇒ subtotal 18.00, plus
	// 2 loose units at 2.50 ⇒ order subtotal 23.00.
	lote := &model.Lote{
		ID:                 uuid.New(),
		UnidadesPorEmpaque: 5,
		PrecioEmpaque:      decimal.RequireFromString("10.00"),
		PrecioUnidad:       decimal.RequireFromString("2.50"),
		DescuentoPct:       decimal.RequireFromString("0.10"),
	}
	empaque := CalcularLinea(LineaCarrito{Modo: ModoEmpaque, Cantidad: 2}, lote)
	unidad := CalcularLinea(LineaCarrito{Modo: ModoUnidad, Cantidad: 2}, lote)

	orden := CalcularOrden([]TotalesLinea{empaque, unidad}, DescuentoGlobal{})
	assert.Equal(t, "23", orden.Subtotal.String())
	assert.Equal(t, "0", orden.Descuento.String())
	assert.Equal(t, "23", orden.Total.String())
}

func TestCalcularOrden_DescuentoSobreSumaDeLineas(t *testing.T) {
	// Lines of 18.00 and 7.00 with a 10% global discount: 25.00 − 2.50 = 22.50.
	lineas := []TotalesLinea{
		{Subtotal: decimal.RequireFromString("18.00")},
		{Subtotal: decimal.RequireFromString("7.00")},
	}
	orden := CalcularOrden(lineas, DescuentoGlobal{Tipo: DescuentoPorcentaje, Valor: decimal.RequireFromString("10")})
	assert.Equal(t, "25", orden.Subtotal.String())
	assert.Equal(t, "2.5", orden.Descuento.String())
	assert.Equal(t, "22.5", orden.Total.String())
}

func TestCalcularOrden_DescuentoPorcentaje(t *testing.T) {
	lineas := []TotalesLinea{{Subtotal: decimal.RequireFromString("200.00")}}

	orden := CalcularOrden(lineas, DescuentoGlobal{Tipo: DescuentoPorcentaje, Valor: decimal.RequireFromString("10")})
	assert.Equal(t, "20", orden.Descuento.String())
	assert.Equal(t, "180", orden.Total.String())

	// Percentage above 100 is clamped, never a negative total.
	orden = CalcularOrden(lineas, DescuentoGlobal{Tipo: DescuentoPorcentaje, Valor: decimal.RequireFromString("150")})
	assert.Equal(t, "200", orden.Descuento.String())
	assert.Equal(t, "0", orden.Total.String())
}

func TestCalcularOrden_DescuentoMonto(t *testing.T) {
	lineas := []TotalesLinea{{Subtotal: decimal.RequireFromString("50.00")}}

	orden := CalcularOrden(lineas, DescuentoGlobal{Tipo: DescuentoMonto, Valor: decimal.RequireFromString("12.34")})
	assert.Equal(t, "12.34", orden.Descuento.String())
	assert.Equal(t, "37.66", orden.Total.String())

	// A fixed discount larger than the subtotal is clamped to it.
	orden = CalcularOrden(lineas, DescuentoGlobal{Tipo: DescuentoMonto, Valor: decimal.RequireFromString("80.00")})
	assert.Equal(t, "50", orden.Descuento.String())
	assert.Equal(t, "0", orden.Total.String())
}

func TestCalcularOrden_TotalNuncaNegativo(t *testing.T) {
	orden := CalcularOrden(nil, DescuentoGlobal{Tipo: DescuentoMonto, Valor: decimal.RequireFromString("10.00")})
	assert.Equal(t, "0", orden.Total.String())
}
