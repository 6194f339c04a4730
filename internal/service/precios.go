package service

// precios.go — pure monetary computation for sale lines and orders.
// Every function here is side-effect free and deterministic: calling it twice
// on the same inputs yields identical results, which lets the cart recompute
// totals on every quantity edit without touching any state.

import (
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// round2 rounds half-up to 2 decimal places. It is applied exactly once per
// line; order totals sum already-rounded line values so cent drift cannot
// hide inside an aggregate.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NormalizarDescuento accepts a discount stored either as a fraction (0.10)
// or as a raw percentage (10) and returns a fraction clamped to [0, 1].
// A raw value >= 1 is taken to already be a percentage.
func NormalizarDescuento(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		d = d.Div(cien)
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return d
}

// UnidadesRequeridas converts a line's quantity to base units according to
// its mode.
func UnidadesRequeridas(linea LineaCarrito, lote *model.Lote) int {
	if linea.Modo == ModoEmpaque {
		factor := lote.UnidadesPorEmpaque
		if factor < 1 {
			factor = 1
		}
		return linea.Cantidad * factor
	}
	return linea.Cantidad
}

// TotalesLinea is the priced result of one line.
type TotalesLinea struct {
	// PrecioUnitario is the effective per-unit price (discounted in pack
	// mode), kept unrounded; the sale snapshot stores it at 4 decimals.
	PrecioUnitario decimal.Decimal
	UnidadesBase   int
	Subtotal       decimal.Decimal
	IVAPct         decimal.Decimal
	IVA            decimal.Decimal
	Total          decimal.Decimal
}

// CalcularLinea prices a single line against its lot.
// The per-lot discount applies only in pack mode; unit mode always sells at
// the undiscounted unit price.
func CalcularLinea(linea LineaCarrito, lote *model.Lote) TotalesLinea {
	factor := lote.UnidadesPorEmpaque
	if factor < 1 {
		factor = 1
	}
	divisor := decimal.NewFromInt(int64(factor))

	var precioUnitario decimal.Decimal
	if linea.Modo == ModoEmpaque {
		descuento := NormalizarDescuento(lote.DescuentoPct)
		empaqueEfectivo := lote.PrecioEmpaque.Mul(decimal.NewFromInt(1).Sub(descuento))
		precioUnitario = empaqueEfectivo.Div(divisor)
	} else {
		precioUnitario = lote.PrecioUnidadEfectivo()
	}

	unidades := UnidadesRequeridas(linea, lote)
	subtotal := round2(decimal.NewFromInt(int64(unidades)).Mul(precioUnitario))

	ivaPct := lote.IVAPct
	if linea.IVAPctOverride != nil {
		ivaPct = *linea.IVAPctOverride
	}
	iva := round2(subtotal.Mul(ivaPct).Div(cien))

	return TotalesLinea{
		PrecioUnitario: precioUnitario,
		UnidadesBase:   unidades,
		Subtotal:       subtotal,
		IVAPct:         ivaPct,
		IVA:            iva,
		Total:          subtotal.Add(iva),
	}
}

// TotalesOrden aggregates the order.
type TotalesOrden struct {
	Subtotal  decimal.Decimal
	Descuento decimal.Decimal
	IVA       decimal.Decimal
	Total     decimal.Decimal
}

// CalcularOrden sums already-rounded line totals and applies the order-level
// discount. A percentage discount is clamped to [0, 100]; a fixed discount is
// clamped to [0, subtotal]. The grand total never goes below zero.
func CalcularOrden(lineas []TotalesLinea, descuento DescuentoGlobal) TotalesOrden {
	subtotal := decimal.Zero
	iva := decimal.Zero
	for _, l := range lineas {
		subtotal = subtotal.Add(l.Subtotal)
		iva = iva.Add(l.IVA)
	}

	var monto decimal.Decimal
	switch descuento.Tipo {
	case DescuentoPorcentaje:
		pct := descuento.Valor
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(cien) {
			pct = cien
		}
		monto = round2(subtotal.Mul(pct).Div(cien))
	case DescuentoMonto:
		monto = descuento.Valor
		if monto.IsNegative() {
			monto = decimal.Zero
		}
		if monto.GreaterThan(subtotal) {
			monto = subtotal
		}
		monto = round2(monto)
	default:
		monto = decimal.Zero
	}

	total := subtotal.Sub(monto).Add(iva)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return TotalesOrden{
		Subtotal:  subtotal,
		Descuento: monto,
		IVA:       iva,
		Total:     total,
	}
}
