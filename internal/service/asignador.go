package service

// asignador.go — lot selection for in-progress carts.
// FEFO (First-Expire-First-Out): lots closer to expiration are consumed
// first; lots without expiration date sort last. All functions here operate
// on passed-in snapshots and share no state, so the same inputs always
// produce the same outputs.

import (
	"sort"
	"strings"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
)

// LotesElegibles filters lots that may be sold today: active, not expired
// (nil expiration = never expires) and with available stock.
func LotesElegibles(lotes []model.Lote, hoy time.Time) []model.Lote {
	out := make([]model.Lote, 0, len(lotes))
	for _, l := range lotes {
		if l.Activo && l.Vigente(hoy) && l.UnidadesBaseDisponibles() > 0 {
			out = append(out, l)
		}
	}
	return out
}

// SortFEFO returns a new slice ordered ascending by expiration date, nil
// dates last, ties broken by lot id ascending. The order is stable and
// deterministic for any input permutation.
func SortFEFO(lotes []model.Lote) []model.Lote {
	out := make([]model.Lote, len(lotes))
	copy(out, lotes)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.FechaVencimiento == nil && b.FechaVencimiento == nil:
			return strings.Compare(a.ID.String(), b.ID.String()) < 0
		case a.FechaVencimiento == nil:
			return false
		case b.FechaVencimiento == nil:
			return true
		case a.FechaVencimiento.Equal(*b.FechaVencimiento):
			return strings.Compare(a.ID.String(), b.ID.String()) < 0
		default:
			return a.FechaVencimiento.Before(*b.FechaVencimiento)
		}
	})
	return out
}

// LotePorDefecto picks the lot a new cart line should consume: the first in
// FEFO order, or nil when no lot is eligible (the caller must block adding
// the product).
func LotePorDefecto(lotes []model.Lote) *model.Lote {
	ordenados := SortFEFO(lotes)
	if len(ordenados) == 0 {
		return nil
	}
	return &ordenados[0]
}

// ClampLinea caps a line's quantity to what the lot can still cover once its
// sibling lines (other lines of the same cart referencing the same lot) are
// accounted for. It returns the possibly reduced line and whether it was
// reduced. Clamping is advisory UX feedback, never an error: the store's
// atomic decrement remains the single authority at commit time.
func ClampLinea(linea LineaCarrito, hermanas []LineaCarrito, lote *model.Lote) (LineaCarrito, bool) {
	usadoPorHermanas := 0
	for _, h := range hermanas {
		if h.LoteID == linea.LoteID {
			usadoPorHermanas += UnidadesRequeridas(h, lote)
		}
	}

	restante := lote.UnidadesBaseDisponibles() - usadoPorHermanas
	if restante < 0 {
		restante = 0
	}

	solicitado := UnidadesRequeridas(linea, lote)
	if solicitado <= restante {
		return linea, false
	}

	ajustada := linea
	if linea.Modo == ModoEmpaque {
		factor := lote.UnidadesPorEmpaque
		if factor < 1 {
			factor = 1
		}
		ajustada.Cantidad = restante / factor
	} else {
		ajustada.Cantidad = restante
	}
	return ajustada, true
}
