package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// VentaService finalizes sale drafts: Draft -> Validating -> {Committed, Rejected}.
// Every validation runs before any mutation; the commit itself is one
// all-or-nothing transaction against the store.
type VentaService interface {
	// Validar checks a draft without touching any state. A nil return means
	// the draft would currently commit.
	Validar(ctx context.Context, carrito *Carrito) error
	// Registrar validates and atomically commits the draft. On any error the
	// draft is left untouched so the caller can retry the same submission.
	Registrar(ctx context.Context, usuarioID uuid.UUID, carrito *Carrito) (*dto.VentaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	loteRepo       repository.LoteRepository
	clienteRepo    repository.ClienteRepository
	movimientoRepo repository.MovimientoStockRepository
	dispatcher     *worker.Dispatcher
}

func NewVentaService(
	repo repository.VentaRepository,
	loteRepo repository.LoteRepository,
	clienteRepo repository.ClienteRepository,
	movimientoRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		repo:           repo,
		loteRepo:       loteRepo,
		clienteRepo:    clienteRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// lineaResuelta pairs a cart line with the fresh lot snapshot and pricing
// used to validate it.
type lineaResuelta struct {
	linea   LineaCarrito
	lote    *model.Lote
	totales TotalesLinea
}

// consumoLote aggregates base units to consume per lot, in first-appearance
// order so commits are deterministic.
type consumoLote struct {
	lote     *model.Lote
	unidades int
}

type ventaResuelta struct {
	lineas  []lineaResuelta
	consumo []consumoLote
	totales TotalesOrden
}

// validar re-reads current stock for every referenced lot (never a stale UI
// snapshot) and applies the full rejection taxonomy before anything mutates.
func (s *ventaService) validar(ctx context.Context, carrito *Carrito) (*ventaResuelta, error) {
	if carrito == nil || len(carrito.Lineas) == 0 {
		return nil, CarritoVacioError{}
	}

	lotes := make(map[uuid.UUID]*model.Lote)
	var orden []uuid.UUID
	porLote := make(map[uuid.UUID]int)

	res := &ventaResuelta{}
	lineasTot := make([]TotalesLinea, 0, len(carrito.Lineas))

	for i, linea := range carrito.Lineas {
		lote, ok := lotes[linea.LoteID]
		if !ok {
			var err error
			lote, err = s.loteRepo.FindByID(ctx, linea.LoteID)
			if err != nil {
				return nil, fmt.Errorf("lote %s: %w", linea.LoteID, err)
			}
			lotes[linea.LoteID] = lote
			orden = append(orden, linea.LoteID)
		}

		if UnidadesRequeridas(linea, lote) <= 0 {
			return nil, CantidadInvalidaError{Linea: i}
		}

		tot := CalcularLinea(linea, lote)
		porLote[linea.LoteID] += tot.UnidadesBase
		res.lineas = append(res.lineas, lineaResuelta{linea: linea, lote: lote, totales: tot})
		lineasTot = append(lineasTot, tot)
	}

	for _, id := range orden {
		lote := lotes[id]
		if porLote[id] > lote.UnidadesBaseDisponibles() {
			return nil, StockInsuficienteError{
				LoteID:     id,
				Solicitado: porLote[id],
				Disponible: lote.UnidadesBaseDisponibles(),
			}
		}
		res.consumo = append(res.consumo, consumoLote{lote: lote, unidades: porLote[id]})
	}

	res.totales = CalcularOrden(lineasTot, carrito.Descuento)

	switch carrito.MetodoPago {
	case PagoEfectivo:
		// Decimals compare exactly at cent precision; no float involved.
		if carrito.MontoRecibido.LessThan(res.totales.Total) {
			return nil, PagoInvalidoError{Total: res.totales.Total, Recibido: carrito.MontoRecibido}
		}
	case PagoCredito:
		if carrito.ClienteID == nil {
			return nil, ClienteRequeridoError{}
		}
		if _, err := s.clienteRepo.FindByID(ctx, *carrito.ClienteID); err != nil {
			return nil, ClienteRequeridoError{}
		}
	}

	return res, nil
}

func (s *ventaService) Validar(ctx context.Context, carrito *Carrito) error {
	_, err := s.validar(ctx, carrito)
	return err
}

func (s *ventaService) Registrar(ctx context.Context, usuarioID uuid.UUID, carrito *Carrito) (*dto.VentaResponse, error) {
	res, err := s.validar(ctx, carrito)
	if err != nil {
		return nil, err
	}

	vuelto := decimal.Zero
	if carrito.MetodoPago == PagoEfectivo {
		vuelto = carrito.MontoRecibido.Sub(res.totales.Total)
	}

	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:  ticketNum,
			UsuarioID:     usuarioID,
			ClienteID:     carrito.ClienteID,
			Subtotal:      res.totales.Subtotal,
			Descuento:     res.totales.Descuento,
			IVA:           res.totales.IVA,
			Total:         res.totales.Total,
			MetodoPago:    carrito.MetodoPago,
			MontoRecibido: carrito.MontoRecibido,
			Vuelto:        vuelto,
		}
		if carrito.Observaciones != "" {
			obs := carrito.Observaciones
			venta.Observaciones = &obs
		}
		for _, lr := range res.lineas {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     lr.linea.ProductoID,
				LoteID:         lr.linea.LoteID,
				Modo:           string(lr.linea.Modo),
				Cantidad:       lr.linea.Cantidad,
				UnidadesBase:   lr.totales.UnidadesBase,
				PrecioUnitario: lr.totales.PrecioUnitario.Round(4),
				IVAPct:         lr.totales.IVAPct,
				Subtotal:       lr.totales.Subtotal,
				IVA:            lr.totales.IVA,
				Total:          lr.totales.Total,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// The conditional decrement is the authority: if a concurrent sale
		// exhausted a lot after validation, it fails and the whole tx rolls
		// back, leaving no partial writes.
		for _, c := range res.consumo {
			stockAntes := c.lote.UnidadesBaseDisponibles()
			if err := s.loteRepo.DescontarUnidadesBaseTx(tx, c.lote.ID, c.unidades); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return StockInsuficienteError{
						LoteID:     c.lote.ID,
						Solicitado: c.unidades,
						Disponible: stockAntes,
					}
				}
				return err
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				LoteID:        c.lote.ID,
				ProductoID:    c.lote.ProductoID,
				Tipo:          "venta",
				Cantidad:      -c.unidades,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - c.unidades,
				Motivo:        fmt.Sprintf("Venta #%d", venta.NumeroTicket),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		return nil
	})
	if txErr != nil {
		var stockErr StockInsuficienteError
		if errors.As(txErr, &stockErr) {
			return nil, stockErr
		}
		return nil, CommitFallidoError{Err: txErr}
	}

	// Async ticket PDF + optional email — best effort, never blocks the sale.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueTicket(ctx, worker.TicketPayload{VentaID: venta.ID.String()})
	}

	resp := ventaToResponse(&venta)
	for i, lr := range res.lineas {
		if lr.lote.Producto != nil {
			resp.Items[i].Producto = lr.lote.Producto.Nombre
		}
	}
	return resp, nil
}

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		items = append(items, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	items := make([]dto.VentaItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		items = append(items, dto.VentaItemResponse{
			Producto:       nombre,
			ProductoID:     item.ProductoID.String(),
			LoteID:         item.LoteID.String(),
			Modo:           item.Modo,
			Cantidad:       item.Cantidad,
			UnidadesBase:   item.UnidadesBase,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
			IVA:            item.IVA,
			Total:          item.Total,
		})
	}

	var cliente *string
	if v.Cliente != nil {
		cliente = &v.Cliente.Nombre
	}
	var devuelta *string
	if v.DevueltaEn != nil {
		s := v.DevueltaEn.Format(time.RFC3339)
		devuelta = &s
	}

	return &dto.VentaResponse{
		ID:            v.ID.String(),
		NumeroTicket:  v.NumeroTicket,
		Items:         items,
		Subtotal:      v.Subtotal,
		Descuento:     v.Descuento,
		IVA:           v.IVA,
		Total:         v.Total,
		MetodoPago:    v.MetodoPago,
		MontoRecibido: v.MontoRecibido,
		Vuelto:        v.Vuelto,
		Cliente:       cliente,
		DevueltaEn:    devuelta,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
