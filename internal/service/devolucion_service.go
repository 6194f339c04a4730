package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/config"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DevolucionService applies partial returns against a committed sale:
// Requested -> {Applied, Rejected}. Accounting is cumulative per
// (producto, lote) pair, so repeated partial returns can never over-credit.
type DevolucionService interface {
	Registrar(ctx context.Context, usuarioID, ventaID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error)
	ListarPorVenta(ctx context.Context, ventaID uuid.UUID) ([]dto.DevolucionResponse, error)
}

type devolucionService struct {
	repo           repository.DevolucionRepository
	ventaRepo      repository.VentaRepository
	loteRepo       repository.LoteRepository
	movimientoRepo repository.MovimientoStockRepository
	dispatcher     *worker.Dispatcher
	cfg            *config.Config
}

func NewDevolucionService(
	repo repository.DevolucionRepository,
	ventaRepo repository.VentaRepository,
	loteRepo repository.LoteRepository,
	movimientoRepo repository.MovimientoStockRepository,
	dispatcher *worker.Dispatcher,
	cfg *config.Config,
) DevolucionService {
	return &devolucionService{
		repo:           repo,
		ventaRepo:      ventaRepo,
		loteRepo:       loteRepo,
		movimientoRepo: movimientoRepo,
		dispatcher:     dispatcher,
		cfg:            cfg,
	}
}

// itemResuelto is a validated return line with its credit, priced from the
// sale's frozen unit price and tax rate — never the lot's current price.
type itemResuelto struct {
	productoID uuid.UUID
	loteID     uuid.UUID
	unidades   int
	credito    decimal.Decimal
}

func (s *devolucionService) validar(ctx context.Context, ventaID uuid.UUID, req dto.RegistrarDevolucionRequest) (*model.Venta, []itemResuelto, error) {
	venta, err := s.ventaRepo.FindByID(ctx, ventaID)
	if err != nil {
		return nil, nil, errors.New("venta no encontrada")
	}

	if venta.DevueltaEn != nil && !s.cfg.PermitirDevolucionesMultiples {
		return nil, nil, VentaYaDevueltaError{VentaID: ventaID}
	}

	// Units sold per (producto, lote) pair in the original snapshot. A pair
	// can span several sale items at different effective prices (a discounted
	// pack line plus an undiscounted unit line), so the full item list is kept
	// per pair.
	vendidas := make(map[string]int)
	porPar := make(map[string][]*model.VentaItem)
	for i := range venta.Items {
		item := &venta.Items[i]
		clave := repository.ParClave(item.ProductoID, item.LoteID)
		vendidas[clave] += item.UnidadesBase
		porPar[clave] = append(porPar[clave], item)
	}
	// Credits consume the cheapest items of a pair first; the refund for any
	// quantity can never exceed what was actually paid for it.
	for _, items := range porPar {
		sort.SliceStable(items, func(i, j int) bool {
			if !items[i].PrecioUnitario.Equal(items[j].PrecioUnitario) {
				return items[i].PrecioUnitario.LessThan(items[j].PrecioUnitario)
			}
			return strings.Compare(items[i].ID.String(), items[j].ID.String()) < 0
		})
	}

	devueltas, err := s.repo.SumUnidadesDevueltas(ctx, ventaID)
	if err != nil {
		return nil, nil, err
	}

	var resueltos []itemResuelto
	totalUnidades := 0
	// Cumulative within the request too: two request lines for the same pair
	// share one budget.
	pedido := make(map[string]int)

	for _, item := range req.Items {
		if item.Unidades == 0 {
			continue
		}
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		loteID, err := uuid.Parse(item.LoteID)
		if err != nil {
			return nil, nil, fmt.Errorf("lote_id invalido: %w", err)
		}

		clave := repository.ParClave(productoID, loteID)
		desde := devueltas[clave] + pedido[clave]
		pedido[clave] += item.Unidades
		maxDevolvible := vendidas[clave] - devueltas[clave]
		if pedido[clave] > maxDevolvible {
			if maxDevolvible < 0 {
				maxDevolvible = 0
			}
			return nil, nil, DevolucionExcedidaError{
				ProductoID:    productoID,
				LoteID:        loteID,
				Solicitado:    pedido[clave],
				MaxDevolvible: maxDevolvible,
			}
		}

		resueltos = append(resueltos, itemResuelto{
			productoID: productoID,
			loteID:     loteID,
			unidades:   item.Unidades,
			credito:    creditoPar(porPar[clave], desde, item.Unidades),
		})
		totalUnidades += item.Unidades
	}

	if totalUnidades == 0 {
		return nil, nil, DevolucionVaciaError{}
	}
	return venta, resueltos, nil
}

// creditoPar prices returned units of one (producto, lote) pair against its
// sale items in cheapest-first order, skipping the units already credited by
// earlier returns of the same pair. The cumulative cap guarantees the walk
// always finds enough capacity.
func creditoPar(items []*model.VentaItem, omitidas, unidades int) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if omitidas >= item.UnidadesBase {
			omitidas -= item.UnidadesBase
			continue
		}
		disponibles := item.UnidadesBase - omitidas
		omitidas = 0

		toma := unidades
		if toma > disponibles {
			toma = disponibles
		}
		subtotal := decimal.NewFromInt(int64(toma)).Mul(item.PrecioUnitario).Round(2)
		iva := subtotal.Mul(item.IVAPct).Div(cien).Round(2)
		total = total.Add(subtotal).Add(iva)

		unidades -= toma
		if unidades == 0 {
			break
		}
	}
	return total
}

func (s *devolucionService) Registrar(ctx context.Context, usuarioID, ventaID uuid.UUID, req dto.RegistrarDevolucionRequest) (*dto.DevolucionResponse, error) {
	venta, resueltos, err := s.validar(ctx, ventaID, req)
	if err != nil {
		return nil, err
	}

	creditoTotal := decimal.Zero
	for _, r := range resueltos {
		creditoTotal = creditoTotal.Add(r.credito)
	}

	devolucion := model.Devolucion{
		VentaID:       ventaID,
		UsuarioID:     usuarioID,
		CreditoTotal:  creditoTotal,
		Observaciones: req.Observaciones,
	}
	for _, r := range resueltos {
		devolucion.Items = append(devolucion.Items, model.DevolucionItem{
			ProductoID:        r.productoID,
			LoteID:            r.loteID,
			UnidadesDevueltas: r.unidades,
			Credito:           r.credito,
		})
	}

	txErr := runTx(ctx, s.loteRepo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &devolucion); err != nil {
			return err
		}

		for _, r := range resueltos {
			lote, err := s.loteRepo.FindByIDTx(tx, r.loteID)
			if err != nil {
				return err
			}
			stockAntes := lote.UnidadesBaseDisponibles()
			if err := s.loteRepo.RestaurarUnidadesBaseTx(tx, r.loteID, r.unidades); err != nil {
				return err
			}

			devRef := devolucion.ID
			mov := &model.MovimientoStock{
				LoteID:        r.loteID,
				ProductoID:    r.productoID,
				Tipo:          "devolucion",
				Cantidad:      r.unidades,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + r.unidades,
				Motivo:        fmt.Sprintf("Devolucion venta #%d", venta.NumeroTicket),
				ReferenciaID:  &devRef,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Informational flag, set once; later returns keep the original
		// timestamp (the conditional update is a no-op when already set).
		return s.ventaRepo.MarcarDevueltaTx(tx, ventaID, time.Now())
	})
	if txErr != nil {
		return nil, CommitFallidoError{Err: txErr}
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueTicket(ctx, worker.TicketPayload{
			VentaID:      ventaID.String(),
			DevolucionID: devolucion.ID.String(),
		})
	}

	return devolucionToResponse(&devolucion), nil
}

func (s *devolucionService) ListarPorVenta(ctx context.Context, ventaID uuid.UUID) ([]dto.DevolucionResponse, error) {
	devoluciones, err := s.repo.ListByVenta(ctx, ventaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DevolucionResponse, 0, len(devoluciones))
	for i := range devoluciones {
		out = append(out, *devolucionToResponse(&devoluciones[i]))
	}
	return out, nil
}

func devolucionToResponse(d *model.Devolucion) *dto.DevolucionResponse {
	items := make([]dto.DevolucionItemResponse, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, dto.DevolucionItemResponse{
			ProductoID: item.ProductoID.String(),
			LoteID:     item.LoteID.String(),
			Unidades:   item.UnidadesDevueltas,
			Credito:    item.Credito,
		})
	}
	return &dto.DevolucionResponse{
		ID:           d.ID.String(),
		VentaID:      d.VentaID.String(),
		Items:        items,
		CreditoTotal: d.CreditoTotal,
		CreatedAt:    d.CreatedAt.Format(time.RFC3339),
	}
}
