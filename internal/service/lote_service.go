package service

import (
	"context"
	"errors"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/config"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrLoteNoEncontrado = errors.New("lote no encontrado")

// LoteService covers batch intake, price maintenance and manual stock
// corrections. Sale and return stock changes never pass through here; those
// belong to their own transactional flows.
type LoteService interface {
	Registrar(ctx context.Context, req dto.RegistrarLoteRequest) (*dto.LoteResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error)
	ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error)
	// PorVencer lists active stocked lots expiring within the configured window.
	PorVencer(ctx context.Context) ([]dto.LoteResponse, error)
	ActualizarPrecios(ctx context.Context, id uuid.UUID, req dto.ActualizarPreciosLoteRequest) (*dto.LoteResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.LoteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	HistorialPrecios(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioLoteResponse, error)
	Movimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoStockResponse, error)
}

type loteService struct {
	repo           repository.LoteRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	historialRepo  repository.HistorialPrecioRepository
	cfg            *config.Config
}

func NewLoteService(
	repo repository.LoteRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	historialRepo repository.HistorialPrecioRepository,
	cfg *config.Config,
) LoteService {
	return &loteService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		historialRepo:  historialRepo,
		cfg:            cfg,
	}
}

func (s *loteService) Registrar(ctx context.Context, req dto.RegistrarLoteRequest) (*dto.LoteResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, errors.New("producto_id invalido")
	}
	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	lote := model.Lote{
		ProductoID:           productoID,
		NumeroLote:           req.NumeroLote,
		UnidadesPorEmpaque:   req.UnidadesPorEmpaque,
		PrecioEmpaque:        req.PrecioEmpaque,
		DescuentoPct:         req.DescuentoPct,
		IVAPct:               producto.IVAPct,
		StockEmpaques:        req.StockEmpaques,
		StockUnidadesSueltas: req.StockUnidadesSueltas,
		Activo:               true,
	}
	if lote.UnidadesPorEmpaque < 1 {
		lote.UnidadesPorEmpaque = producto.UnidadesPorEmpaque
	}
	if req.FechaVencimiento != nil {
		fv, err := time.Parse("2006-01-02", *req.FechaVencimiento)
		if err != nil {
			return nil, errors.New("fecha_vencimiento invalida, formato esperado YYYY-MM-DD")
		}
		lote.FechaVencimiento = &fv
	}
	if req.PrecioUnidad != nil {
		lote.PrecioUnidad = *req.PrecioUnidad
	}
	if req.IVAPct != nil {
		lote.IVAPct = *req.IVAPct
	}
	if req.MarcaID != nil {
		marcaID, err := uuid.Parse(*req.MarcaID)
		if err != nil {
			return nil, errors.New("marca_id invalido")
		}
		lote.MarcaID = &marcaID
	}

	if err := s.repo.Create(ctx, &lote); err != nil {
		return nil, err
	}

	// Audit trail: the initial stock counts as an intake movement and the
	// initial price opens the lot's price history.
	if stock := lote.UnidadesBaseDisponibles(); stock > 0 {
		loteRef := lote.ID
		_ = s.movimientoRepo.CreateTx(nil, &model.MovimientoStock{
			LoteID:        lote.ID,
			ProductoID:    productoID,
			Tipo:          "ingreso",
			Cantidad:      stock,
			StockAnterior: 0,
			StockNuevo:    stock,
			Motivo:        "Ingreso lote " + lote.NumeroLote,
			ReferenciaID:  &loteRef,
		})
	}
	_ = s.historialRepo.Create(ctx, &model.HistorialPrecioLote{
		LoteID:         lote.ID,
		ProductoID:     productoID,
		EmpaqueAntes:   decimal.Zero,
		EmpaqueDespues: lote.PrecioEmpaque,
		UnidadAntes:    decimal.Zero,
		UnidadDespues:  lote.PrecioUnidadEfectivo(),
		Motivo:         "ingreso_lote",
	})

	return loteToResponse(&lote), nil
}

func (s *loteService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrLoteNoEncontrado
	}
	return loteToResponse(lote), nil
}

func (s *loteService) ListarPorProducto(ctx context.Context, productoID uuid.UUID) ([]dto.LoteResponse, error) {
	lotes, err := s.repo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	return lotesToResponse(lotes), nil
}

func (s *loteService) PorVencer(ctx context.Context) ([]dto.LoteResponse, error) {
	lotes, err := s.repo.ListPorVencer(ctx, s.cfg.DiasAlertaVencimiento)
	if err != nil {
		return nil, err
	}
	return lotesToResponse(lotes), nil
}

func (s *loteService) ActualizarPrecios(ctx context.Context, id uuid.UUID, req dto.ActualizarPreciosLoteRequest) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrLoteNoEncontrado
	}

	empaqueAntes := lote.PrecioEmpaque
	unidadAntes := lote.PrecioUnidadEfectivo()

	lote.PrecioEmpaque = req.PrecioEmpaque
	if req.PrecioUnidad != nil {
		lote.PrecioUnidad = *req.PrecioUnidad
	}
	if req.DescuentoPct != nil {
		lote.DescuentoPct = *req.DescuentoPct
	}

	if err := s.repo.Update(ctx, lote); err != nil {
		return nil, err
	}
	_ = s.historialRepo.Create(ctx, &model.HistorialPrecioLote{
		LoteID:         lote.ID,
		ProductoID:     lote.ProductoID,
		EmpaqueAntes:   empaqueAntes,
		EmpaqueDespues: lote.PrecioEmpaque,
		UnidadAntes:    unidadAntes,
		UnidadDespues:  lote.PrecioUnidadEfectivo(),
		Motivo:         "manual",
	})

	return loteToResponse(lote), nil
}

func (s *loteService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.LoteResponse, error) {
	lote, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrLoteNoEncontrado
	}
	if req.Unidades == 0 {
		return nil, errors.New("el ajuste no puede ser cero")
	}

	stockAntes := lote.UnidadesBaseDisponibles()

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Unidades > 0 {
			if err := s.repo.RestaurarUnidadesBaseTx(tx, id, req.Unidades); err != nil {
				return err
			}
		} else {
			if err := s.repo.DescontarUnidadesBaseTx(tx, id, -req.Unidades); err != nil {
				if errors.Is(err, repository.ErrStockInsuficiente) {
					return StockInsuficienteError{
						LoteID:     id,
						Solicitado: -req.Unidades,
						Disponible: stockAntes,
					}
				}
				return err
			}
		}
		return s.movimientoRepo.CreateTx(tx, &model.MovimientoStock{
			LoteID:        id,
			ProductoID:    lote.ProductoID,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Unidades,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes + req.Unidades,
			Motivo:        req.Motivo,
		})
	})
	if txErr != nil {
		var stockErr StockInsuficienteError
		if errors.As(txErr, &stockErr) {
			return nil, stockErr
		}
		return nil, txErr
	}

	actualizado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return loteToResponse(actualizado), nil
}

func (s *loteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrLoteNoEncontrado
	}
	return s.repo.Desactivar(ctx, id)
}

func (s *loteService) HistorialPrecios(ctx context.Context, id uuid.UUID) ([]dto.HistorialPrecioLoteResponse, error) {
	historial, err := s.historialRepo.ListByLote(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialPrecioLoteResponse, 0, len(historial))
	for _, h := range historial {
		out = append(out, dto.HistorialPrecioLoteResponse{
			EmpaqueAntes:   h.EmpaqueAntes,
			EmpaqueDespues: h.EmpaqueDespues,
			UnidadAntes:    h.UnidadAntes,
			UnidadDespues:  h.UnidadDespues,
			Motivo:         h.Motivo,
			CreatedAt:      h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *loteService) Movimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoStockResponse, error) {
	movs, err := s.movimientoRepo.ListByLote(ctx, id, 100)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			LoteID:        m.LoteID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func loteToResponse(l *model.Lote) *dto.LoteResponse {
	var fv *string
	if l.FechaVencimiento != nil {
		s := l.FechaVencimiento.Format("2006-01-02")
		fv = &s
	}
	var marcaID *string
	if l.MarcaID != nil {
		id := l.MarcaID.String()
		marcaID = &id
	}
	producto := ""
	if l.Producto != nil {
		producto = l.Producto.Nombre
	}
	return &dto.LoteResponse{
		ID:                   l.ID.String(),
		ProductoID:           l.ProductoID.String(),
		Producto:             producto,
		NumeroLote:           l.NumeroLote,
		FechaVencimiento:     fv,
		UnidadesPorEmpaque:   l.UnidadesPorEmpaque,
		PrecioEmpaque:        l.PrecioEmpaque,
		PrecioUnidad:         l.PrecioUnidadEfectivo().Round(4),
		DescuentoPct:         l.DescuentoPct,
		IVAPct:               l.IVAPct,
		StockEmpaques:        l.StockEmpaques,
		StockUnidadesSueltas: l.StockUnidadesSueltas,
		UnidadesDisponibles:  l.UnidadesBaseDisponibles(),
		Elegible:             l.Activo && l.Vigente(time.Now()) && l.UnidadesBaseDisponibles() > 0,
		MarcaID:              marcaID,
	}
}

func lotesToResponse(lotes []model.Lote) []dto.LoteResponse {
	out := make([]dto.LoteResponse, 0, len(lotes))
	for i := range lotes {
		out = append(out, *loteToResponse(&lotes[i]))
	}
	return out
}
