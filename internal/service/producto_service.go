package service

import (
	"context"
	"errors"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
)

var ErrProductoNoEncontrado = errors.New("producto no encontrado")

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo     repository.ProductoRepository
	loteRepo repository.LoteRepository
}

func NewProductoService(repo repository.ProductoRepository, loteRepo repository.LoteRepository) ProductoService {
	return &productoService{repo: repo, loteRepo: loteRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.CodigoBarras); err == nil {
		return nil, errors.New("ya existe un producto con ese codigo de barras")
	}

	unidades := req.UnidadesPorEmpaque
	if unidades < 1 {
		unidades = 1
	}

	producto := model.Producto{
		CodigoBarras:       req.CodigoBarras,
		Nombre:             req.Nombre,
		Presentacion:       req.Presentacion,
		Descripcion:        req.Descripcion,
		IVAPct:             req.IVAPct,
		UnidadesPorEmpaque: unidades,
		Activo:             true,
	}
	if req.ProveedorID != nil {
		proveedorID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id invalido")
		}
		producto.ProveedorID = &proveedorID
	}

	if err := s.repo.Create(ctx, &producto); err != nil {
		return nil, err
	}
	return productoToResponse(&producto, nil), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return s.conStock(ctx, producto), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	return s.conStock(ctx, producto), nil
}

// conStock resolves the product's total available stock across its lots.
func (s *productoService) conStock(ctx context.Context, producto *model.Producto) *dto.ProductoResponse {
	lotes, err := s.loteRepo.ListByProducto(ctx, producto.ID)
	if err != nil {
		return productoToResponse(producto, nil)
	}
	total := 0
	for i := range lotes {
		total += lotes[i].UnidadesBaseDisponibles()
	}
	return productoToResponse(producto, &total)
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i], nil))
	}
	return &dto.ProductoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}

	if req.Nombre != "" {
		producto.Nombre = req.Nombre
	}
	if req.Presentacion != "" {
		producto.Presentacion = req.Presentacion
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.IVAPct != nil {
		producto.IVAPct = *req.IVAPct
	}
	if req.UnidadesPorEmpaque != nil && *req.UnidadesPorEmpaque >= 1 {
		producto.UnidadesPorEmpaque = *req.UnidadesPorEmpaque
	}
	if req.ProveedorID != nil {
		proveedorID, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, errors.New("proveedor_id invalido")
		}
		producto.ProveedorID = &proveedorID
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto, nil), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductoNoEncontrado
	}
	return s.repo.Reactivar(ctx, id)
}

func productoToResponse(p *model.Producto, stockTotal *int) *dto.ProductoResponse {
	var proveedorID *string
	if p.ProveedorID != nil {
		id := p.ProveedorID.String()
		proveedorID = &id
	}
	return &dto.ProductoResponse{
		ID:                 p.ID.String(),
		CodigoBarras:       p.CodigoBarras,
		Nombre:             p.Nombre,
		Presentacion:       p.Presentacion,
		Descripcion:        p.Descripcion,
		IVAPct:             p.IVAPct,
		UnidadesPorEmpaque: p.UnidadesPorEmpaque,
		ProveedorID:        proveedorID,
		Activo:             p.Activo,
		StockTotal:         stockTotal,
	}
}
