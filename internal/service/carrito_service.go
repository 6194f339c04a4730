package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrCarritoNoEncontrado = errors.New("carrito no encontrado")
var ErrLineaNoEncontrada = errors.New("linea no encontrada")

// CarritoService manages sale drafts in working memory. Drafts never touch
// stock: lots are consulted fresh on every edit so the operator sees current
// availability, but nothing is reserved until the draft is confirmed.
type CarritoService interface {
	Crear(ctx context.Context) *dto.CarritoResponse
	Obtener(ctx context.Context, id uuid.UUID) (*dto.CarritoResponse, error)
	// AgregarProducto appends a line for the product's FEFO-default lot with
	// quantity 1 pack, clamped to availability.
	AgregarProducto(ctx context.Context, id uuid.UUID, req dto.AgregarProductoRequest) (*dto.CarritoResponse, error)
	ActualizarLinea(ctx context.Context, id, lineaID uuid.UUID, req dto.ActualizarLineaRequest) (*dto.CarritoResponse, error)
	QuitarLinea(ctx context.Context, id, lineaID uuid.UUID) (*dto.CarritoResponse, error)
	ActualizarDatos(ctx context.Context, id uuid.UUID, req dto.ActualizarCarritoRequest) (*dto.CarritoResponse, error)
	// Confirmar hands the draft to the finalizer; on success the draft is
	// discarded, on rejection it survives untouched for correction and retry.
	Confirmar(ctx context.Context, id, usuarioID uuid.UUID) (*dto.VentaResponse, error)
	Abandonar(ctx context.Context, id uuid.UUID) error
}

// carritoEntry pairs a draft with its own lock so concurrent requests on the
// same cart id (double-click, client retry) serialize per cart, without one
// cart blocking edits on another. cerrado marks a draft that was confirmed or
// abandoned by a request that raced the map lookup; later holders drop it.
type carritoEntry struct {
	mu      sync.Mutex
	carrito *Carrito
	cerrado bool
}

type carritoService struct {
	mu       sync.Mutex
	carritos map[uuid.UUID]*carritoEntry

	loteRepo     repository.LoteRepository
	productoRepo repository.ProductoRepository
	ventaService VentaService
}

func NewCarritoService(loteRepo repository.LoteRepository, productoRepo repository.ProductoRepository, ventaService VentaService) CarritoService {
	return &carritoService{
		carritos:     make(map[uuid.UUID]*carritoEntry),
		loteRepo:     loteRepo,
		productoRepo: productoRepo,
		ventaService: ventaService,
	}
}

func (s *carritoService) Crear(ctx context.Context) *dto.CarritoResponse {
	carrito := &Carrito{
		ID:         uuid.New(),
		MetodoPago: PagoEfectivo,
	}
	s.mu.Lock()
	s.carritos[carrito.ID] = &carritoEntry{carrito: carrito}
	s.mu.Unlock()
	return s.responder(ctx, carrito, nil)
}

// obtener returns the cart's entry with its lock held; the caller unlocks it
// when the operation is done.
func (s *carritoService) obtener(id uuid.UUID) (*carritoEntry, error) {
	s.mu.Lock()
	entry, ok := s.carritos[id]
	s.mu.Unlock()
	if !ok {
		return nil, ErrCarritoNoEncontrado
	}
	entry.mu.Lock()
	if entry.cerrado {
		entry.mu.Unlock()
		return nil, ErrCarritoNoEncontrado
	}
	return entry, nil
}

func (s *carritoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.CarritoResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	return s.responder(ctx, entry.carrito, nil), nil
}

func (s *carritoService) AgregarProducto(ctx context.Context, id uuid.UUID, req dto.AgregarProductoRequest) (*dto.CarritoResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	carrito := entry.carrito

	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, errors.New("producto_id invalido")
	}

	lotes, err := s.loteRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}
	lote := LotePorDefecto(LotesElegibles(lotes, time.Now()))
	if lote == nil {
		return nil, SinLoteDisponibleError{ProductoID: productoID}
	}

	linea := LineaCarrito{
		ID:         uuid.New(),
		ProductoID: productoID,
		LoteID:     lote.ID,
		Modo:       ModoEmpaque,
		Cantidad:   1,
	}
	linea, ajustada := ClampLinea(linea, carrito.Hermanas(linea), lote)
	carrito.Lineas = append(carrito.Lineas, linea)

	ajustadas := map[uuid.UUID]bool{}
	if ajustada {
		ajustadas[linea.ID] = true
	}
	return s.responder(ctx, carrito, ajustadas), nil
}

func (s *carritoService) ActualizarLinea(ctx context.Context, id, lineaID uuid.UUID, req dto.ActualizarLineaRequest) (*dto.CarritoResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	carrito := entry.carrito

	linea := carrito.Linea(lineaID)
	if linea == nil {
		return nil, ErrLineaNoEncontrada
	}

	// The edit is staged on a copy; the draft line only changes once the
	// referenced lot is known to resolve.
	propuesta := *linea
	propuesta.Modo = ModoVenta(req.Modo)
	propuesta.Cantidad = req.Cantidad
	if req.LoteID != nil {
		loteID, err := uuid.Parse(*req.LoteID)
		if err != nil {
			return nil, errors.New("lote_id invalido")
		}
		propuesta.LoteID = loteID
	}
	propuesta.IVAPctOverride = req.IVAPct

	lote, err := s.loteRepo.FindByID(ctx, propuesta.LoteID)
	if err != nil {
		return nil, SinLoteDisponibleError{ProductoID: propuesta.ProductoID}
	}
	ajustado, fue := ClampLinea(propuesta, carrito.Hermanas(propuesta), lote)
	*linea = ajustado

	ajustadas := map[uuid.UUID]bool{}
	if fue {
		ajustadas[linea.ID] = true
	}
	return s.responder(ctx, carrito, ajustadas), nil
}

func (s *carritoService) QuitarLinea(ctx context.Context, id, lineaID uuid.UUID) (*dto.CarritoResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	carrito := entry.carrito

	for i := range carrito.Lineas {
		if carrito.Lineas[i].ID == lineaID {
			carrito.Lineas = append(carrito.Lineas[:i], carrito.Lineas[i+1:]...)
			return s.responder(ctx, carrito, nil), nil
		}
	}
	return nil, ErrLineaNoEncontrada
}

func (s *carritoService) ActualizarDatos(ctx context.Context, id uuid.UUID, req dto.ActualizarCarritoRequest) (*dto.CarritoResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()
	carrito := entry.carrito

	if req.ClienteID != nil {
		clienteID, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, errors.New("cliente_id invalido")
		}
		carrito.ClienteID = &clienteID
	} else {
		carrito.ClienteID = nil
	}
	if req.MetodoPago != "" {
		carrito.MetodoPago = req.MetodoPago
	}
	carrito.MontoRecibido = req.MontoRecibido
	carrito.Observaciones = req.Observaciones
	carrito.Descuento = DescuentoGlobal{
		Tipo:  TipoDescuento(req.DescuentoTipo),
		Valor: req.DescuentoValor,
	}
	return s.responder(ctx, carrito, nil), nil
}

// Confirmar holds the cart lock across the finalizer, so a duplicate request
// for the same cart waits and then sees it closed instead of committing the
// sale twice.
func (s *carritoService) Confirmar(ctx context.Context, id, usuarioID uuid.UUID) (*dto.VentaResponse, error) {
	entry, err := s.obtener(id)
	if err != nil {
		return nil, err
	}
	defer entry.mu.Unlock()

	resp, err := s.ventaService.Registrar(ctx, usuarioID, entry.carrito)
	if err != nil {
		return nil, err
	}
	entry.cerrado = true
	s.mu.Lock()
	delete(s.carritos, id)
	s.mu.Unlock()
	return resp, nil
}

func (s *carritoService) Abandonar(ctx context.Context, id uuid.UUID) error {
	entry, err := s.obtener(id)
	if err != nil {
		return err
	}
	defer entry.mu.Unlock()

	entry.cerrado = true
	s.mu.Lock()
	delete(s.carritos, id)
	s.mu.Unlock()
	return nil
}

// responder prices the whole draft against fresh lot snapshots. Lines whose
// lot disappeared or went inactive are rendered with zero totals rather than
// dropped; the finalizer rejects them if the operator does not fix them.
func (s *carritoService) responder(ctx context.Context, carrito *Carrito, ajustadas map[uuid.UUID]bool) *dto.CarritoResponse {
	lineas := make([]dto.LineaCarritoResponse, 0, len(carrito.Lineas))
	lineasTot := make([]TotalesLinea, 0, len(carrito.Lineas))

	for _, linea := range carrito.Lineas {
		resp := dto.LineaCarritoResponse{
			ID:         linea.ID.String(),
			ProductoID: linea.ProductoID.String(),
			LoteID:     linea.LoteID.String(),
			Modo:       string(linea.Modo),
			Cantidad:   linea.Cantidad,
			Ajustada:   ajustadas[linea.ID],
		}

		lote, err := s.loteRepo.FindByID(ctx, linea.LoteID)
		if err == nil {
			tot := CalcularLinea(linea, lote)
			resp.NumeroLote = lote.NumeroLote
			if lote.FechaVencimiento != nil {
				fv := lote.FechaVencimiento.Format("2006-01-02")
				resp.FechaVencimiento = &fv
			}
			if lote.Producto != nil {
				resp.Producto = lote.Producto.Nombre
			}
			resp.UnidadesBase = tot.UnidadesBase
			resp.PrecioUnitario = tot.PrecioUnitario.Round(4)
			resp.Subtotal = tot.Subtotal
			resp.IVA = tot.IVA
			resp.Total = tot.Total
			lineasTot = append(lineasTot, tot)
		} else {
			resp.Subtotal = decimal.Zero
			resp.IVA = decimal.Zero
			resp.Total = decimal.Zero
		}
		lineas = append(lineas, resp)
	}

	totales := CalcularOrden(lineasTot, carrito.Descuento)

	var clienteID *string
	if carrito.ClienteID != nil {
		id := carrito.ClienteID.String()
		clienteID = &id
	}

	return &dto.CarritoResponse{
		ID:            carrito.ID.String(),
		Lineas:        lineas,
		ClienteID:     clienteID,
		MetodoPago:    carrito.MetodoPago,
		MontoRecibido: carrito.MontoRecibido,
		Observaciones: carrito.Observaciones,
		Totales: dto.TotalesOrdenResponse{
			Subtotal:  totales.Subtotal,
			Descuento: totales.Descuento,
			IVA:       totales.IVA,
			Total:     totales.Total,
		},
	}
}
