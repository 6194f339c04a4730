package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCarritoSvc() (CarritoService, *stubLoteRepo, *stubProductoRepo, VentaService, *stubVentaRepo) {
	loteRepo := newStubLoteRepo()
	productoRepo := newStubProductoRepo()
	ventaRepo := newStubVentaRepo()
	ventaSvc := NewVentaService(ventaRepo, loteRepo, newStubClienteRepo(), &stubMovimientoRepo{}, nil)
	svc := NewCarritoService(loteRepo, productoRepo, ventaSvc)
	return svc, loteRepo, productoRepo, ventaSvc, ventaRepo
}

func TestCarrito_CrearYObtener(t *testing.T) {
	svc, _, _, _, _ := buildCarritoSvc()

	creado := svc.Crear(context.Background())
	assert.Equal(t, PagoEfectivo, creado.MetodoPago)
	assert.Empty(t, creado.Lineas)

	obtenido, err := svc.Obtener(context.Background(), uuid.MustParse(creado.ID))
	require.NoError(t, err)
	assert.Equal(t, creado.ID, obtenido.ID)

	_, err = svc.Obtener(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrCarritoNoEncontrado)
}

func TestCarrito_AgregarProductoEligeFEFO(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Amoxicilina 500mg", "7590001000011")

	// Two lots: the one expiring sooner must be picked.
	seedLote(loteRepo, p.ID, fecha("2027-06-01"), 5, 3, 0, 10.00)
	pronto := seedLote(loteRepo, p.ID, fecha("2026-12-01"), 5, 3, 0, 10.00)

	carrito := svc.Crear(context.Background())
	resp, err := svc.AgregarProducto(context.Background(), uuid.MustParse(carrito.ID), dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	require.Len(t, resp.Lineas, 1)
	assert.Equal(t, pronto.ID.String(), resp.Lineas[0].LoteID)
	assert.Equal(t, string(ModoEmpaque), resp.Lineas[0].Modo)
	assert.Equal(t, 1, resp.Lineas[0].Cantidad)
}

func TestCarrito_AgregarProductoSinLote(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Vencido Forte", "7590001000028")

	venc := time.Now().AddDate(0, 0, -1)
	seedLote(loteRepo, p.ID, &venc, 1, 10, 0, 5.00) // expired

	carrito := svc.Crear(context.Background())
	_, err := svc.AgregarProducto(context.Background(), uuid.MustParse(carrito.ID), dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	var sinLote SinLoteDisponibleError
	require.ErrorAs(t, err, &sinLote)
	assert.Equal(t, p.ID, sinLote.ProductoID)
}

func TestCarrito_ActualizarLineaClampeaEntreHermanas(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Ibuprofeno 400mg", "7590001000035")
	seedLote(loteRepo, p.ID, nil, 1, 10, 0, 2.00) // 10 base units

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	resp, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	primera := uuid.MustParse(resp.Lineas[0].ID)

	// First line takes 7 units.
	resp, err = svc.ActualizarLinea(context.Background(), carritoID, primera, dto.ActualizarLineaRequest{Modo: "unidad", Cantidad: 7})
	require.NoError(t, err)
	assert.False(t, resp.Lineas[0].Ajustada)

	// Second line for the same product/lot asks 5 but only 3 remain.
	resp, err = svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	segunda := uuid.MustParse(resp.Lineas[1].ID)

	resp, err = svc.ActualizarLinea(context.Background(), carritoID, segunda, dto.ActualizarLineaRequest{Modo: "unidad", Cantidad: 5})
	require.NoError(t, err)
	assert.True(t, resp.Lineas[1].Ajustada)
	assert.Equal(t, 3, resp.Lineas[1].Cantidad)

	// The clamp is advisory: totals stay within the lot's availability.
	assert.Equal(t, 7+3, resp.Lineas[0].UnidadesBase+resp.Lineas[1].UnidadesBase)
}

func TestCarrito_QuitarLinea(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Paracetamol 500mg", "7590001000042")
	seedLote(loteRepo, p.ID, nil, 1, 10, 0, 2.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	resp, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	lineaID := uuid.MustParse(resp.Lineas[0].ID)

	resp, err = svc.QuitarLinea(context.Background(), carritoID, lineaID)
	require.NoError(t, err)
	assert.Empty(t, resp.Lineas)

	_, err = svc.QuitarLinea(context.Background(), carritoID, lineaID)
	assert.ErrorIs(t, err, ErrLineaNoEncontrada)
}

func TestCarrito_ConfirmarDescartaBorrador(t *testing.T) {
	svc, loteRepo, productoRepo, _, ventaRepo := buildCarritoSvc()
	p := seedProducto(productoRepo, "Loratadina 10mg", "7590001000059")
	seedLote(loteRepo, p.ID, nil, 5, 4, 0, 10.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	_, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	_, err = svc.ActualizarDatos(context.Background(), carritoID, dto.ActualizarCarritoRequest{
		MetodoPago:    PagoEfectivo,
		MontoRecibido: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	venta, err := svc.Confirmar(context.Background(), carritoID, uuid.New())
	require.NoError(t, err)
	assert.Len(t, ventaRepo.ventas, 1)
	assert.Equal(t, "10", venta.Total.String())

	// The draft is gone after a successful commit.
	_, err = svc.Obtener(context.Background(), carritoID)
	assert.ErrorIs(t, err, ErrCarritoNoEncontrado)
}

func TestCarrito_ConfirmarRechazadoConservaBorrador(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Omeprazol 20mg", "7590001000066")
	seedLote(loteRepo, p.ID, nil, 5, 4, 0, 10.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	_, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)

	// Cash sale without enough received money: rejected.
	_, err = svc.ActualizarDatos(context.Background(), carritoID, dto.ActualizarCarritoRequest{
		MetodoPago:    PagoEfectivo,
		MontoRecibido: decimal.RequireFromString("1.00"),
	})
	require.NoError(t, err)

	_, err = svc.Confirmar(context.Background(), carritoID, uuid.New())
	var pagoErr PagoInvalidoError
	require.ErrorAs(t, err, &pagoErr)

	// The draft survives for correction and retry.
	resp, err := svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	assert.Len(t, resp.Lineas, 1)
}

func TestCarrito_TotalesConDescuentoGlobal(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Complejo B", "7590001000073")
	seedLote(loteRepo, p.ID, nil, 1, 10, 0, 25.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	_, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)

	resp, err := svc.ActualizarDatos(context.Background(), carritoID, dto.ActualizarCarritoRequest{
		DescuentoTipo:  "porcentaje",
		DescuentoValor: decimal.RequireFromString("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "25", resp.Totales.Subtotal.String())
	assert.Equal(t, "5", resp.Totales.Descuento.String())
	assert.Equal(t, "20", resp.Totales.Total.String())
}

func TestCarrito_Abandonar(t *testing.T) {
	svc, _, _, _, _ := buildCarritoSvc()

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	require.NoError(t, svc.Abandonar(context.Background(), carritoID))
	assert.ErrorIs(t, svc.Abandonar(context.Background(), carritoID), ErrCarritoNoEncontrado)
}

func TestCarrito_ActualizarLineaLoteInvalidoNoMuta(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Diclofenaco 50mg", "7590001000080")
	seedLote(loteRepo, p.ID, nil, 1, 10, 0, 2.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	resp, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	lineaID := uuid.MustParse(resp.Lineas[0].ID)

	_, err = svc.ActualizarLinea(context.Background(), carritoID, lineaID, dto.ActualizarLineaRequest{Modo: "unidad", Cantidad: 4})
	require.NoError(t, err)

	// Switching to a lot that does not exist is rejected and the line keeps
	// its previous lot, mode and quantity.
	inexistente := uuid.NewString()
	_, err = svc.ActualizarLinea(context.Background(), carritoID, lineaID, dto.ActualizarLineaRequest{
		Modo:     "empaque",
		Cantidad: 99,
		LoteID:   &inexistente,
	})
	var sinLote SinLoteDisponibleError
	require.ErrorAs(t, err, &sinLote)

	resp, err = svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	assert.Equal(t, string(ModoUnidad), resp.Lineas[0].Modo)
	assert.Equal(t, 4, resp.Lineas[0].Cantidad)
}

func TestCarrito_EdicionesConcurrentesSobreElMismoCarrito(t *testing.T) {
	svc, loteRepo, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Suero Oral", "7590001000097")
	seedLote(loteRepo, p.ID, nil, 1, 1000, 0, 1.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	resp, err := svc.Obtener(context.Background(), carritoID)
	require.NoError(t, err)
	assert.Len(t, resp.Lineas, n)
}

func TestCarrito_ConfirmacionDuplicadaCometeUnaSolaVenta(t *testing.T) {
	svc, loteRepo, productoRepo, _, ventaRepo := buildCarritoSvc()
	p := seedProducto(productoRepo, "Aspirina 100mg", "7590001000103")
	seedLote(loteRepo, p.ID, nil, 5, 4, 0, 10.00)

	carritoID := uuid.MustParse(svc.Crear(context.Background()).ID)
	_, err := svc.AgregarProducto(context.Background(), carritoID, dto.AgregarProductoRequest{ProductoID: p.ID.String()})
	require.NoError(t, err)
	_, err = svc.ActualizarDatos(context.Background(), carritoID, dto.ActualizarCarritoRequest{
		MetodoPago:    PagoEfectivo,
		MontoRecibido: decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	// A double-click: two confirmations race for the same draft. Exactly one
	// sale commits, the loser sees the cart as gone.
	var exitos int32
	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.Confirmar(context.Background(), carritoID, uuid.New()); err == nil {
				atomic.AddInt32(&exitos, 1)
			} else {
				assert.ErrorIs(t, err, ErrCarritoNoEncontrado)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), exitos)
	assert.Len(t, ventaRepo.ventas, 1)
}
