package service

import (
	"context"
	"testing"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/config"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type devolucionFixture struct {
	svc        DevolucionService
	ventaRepo  *stubVentaRepo
	loteRepo   *stubLoteRepo
	devRepo    *stubDevolucionRepo
	movRepo    *stubMovimientoRepo
	venta      *model.Venta
	productoID uuid.UUID
	loteID     uuid.UUID
}

// newDevolucionFixture seeds a committed sale of 10 base units at 1.8000 with
// 18% tax on a single (producto, lote) pair, sold from a lot now holding
// 12 units.
func newDevolucionFixture(t *testing.T, multiples bool) *devolucionFixture {
	t.Helper()
	tx := &stubTx{}
	ventaRepo := newStubVentaRepo()
	ventaRepo.tx = tx
	loteRepo := newStubLoteRepo()
	loteRepo.tx = tx
	devRepo := &stubDevolucionRepo{tx: tx}
	movRepo := &stubMovimientoRepo{tx: tx}
	cfg := &config.Config{PermitirDevolucionesMultiples: multiples}

	productoID := uuid.New()
	lote := seedLote(loteRepo, productoID, nil, 5, 2, 2, 10.00)

	venta := &model.Venta{
		ID:           uuid.New(),
		NumeroTicket: 7,
		UsuarioID:    uuid.New(),
		Total:        decimal.RequireFromString("21.24"),
		MetodoPago:   PagoEfectivo,
		Items: []model.VentaItem{
			{
				ID:             uuid.New(),
				ProductoID:     productoID,
				LoteID:         lote.ID,
				Modo:           string(ModoEmpaque),
				Cantidad:       2,
				UnidadesBase:   10,
				PrecioUnitario: decimal.RequireFromString("1.8000"),
				IVAPct:         decimal.RequireFromString("18"),
				Subtotal:       decimal.RequireFromString("18.00"),
				IVA:            decimal.RequireFromString("3.24"),
				Total:          decimal.RequireFromString("21.24"),
			},
		},
	}
	ventaRepo.ventas[venta.ID] = venta

	svc := NewDevolucionService(devRepo, ventaRepo, loteRepo, movRepo, nil, cfg)
	return &devolucionFixture{
		svc:        svc,
		ventaRepo:  ventaRepo,
		loteRepo:   loteRepo,
		devRepo:    devRepo,
		movRepo:    movRepo,
		venta:      venta,
		productoID: productoID,
		loteID:     lote.ID,
	}
}

// newParMixtoFixture seeds a sale where the same (producto, lote) pair spans
// two items at different effective prices: a discounted pack line of 10 base
// units at 1.8000 and an undiscounted unit line of 2 units at 2.0000, both
// tax free. Total paid for the pair: 22.00 for 12 units.
func newParMixtoFixture(t *testing.T) *devolucionFixture {
	t.Helper()
	f := newDevolucionFixture(t, true)
	f.venta.Items = []model.VentaItem{
		{
			ID:             uuid.New(),
			ProductoID:     f.productoID,
			LoteID:         f.loteID,
			Modo:           string(ModoUnidad),
			Cantidad:       2,
			UnidadesBase:   2,
			PrecioUnitario: decimal.RequireFromString("2.0000"),
			IVAPct:         decimal.Zero,
			Subtotal:       decimal.RequireFromString("4.00"),
			Total:          decimal.RequireFromString("4.00"),
		},
		{
			ID:             uuid.New(),
			ProductoID:     f.productoID,
			LoteID:         f.loteID,
			Modo:           string(ModoEmpaque),
			Cantidad:       2,
			UnidadesBase:   10,
			PrecioUnitario: decimal.RequireFromString("1.8000"),
			IVAPct:         decimal.Zero,
			Subtotal:       decimal.RequireFromString("18.00"),
			Total:          decimal.RequireFromString("18.00"),
		},
	}
	f.venta.Total = decimal.RequireFromString("22.00")
	return f
}

func (f *devolucionFixture) pedir(unidades int) dto.RegistrarDevolucionRequest {
	return dto.RegistrarDevolucionRequest{
		Items: []dto.DevolucionItemRequest{
			{ProductoID: f.productoID.String(), LoteID: f.loteID.String(), Unidades: unidades},
		},
	}
}

func TestDevolucion_CreditoDesdeSnapshot(t *testing.T) {
	f := newDevolucionFixture(t, true)

	// The lot's current price is irrelevant: the credit comes from the sale
	// snapshot. 4 × 1.8000 = 7.20, plus 18% = 1.30 (rounded per component).
	f.loteRepo.lotes[f.loteID].PrecioEmpaque = decimal.RequireFromString("99.00")

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(4))
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 4, resp.Items[0].Unidades)
	assert.Equal(t, "8.5", resp.CreditoTotal.String()) // 7.20 + 1.30

	// Stock restored: 12 + 4 = 16 base units.
	assert.Equal(t, 16, f.loteRepo.lotes[f.loteID].UnidadesBaseDisponibles())

	// The sale is flagged as returned.
	assert.NotNil(t, f.venta.DevueltaEn)

	// Audit trail records the restore.
	require.Len(t, f.movRepo.movimientos, 1)
	assert.Equal(t, "devolucion", f.movRepo.movimientos[0].Tipo)
	assert.Equal(t, 4, f.movRepo.movimientos[0].Cantidad)
}

func TestDevolucion_ExcedeLoVendido(t *testing.T) {
	f := newDevolucionFixture(t, true)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(11))
	var excedida DevolucionExcedidaError
	require.ErrorAs(t, err, &excedida)
	assert.Equal(t, 11, excedida.Solicitado)
	assert.Equal(t, 10, excedida.MaxDevolvible)

	// Nothing changed.
	assert.Empty(t, f.devRepo.devoluciones)
	assert.Equal(t, 12, f.loteRepo.lotes[f.loteID].UnidadesBaseDisponibles())
	assert.Nil(t, f.venta.DevueltaEn)
}

func TestDevolucion_AcumulativaEntreDevoluciones(t *testing.T) {
	f := newDevolucionFixture(t, true)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(6))
	require.NoError(t, err)

	// 6 already returned: at most 4 remain returnable.
	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(5))
	var excedida DevolucionExcedidaError
	require.ErrorAs(t, err, &excedida)
	assert.Equal(t, 4, excedida.MaxDevolvible)

	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(4))
	require.NoError(t, err)

	// Fully returned: the lot recovered all 10 sold units.
	assert.Equal(t, 22, f.loteRepo.lotes[f.loteID].UnidadesBaseDisponibles())
}

func TestDevolucion_AcumulativaDentroDelPedido(t *testing.T) {
	// Two request lines for the same (producto, lote) pair share one budget:
	// 6 + 5 = 11 exceeds the 10 sold even though each line alone fits.
	f := newDevolucionFixture(t, true)

	req := dto.RegistrarDevolucionRequest{
		Items: []dto.DevolucionItemRequest{
			{ProductoID: f.productoID.String(), LoteID: f.loteID.String(), Unidades: 6},
			{ProductoID: f.productoID.String(), LoteID: f.loteID.String(), Unidades: 5},
		},
	}
	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, req)
	var excedida DevolucionExcedidaError
	require.ErrorAs(t, err, &excedida)
	assert.Equal(t, 11, excedida.Solicitado)
}

func TestDevolucion_ParConPreciosMixtos(t *testing.T) {
	// The pair was paid at two prices. Returning the first 10 units credits
	// the cheaper item only: 10 × 1.8000 = 18.00, never 10 × 2.0000.
	f := newParMixtoFixture(t)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(10))
	require.NoError(t, err)
	assert.Equal(t, "18", resp.CreditoTotal.String())

	// The remaining 2 units were the expensive ones.
	resp, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	require.NoError(t, err)
	assert.Equal(t, "4", resp.CreditoTotal.String())
}

func TestDevolucion_ParConPreciosMixtosCruzaItems(t *testing.T) {
	// One return spanning both items: 10 cheap plus 1 expensive unit.
	f := newParMixtoFixture(t)

	resp, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(11))
	require.NoError(t, err)
	assert.Equal(t, "20", resp.CreditoTotal.String()) // 18.00 + 2.00

	// The pair sold 12 units in total, 11 already returned.
	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	var excedida DevolucionExcedidaError
	require.ErrorAs(t, err, &excedida)
	assert.Equal(t, 1, excedida.MaxDevolvible)

	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(1))
	require.NoError(t, err)
}

func TestDevolucion_Vacia(t *testing.T) {
	f := newDevolucionFixture(t, true)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(0))
	var vacia DevolucionVaciaError
	assert.ErrorAs(t, err, &vacia)
}

func TestDevolucion_SegundaRechazadaPorPolitica(t *testing.T) {
	f := newDevolucionFixture(t, false)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	require.NoError(t, err)

	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	var yaDevuelta VentaYaDevueltaError
	require.ErrorAs(t, err, &yaDevuelta)
	assert.Equal(t, f.venta.ID, yaDevuelta.VentaID)
}

func TestDevolucion_TimestampOriginalSeConserva(t *testing.T) {
	f := newDevolucionFixture(t, true)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	require.NoError(t, err)
	primera := *f.venta.DevueltaEn

	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	require.NoError(t, err)
	assert.True(t, f.venta.DevueltaEn.Equal(primera))
}

func TestDevolucion_ListarPorVenta(t *testing.T) {
	f := newDevolucionFixture(t, true)

	_, err := f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(3))
	require.NoError(t, err)
	_, err = f.svc.Registrar(context.Background(), uuid.New(), f.venta.ID, f.pedir(2))
	require.NoError(t, err)

	lista, err := f.svc.ListarPorVenta(context.Background(), f.venta.ID)
	require.NoError(t, err)
	assert.Len(t, lista, 2)
}
