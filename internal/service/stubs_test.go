package service

import (
	"context"
	"errors"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubTx gives the in-memory stubs rollback semantics: writes made inside a
// commit register an undo, and the stub that fails unwinds everything staged
// so far, leaving the stores exactly as they were before the commit started.
// One stubTx is shared by all repos of a test so cross-repo writes unwind
// together. All methods are nil-safe; tests that never exercise a commit can
// skip the wiring.
type stubTx struct {
	undo []func()
}

// iniciar marks a transaction boundary, clearing undos left by the previous
// (committed) transaction.
func (t *stubTx) iniciar() {
	if t != nil {
		t.undo = t.undo[:0]
	}
}

func (t *stubTx) registrar(fn func()) {
	if t != nil {
		t.undo = append(t.undo, fn)
	}
}

// abortar unwinds staged writes newest-first.
func (t *stubTx) abortar() {
	if t == nil {
		return
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = t.undo[:0]
}

// stubLoteRepo is an in-memory LoteRepository. Stock mutations rebalance the
// pack / loose-unit split the same way the SQL implementation does.
type stubLoteRepo struct {
	lotes map[uuid.UUID]*model.Lote
	tx    *stubTx
	// failDescuentoLote, when set, makes the decrement for that lot fail with
	// ErrStockInsuficiente regardless of availability (simulates a concurrent
	// sale winning the race between validation and commit).
	failDescuentoLote *uuid.UUID
}

func newStubLoteRepo() *stubLoteRepo {
	return &stubLoteRepo{lotes: make(map[uuid.UUID]*model.Lote)}
}

func (r *stubLoteRepo) Create(_ context.Context, l *model.Lote) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Lote, error) {
	l, ok := r.lotes[id]
	if !ok {
		return nil, errors.New("lote no encontrado")
	}
	copia := *l
	return &copia, nil
}

func (r *stubLoteRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Lote, error) {
	l, err := r.FindByID(context.Background(), id)
	if err != nil {
		r.tx.abortar()
	}
	return l, err
}

func (r *stubLoteRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.Lote, error) {
	var out []model.Lote
	for _, l := range r.lotes {
		if l.ProductoID == productoID && l.Activo {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) ListPorVencer(_ context.Context, dias int) ([]model.Lote, error) {
	corte := time.Now().AddDate(0, 0, dias)
	var out []model.Lote
	for _, l := range r.lotes {
		if l.Activo && l.FechaVencimiento != nil && l.FechaVencimiento.Before(corte) {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *stubLoteRepo) Update(_ context.Context, l *model.Lote) error {
	r.lotes[l.ID] = l
	return nil
}

func (r *stubLoteRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	if l, ok := r.lotes[id]; ok {
		l.Activo = false
	}
	return nil
}

func (r *stubLoteRepo) DescontarUnidadesBaseTx(_ *gorm.DB, id uuid.UUID, unidades int) error {
	l, ok := r.lotes[id]
	if !ok {
		r.tx.abortar()
		return errors.New("lote no encontrado")
	}
	if r.failDescuentoLote != nil && *r.failDescuentoLote == id {
		r.tx.abortar()
		return repository.ErrStockInsuficiente
	}
	disponibles := l.UnidadesBaseDisponibles()
	if disponibles < unidades {
		r.tx.abortar()
		return repository.ErrStockInsuficiente
	}
	empaques, sueltas := l.StockEmpaques, l.StockUnidadesSueltas
	r.tx.registrar(func() {
		l.StockEmpaques, l.StockUnidadesSueltas = empaques, sueltas
	})
	rebalancear(l, disponibles-unidades)
	return nil
}

func (r *stubLoteRepo) RestaurarUnidadesBaseTx(_ *gorm.DB, id uuid.UUID, unidades int) error {
	l, ok := r.lotes[id]
	if !ok {
		r.tx.abortar()
		return errors.New("lote no encontrado")
	}
	empaques, sueltas := l.StockEmpaques, l.StockUnidadesSueltas
	r.tx.registrar(func() {
		l.StockEmpaques, l.StockUnidadesSueltas = empaques, sueltas
	})
	rebalancear(l, l.UnidadesBaseDisponibles()+unidades)
	return nil
}

func (r *stubLoteRepo) DB() *gorm.DB { return nil }

func rebalancear(l *model.Lote, total int) {
	factor := l.UnidadesPorEmpaque
	if factor < 1 {
		factor = 1
	}
	l.StockEmpaques = total / factor
	l.StockUnidadesSueltas = total % factor
}

var _ repository.LoteRepository = (*stubLoteRepo)(nil)

// stubVentaRepo is an in-memory VentaRepository with a local ticket sequence.
type stubVentaRepo struct {
	ventas    map[uuid.UUID]*model.Venta
	tx        *stubTx
	ticketSeq int
	createErr error
}

func newStubVentaRepo() *stubVentaRepo {
	return &stubVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *stubVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if r.createErr != nil {
		r.tx.abortar()
		return r.createErr
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	r.ventas[v.ID] = v
	id := v.ID
	r.tx.registrar(func() { delete(r.ventas, id) })
	return nil
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errors.New("venta no encontrada")
	}
	return v, nil
}

func (r *stubVentaRepo) List(_ context.Context, _ dto.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

func (r *stubVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int, error) {
	// First statement of every sale commit; like a SQL sequence, the number
	// itself is never rolled back.
	r.tx.iniciar()
	r.ticketSeq++
	return r.ticketSeq, nil
}

func (r *stubVentaRepo) MarcarDevueltaTx(_ *gorm.DB, id uuid.UUID, t time.Time) error {
	v, ok := r.ventas[id]
	if !ok {
		r.tx.abortar()
		return errors.New("venta no encontrada")
	}
	if v.DevueltaEn == nil {
		v.DevueltaEn = &t
		r.tx.registrar(func() { v.DevueltaEn = nil })
	}
	return nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

// stubClienteRepo holds clients by id.
type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errors.New("cliente no encontrado")
	}
	return c, nil
}

func (r *stubClienteRepo) FindByDocumento(_ context.Context, documento string) (*model.Cliente, error) {
	for _, c := range r.clientes {
		if c.Documento == documento {
			return c, nil
		}
	}
	return nil, errors.New("cliente no encontrado")
}

func (r *stubClienteRepo) List(_ context.Context, _ string) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubClienteRepo) Update(_ context.Context, c *model.Cliente) error { return nil }

func (r *stubClienteRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

// stubMovimientoRepo captures the audit trail for assertions.
type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
	tx          *stubTx
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	r.tx.registrar(func() { r.movimientos = r.movimientos[:len(r.movimientos)-1] })
	return nil
}

func (r *stubMovimientoRepo) ListByLote(_ context.Context, loteID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.LoteID == loteID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, productoID uuid.UUID, _ int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// stubDevolucionRepo accumulates returns and answers the per-pair sums the
// validator depends on.
type stubDevolucionRepo struct {
	devoluciones []model.Devolucion
	tx           *stubTx
}

func (r *stubDevolucionRepo) CreateTx(_ *gorm.DB, d *model.Devolucion) error {
	// First statement of every return commit.
	r.tx.iniciar()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	r.devoluciones = append(r.devoluciones, *d)
	r.tx.registrar(func() { r.devoluciones = r.devoluciones[:len(r.devoluciones)-1] })
	return nil
}

func (r *stubDevolucionRepo) ListByVenta(_ context.Context, ventaID uuid.UUID) ([]model.Devolucion, error) {
	var out []model.Devolucion
	for _, d := range r.devoluciones {
		if d.VentaID == ventaID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *stubDevolucionRepo) SumUnidadesDevueltas(_ context.Context, ventaID uuid.UUID) (map[string]int, error) {
	sums := make(map[string]int)
	for _, d := range r.devoluciones {
		if d.VentaID != ventaID {
			continue
		}
		for _, item := range d.Items {
			sums[repository.ParClave(item.ProductoID, item.LoteID)] += item.UnidadesDevueltas
		}
	}
	return sums, nil
}

var _ repository.DevolucionRepository = (*stubDevolucionRepo)(nil)

// stubProductoRepo holds products by id and barcode.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("producto no encontrado")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == barcode {
			return p, nil
		}
	}
	return nil, errors.New("producto no encontrado")
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) Update(_ context.Context, _ *model.Producto) error { return nil }

func (r *stubProductoRepo) SoftDelete(_ context.Context, _ uuid.UUID) error { return nil }

func (r *stubProductoRepo) Reactivar(_ context.Context, _ uuid.UUID) error { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func seedProducto(repo *stubProductoRepo, nombre, barcode string) *model.Producto {
	p := &model.Producto{
		ID:           uuid.New(),
		Nombre:       nombre,
		CodigoBarras: barcode,
		Activo:       true,
	}
	repo.productos[p.ID] = p
	return p
}

// seedLote creates an active lot with the given pack size, stock split and
// pack price. venc nil means the lot never expires.
func seedLote(repo *stubLoteRepo, productoID uuid.UUID, venc *time.Time, factor, empaques, sueltas int, precioEmpaque float64) *model.Lote {
	l := &model.Lote{
		ID:                   uuid.New(),
		ProductoID:           productoID,
		NumeroLote:           "L-" + uuid.NewString()[:8],
		FechaVencimiento:     venc,
		UnidadesPorEmpaque:   factor,
		PrecioEmpaque:        decimal.NewFromFloat(precioEmpaque),
		StockEmpaques:        empaques,
		StockUnidadesSueltas: sueltas,
		Activo:               true,
	}
	repo.lotes[l.ID] = l
	return l
}

func fecha(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}
