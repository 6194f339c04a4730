package router

import (
	"github.com/Juniorbp20/Farma2.0-sub000/internal/config"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/handler"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/middleware"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.APIRateLimiter())

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	loteRepo := repository.NewLoteRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	devolucionRepo := repository.NewDevolucionRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	marcaRepo := repository.NewMarcaRepository(db)
	movimientoRepo := repository.NewMovimientoStockRepository(db)
	historialRepo := repository.NewHistorialPrecioRepository(db)
	ticketRepo := repository.NewTicketRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, loteRepo)
	loteSvc := service.NewLoteService(loteRepo, productoRepo, movimientoRepo, historialRepo, cfg)
	ventaSvc := service.NewVentaService(ventaRepo, loteRepo, clienteRepo, movimientoRepo, dispatcher)
	carritoSvc := service.NewCarritoService(loteRepo, productoRepo, ventaSvc)
	devolucionSvc := service.NewDevolucionService(devolucionRepo, ventaRepo, loteRepo, movimientoRepo, dispatcher, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	marcaSvc := service.NewMarcaService(marcaRepo)
	consultaSvc := service.NewConsultaPreciosService(productoRepo, loteRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	lotesH := handler.NewLotesHandler(loteSvc)
	carritoH := handler.NewCarritoHandler(carritoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, ticketRepo)
	devolucionesH := handler.NewDevolucionesHandler(devolucionSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	marcasH := handler.NewMarcasHandler(marcaSvc)
	consultaH := handler.NewConsultaPreciosHandler(consultaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Verificador de precios — no auth required
	r.GET("/v1/consulta-precios/:barcode", consultaH.PorBarcode)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	vendedores := middleware.RequireRole(middleware.RolCajero, middleware.RolSupervisor, middleware.RolAdministrador)
	gestores := middleware.RequireRole(middleware.RolSupervisor, middleware.RolAdministrador)
	admin := middleware.RequireRole(middleware.RolAdministrador)

	v1 := r.Group("/v1", jwtMW)
	{
		// Carritos de venta — cajero en adelante
		carritos := v1.Group("/carritos", vendedores)
		{
			carritos.POST("", carritoH.Crear)
			carritos.GET("/:id", carritoH.Obtener)
			carritos.PUT("/:id", carritoH.ActualizarDatos)
			carritos.DELETE("/:id", carritoH.Abandonar)
			carritos.POST("/:id/lineas", carritoH.AgregarProducto)
			carritos.PUT("/:id/lineas/:lineaId", carritoH.ActualizarLinea)
			carritos.DELETE("/:id/lineas/:lineaId", carritoH.QuitarLinea)
			carritos.POST("/:id/confirmar", carritoH.Confirmar)
		}

		v1.GET("/ventas", vendedores, ventasH.Listar)
		v1.GET("/ventas/:id", vendedores, ventasH.Obtener)
		v1.GET("/ventas/:id/ticket", vendedores, ventasH.TicketPDF)

		// Devoluciones — requieren supervisor
		v1.POST("/ventas/:id/devoluciones", gestores, devolucionesH.Registrar)
		v1.GET("/ventas/:id/devoluciones", vendedores, devolucionesH.ListarPorVenta)

		// Catálogo — lectura para todos los roles, escritura administrador
		v1.GET("/productos", vendedores, productosH.Listar)
		v1.GET("/productos/:id", vendedores, productosH.Obtener)
		v1.GET("/productos/barcode/:barcode", vendedores, productosH.ObtenerPorBarcode)
		v1.GET("/productos/:id/lotes", vendedores, lotesH.ListarPorProducto)
		prods := v1.Group("/productos", admin)
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.POST("/:id/reactivar", productosH.Reactivar)
		}

		// Lotes — ingreso y ajustes para supervisor/administrador
		v1.GET("/lotes/por-vencer", vendedores, lotesH.PorVencer)
		v1.GET("/lotes/:id", vendedores, lotesH.Obtener)
		lotes := v1.Group("/lotes", gestores)
		{
			lotes.POST("", lotesH.Registrar)
			lotes.PUT("/:id/precios", lotesH.ActualizarPrecios)
			lotes.POST("/:id/ajuste", lotesH.AjustarStock)
			lotes.DELETE("/:id", lotesH.Desactivar)
			lotes.GET("/:id/historial-precios", lotesH.HistorialPrecios)
			lotes.GET("/:id/movimientos", lotesH.Movimientos)
		}

		clientes := v1.Group("/clientes", vendedores)
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", admin, clientesH.Desactivar)
		}

		prov := v1.Group("/proveedores", admin)
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
		}

		v1.GET("/marcas", vendedores, marcasH.Listar)
		marcas := v1.Group("/marcas", admin)
		{
			marcas.POST("", marcasH.Crear)
			marcas.PUT("/:id", marcasH.Actualizar)
			marcas.DELETE("/:id", marcasH.Desactivar)
		}

		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", authH.CrearUsuario)
			usuarios.GET("", authH.ListarUsuarios)
			usuarios.PUT("/:id", authH.ActualizarUsuario)
			usuarios.DELETE("/:id", authH.DesactivarUsuario)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
