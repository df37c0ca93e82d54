package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/handler"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/middleware"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"

	_ "github.com/raulbarbur/abysstracker-system-sub000/docs"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// rdb, reg and encolador may be nil: the price cache, settlement lock,
// /metrics and receipt jobs are then disabled.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, reg *prometheus.Registry, encolador service.EncoladorLiquidaciones) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	var registerer prometheus.Registerer
	if reg != nil {
		registerer = reg
	}
	ops := metrics.NewOperaciones(registerer)
	txTimeout := cfg.TxTimeout()

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	varianteRepo := repository.NewVarianteRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	inventarioSvc := service.NewInventarioService(db, varianteRepo, movimientoStockRepo, txTimeout, ops)
	productoSvc := service.NewProductoService(productoRepo, varianteRepo, proveedorRepo, inventarioSvc, rdb,
		time.Duration(cfg.PriceCacheTTLSeconds)*time.Second, txTimeout)
	ventaSvc := service.NewVentaService(ventaRepo, varianteRepo, clienteRepo, turnoRepo, liquidacionRepo, inventarioSvc, txTimeout, ops)
	cobranzaSvc := service.NewCobranzaService(ventaRepo, clienteRepo, txTimeout, ops)
	liquidacionSvc := service.NewLiquidacionConLock(
		service.NewLiquidacionService(liquidacionRepo, ventaRepo, proveedorRepo, encolador, txTimeout, ops),
		infra.NewLocker(rdb),
		time.Duration(cfg.SettlementLockSeconds)*time.Second,
	)
	turnoSvc := service.NewTurnoService(turnoRepo, clienteRepo, cfg.Location(), txTimeout, ops)
	proveedorSvc := service.NewProveedorService(proveedorRepo)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	clienteSvc := service.NewClienteService(clienteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	ventasH := handler.NewVentasHandler(ventaSvc, cobranzaSvc)
	liquidacionesH := handler.NewLiquidacionesHandler(liquidacionSvc)
	turnosH := handler.NewTurnosHandler(turnoSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc, cobranzaSvc)
	consultaH := handler.NewConsultaPreciosHandler(productoSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	if reg != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	}

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Price check: no auth required
	r.GET("/v1/precio/:variante_id", consultaH.GetPrecio)

	// Protected routes. Demo mode sits after auth so reads still need a token.
	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.ModoDemo(cfg.DemoMode))
	soloAdmin := middleware.RequireRole(model.RolAdmin)
	{
		ventas := v1.Group("/ventas")
		{
			ventas.POST("", ventasH.ProcesarVenta)
			ventas.GET("", ventasH.ListarVentas)
			ventas.GET("/:id", ventasH.ObtenerVenta)
			ventas.POST("/:id/anular", ventasH.AnularVenta)
			ventas.POST("/:id/cobros", ventasH.RegistrarCobro)
		}

		liq := v1.Group("/liquidaciones", soloAdmin)
		{
			liq.POST("", liquidacionesH.Crear)
			liq.POST("/agrupada", liquidacionesH.LiquidarAgrupado)
			liq.GET("/:id", liquidacionesH.Obtener)
		}

		prov := v1.Group("/proveedores")
		{
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.POST("", soloAdmin, proveedoresH.Crear)
			prov.GET("/:id/pendientes", soloAdmin, liquidacionesH.Pendientes)
			prov.POST("/:id/ajustes", soloAdmin, liquidacionesH.CrearAjuste)
		}

		turnos := v1.Group("/turnos")
		{
			turnos.POST("", turnosH.Crear)
			turnos.GET("", turnosH.Listar)
			turnos.PATCH("/:id/estado", turnosH.CambiarEstado)
		}

		prods := v1.Group("/productos")
		{
			prods.GET("/:id", productosH.ObtenerPorID)
			prods.POST("", soloAdmin, productosH.Crear)
			prods.PUT("/:id", soloAdmin, productosH.Actualizar)
			prods.PATCH("/:id/activo", soloAdmin, productosH.CambiarActivo)
		}

		inv := v1.Group("/inventario")
		{
			inv.POST("/movimientos", inventarioH.RegistrarMovimiento)
			inv.GET("/movimientos", inventarioH.ListarMovimientos)
		}

		clientes := v1.Group("/clientes")
		{
			clientes.POST("", clientesH.Crear)
			clientes.POST("/:id/mascotas", clientesH.CrearMascota)
			clientes.GET("/:id/saldo", clientesH.Saldo)
		}

		v1.GET("/categorias", categoriasH.Listar)
		v1.GET("/categorias/:id", categoriasH.Obtener)
		v1.POST("/categorias", soloAdmin, categoriasH.Crear)

		v1.POST("/usuarios", soloAdmin, authH.CrearUsuario)
	}

	// Swagger UI: only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
