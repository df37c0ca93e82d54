package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/testutil"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubEncolador records settlements handed to the receipt worker.
type stubEncolador struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (e *stubEncolador) EncolarLiquidacion(_ context.Context, id uuid.UUID) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ids = append(e.ids, id)
	return nil
}

var _ service.EncoladorLiquidaciones = (*stubEncolador)(nil)

// ── Entorno ───────────────────────────────────────────────────────────────────

var (
	admin  = model.Sesion{UsuarioID: uuid.New(), Rol: model.RolAdmin}
	cajero = model.Sesion{UsuarioID: uuid.New(), Rol: model.RolUsuario}
)

type entorno struct {
	db *gorm.DB

	varianteRepo    repository.VarianteRepository
	ventaRepo       repository.VentaRepository
	liquidacionRepo repository.LiquidacionRepository

	inventario    service.InventarioService
	ventas        service.VentaService
	cobranzas     service.CobranzaService
	liquidaciones service.LiquidacionService
	turnos        service.TurnoService
	productos     service.ProductoService
	encolador     *stubEncolador
}

func nuevoEntorno(t *testing.T) *entorno {
	t.Helper()
	db := testutil.NuevaDB(t)

	productoRepo := repository.NewProductoRepository(db)
	varianteRepo := repository.NewVarianteRepository(db)
	movRepo := repository.NewMovimientoStockRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	turnoRepo := repository.NewTurnoRepository(db)
	liquidacionRepo := repository.NewLiquidacionRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)

	const timeout = 5 * time.Second
	inventario := service.NewInventarioService(db, varianteRepo, movRepo, timeout, nil)
	encolador := &stubEncolador{}

	return &entorno{
		db:              db,
		varianteRepo:    varianteRepo,
		ventaRepo:       ventaRepo,
		liquidacionRepo: liquidacionRepo,
		inventario:      inventario,
		ventas:          service.NewVentaService(ventaRepo, varianteRepo, clienteRepo, turnoRepo, liquidacionRepo, inventario, timeout, nil),
		cobranzas:       service.NewCobranzaService(ventaRepo, clienteRepo, timeout, nil),
		liquidaciones:   service.NewLiquidacionService(liquidacionRepo, ventaRepo, proveedorRepo, encolador, timeout, nil),
		turnos:          service.NewTurnoService(turnoRepo, clienteRepo, time.UTC, timeout, nil),
		productos:       service.NewProductoService(productoRepo, varianteRepo, proveedorRepo, inventario, nil, time.Minute, timeout),
		encolador:       encolador,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func intPtr(n int) *int { return &n }

func (e *entorno) crearProveedor(t *testing.T, nombre string) *model.Proveedor {
	t.Helper()
	p := &model.Proveedor{Nombre: nombre, Activo: true}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *entorno) crearCliente(t *testing.T, nombre string) *model.Cliente {
	t.Helper()
	c := &model.Cliente{Nombre: nombre}
	require.NoError(t, e.db.Create(c).Error)
	return c
}

func (e *entorno) crearMascota(t *testing.T, nombre string) *model.Mascota {
	t.Helper()
	m := &model.Mascota{Nombre: nombre}
	require.NoError(t, e.db.Create(m).Error)
	return m
}

// crearVariante inserts a product with a single variant and its stock already set.
func (e *entorno) crearVariante(t *testing.T, nombre string, proveedor *model.Proveedor, uom model.UnidadMedida, costo, precio string, stock int) *model.Variante {
	t.Helper()
	p := &model.Producto{Nombre: nombre, UnidadMedida: uom, Activo: true}
	if proveedor != nil {
		p.ProveedorID = &proveedor.ID
	}
	require.NoError(t, e.db.Omit("Variantes").Create(p).Error)
	v := &model.Variante{
		ProductoID:  p.ID,
		PrecioCosto: dec(costo),
		PrecioVenta: dec(precio),
		Stock:       stock,
	}
	require.NoError(t, e.db.Create(v).Error)
	v.Producto = p
	return v
}

func (e *entorno) stock(t *testing.T, varianteID uuid.UUID) int {
	t.Helper()
	var v model.Variante
	require.NoError(t, e.db.First(&v, "id = ?", varianteID).Error)
	return v.Stock
}

func (e *entorno) contar(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func (e *entorno) venta(t *testing.T, id string) *model.Venta {
	t.Helper()
	v, err := e.ventaRepo.FindByID(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	return v
}

// requireCodigo asserts err is a classified error with the given code and returns its message.
func requireCodigo(t *testing.T, err error, code apierror.Code) string {
	t.Helper()
	require.Error(t, err)
	e, ok := apierror.As(err)
	require.True(t, ok, "error sin clasificar: %v", err)
	require.Equal(t, code, e.Code, e.Mensaje)
	return e.Mensaje
}
