package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

func TestCrearProducto_StockInicialPorLedger(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	provID := prov.ID.String()

	resp, err := e.productos.Crear(context.Background(), admin, dto.CrearProductoRequest{
		Nombre:       "Cama artesanal",
		ProveedorID:  &provID,
		UnidadMedida: "UNIT",
		Variantes: []dto.VarianteRequest{
			{Nombre: "S", PrecioCosto: dec("100"), PrecioVenta: dec("180"), StockInicial: 4},
			{Nombre: "L", PrecioCosto: dec("150"), PrecioVenta: dec("250")},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.Variantes, 2)
	assert.Equal(t, 4, resp.Variantes[0].Stock)

	s := uuid.MustParse(resp.Variantes[0].ID)
	assert.Equal(t, 4, e.stock(t, s))

	var movs []model.MovimientoStock
	require.NoError(t, e.db.Find(&movs).Error)
	require.Len(t, movs, 1)
	assert.Equal(t, model.MovIngreso, movs[0].Tipo)
	assert.Equal(t, 4, movs[0].Cantidad)
}

func TestCrearProducto_ProveedorInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	provID := uuid.NewString()

	_, err := e.productos.Crear(context.Background(), admin, dto.CrearProductoRequest{
		Nombre:       "Cama",
		ProveedorID:  &provID,
		UnidadMedida: "UNIT",
		Variantes:    []dto.VarianteRequest{{PrecioVenta: dec("10")}},
	})
	requireCodigo(t, err, apierror.CodeNoEncontrado)
	assert.Zero(t, e.contar(t, &model.Producto{}))
}

func TestCambiarActivo_NoArchivaConStock(t *testing.T) {
	e := nuevoEntorno(t)
	v := e.crearVariante(t, "Shampoo", nil, model.UnidadUnidad, "10", "20", 1)

	_, err := e.productos.CambiarActivo(context.Background(), v.ProductoID, false)
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Equal(t, "No se puede archivar un producto con stock", msg)

	var p model.Producto
	require.NoError(t, e.db.First(&p, "id = ?", v.ProductoID).Error)
	assert.True(t, p.Activo)

	_, err = e.inventario.RegistrarMovimiento(context.Background(), admin, dto.MovimientoManualRequest{
		VarianteID: v.ID.String(), Tipo: "ADJUSTMENT", Cantidad: -1, Motivo: "rotura",
	})
	require.NoError(t, err)

	resp, err := e.productos.CambiarActivo(context.Background(), v.ProductoID, false)
	require.NoError(t, err)
	assert.False(t, resp.Activo)

	resp, err = e.productos.CambiarActivo(context.Background(), v.ProductoID, true)
	require.NoError(t, err)
	assert.True(t, resp.Activo)
}

func TestActualizarProducto_UnidadFijaTrasVentas(t *testing.T) {
	e := nuevoEntorno(t)
	v := e.crearVariante(t, "Alimento", nil, model.UnidadUnidad, "10", "20", 5)
	gram := "GRAM"

	resp, err := e.productos.Actualizar(context.Background(), v.ProductoID, dto.ActualizarProductoRequest{UnidadMedida: &gram})
	require.NoError(t, err)
	assert.Equal(t, "GRAM", resp.UnidadMedida)

	unit := "UNIT"
	_, err = e.productos.Actualizar(context.Background(), v.ProductoID, dto.ActualizarProductoRequest{UnidadMedida: &unit})
	require.NoError(t, err)

	e.vender(t, v, 1)
	_, err = e.productos.Actualizar(context.Background(), v.ProductoID, dto.ActualizarProductoRequest{UnidadMedida: &gram})
	requireCodigo(t, err, apierror.CodeNegocio)

	nombre := "Alimento premium"
	resp, err = e.productos.Actualizar(context.Background(), v.ProductoID, dto.ActualizarProductoRequest{Nombre: &nombre})
	require.NoError(t, err)
	assert.Equal(t, nombre, resp.Nombre)
}

func TestConsultarPrecio_SinCache(t *testing.T) {
	e := nuevoEntorno(t)
	v := e.crearVariante(t, "Alimento suelto", nil, model.UnidadGramo, "6000", "10000", 3000)

	resp, err := e.productos.ConsultarPrecio(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alimento suelto", resp.Nombre)
	assert.Equal(t, "GRAM", resp.UnidadMedida)
	assert.True(t, resp.PrecioVenta.Equal(dec("10000")))
	assert.Equal(t, 3000, resp.Stock)

	_, err = e.productos.ConsultarPrecio(context.Background(), uuid.New())
	requireCodigo(t, err, apierror.CodeNoEncontrado)
}
