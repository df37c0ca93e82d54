package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

// vender registers a paid sale of one line and returns its item.
func (e *entorno) vender(t *testing.T, v *model.Variante, cantidad int) model.VentaItem {
	t.Helper()
	resp, err := e.ventas.ProcesarVenta(context.Background(), cajero, dto.ProcesarVentaRequest{
		MetodoPago: "CASH",
		Items:      []dto.ItemCarritoRequest{lineaProducto(v, cantidad, v.PrecioVenta.String())},
	})
	require.NoError(t, err)
	venta := e.venta(t, resp.VentaID)
	require.Len(t, venta.Items, 1)
	return venta.Items[0]
}

func seleccionVenta(it model.VentaItem, cantidad *int) dto.SeleccionItem {
	return dto.SeleccionItem{ID: it.ID.String(), Tipo: "SALE", Cantidad: cantidad}
}

func TestCrearLiquidacion_SoloAdmin(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 1)

	_, err := e.liquidaciones.CrearLiquidacion(context.Background(), cajero, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	requireCodigo(t, err, apierror.CodeNoAutorizado)
	assert.Zero(t, e.contar(t, &model.Liquidacion{}))
}

func TestCrearLiquidacion_SeleccionVacia(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")

	_, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
	})
	requireCodigo(t, err, apierror.CodeValidacion)
}

func TestCrearLiquidacion_PagaCostoYMarcaCantidad(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100.10", "180", 5)
	it := e.vender(t, v, 3)

	resp, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, intPtr(2))},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("200.2")), resp.Total.String())

	var actual model.VentaItem
	require.NoError(t, e.db.First(&actual, "id = ?", it.ID).Error)
	assert.Equal(t, 2, actual.CantidadLiquidada)

	liq, err := e.liquidaciones.ObtenerLiquidacion(context.Background(), uuid.MustParse(resp.LiquidacionID))
	require.NoError(t, err)
	assert.Equal(t, "Don Pedro", liq.Proveedor)
	require.Len(t, liq.Lineas, 1)
	assert.Equal(t, 2, liq.Lineas[0].Cantidad)
	assert.Equal(t, "Cama", liq.Lineas[0].Descripcion)

	require.Len(t, e.encolador.ids, 1)
	assert.Equal(t, resp.LiquidacionID, e.encolador.ids[0].String())
}

func TestCrearLiquidacion_NoSePagaDosVeces(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 2)
	req := dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	}

	first, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, req)
	require.NoError(t, err)
	assert.True(t, first.Total.Equal(dec("200")))

	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, req)
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "solo se deben 0")

	var actual model.VentaItem
	require.NoError(t, e.db.First(&actual, "id = ?", it.ID).Error)
	assert.Equal(t, 2, actual.CantidadLiquidada)
	assert.Equal(t, int64(1), e.contar(t, &model.Liquidacion{}))
}

func TestCrearLiquidacion_CantidadAcumuladaEnSeleccion(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 3)

	_, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, intPtr(2)), seleccionVenta(it, intPtr(2))},
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "solo se deben 1")
	assert.Zero(t, e.contar(t, &model.Liquidacion{}))
}

func TestCrearLiquidacion_ClienteNoPago(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	cli := e.crearCliente(t, "Ana")
	clienteID := cli.ID.String()

	resp, err := e.ventas.ProcesarVenta(context.Background(), cajero, dto.ProcesarVentaRequest{
		ClienteID:  &clienteID,
		MetodoPago: "CHECKING_ACCOUNT",
		Items:      []dto.ItemCarritoRequest{lineaProducto(v, 1, "180")},
	})
	require.NoError(t, err)
	it := e.venta(t, resp.VentaID).Items[0]

	for _, cantidad := range []*int{nil, intPtr(1)} {
		_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
			ProveedorID: prov.ID.String(),
			Seleccion:   []dto.SeleccionItem{seleccionVenta(it, cantidad)},
		})
		msg := requireCodigo(t, err, apierror.CodeNegocio)
		assert.Contains(t, msg, "AÚN NO PAGÓ")
	}

	// once the customer pays in full the line becomes settleable
	_, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, uuid.MustParse(resp.VentaID), dec("180"))
	require.NoError(t, err)
	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	require.NoError(t, err)
}

func TestCrearLiquidacion_ItemAjeno(t *testing.T) {
	e := nuevoEntorno(t)
	pedro := e.crearProveedor(t, "Don Pedro")
	juana := e.crearProveedor(t, "Juana")
	v := e.crearVariante(t, "Cama", juana, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 1)

	_, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: pedro.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "ajeno")
}

func TestCrearLiquidacion_VentaAnulada(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 1)
	_, err := e.ventas.AnularVenta(context.Background(), cajero, it.VentaID, "")
	require.NoError(t, err)

	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "anulada")
}

func TestCrearLiquidacion_Gramos(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Granja")
	v := e.crearVariante(t, "Alimento suelto", prov, model.UnidadGramo, "8000", "10000", 5000)
	it := e.vender(t, v, 250)

	resp, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("2000")), resp.Total.String())
}

func TestCrearLiquidacion_AjustesNetean(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 2)

	debito, err := e.liquidaciones.CrearAjuste(context.Background(), admin, prov.ID, dto.CrearAjusteRequest{
		Monto: dec("-50"), Descripcion: "comisión feria",
	})
	require.NoError(t, err)

	resp, err := e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion: []dto.SeleccionItem{
			seleccionVenta(it, nil),
			{ID: debito.ID, Tipo: "ADJUSTMENT"},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("150")), resp.Total.String())

	var a model.AjusteSaldo
	require.NoError(t, e.db.First(&a, "id = ?", debito.ID).Error)
	assert.True(t, a.Aplicado)
	require.NotNil(t, a.LiquidacionID)
	assert.Equal(t, resp.LiquidacionID, a.LiquidacionID.String())

	liq, err := e.liquidaciones.ObtenerLiquidacion(context.Background(), *a.LiquidacionID)
	require.NoError(t, err)
	require.Len(t, liq.Ajustes, 1)
}

func TestCrearLiquidacion_AjusteYaPagado(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	bono, err := e.liquidaciones.CrearAjuste(context.Background(), admin, prov.ID, dto.CrearAjusteRequest{
		Monto: dec("30"), Descripcion: "bonificación",
	})
	require.NoError(t, err)
	sel := []dto.SeleccionItem{{ID: bono.ID, Tipo: "ADJUSTMENT"}}

	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(), Seleccion: sel,
	})
	require.NoError(t, err)

	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(), Seleccion: sel,
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "ya fue pagado")
}

func TestCrearLiquidacion_TotalNoPositivo(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 1)
	deuda, err := e.liquidaciones.CrearAjuste(context.Background(), admin, prov.ID, dto.CrearAjusteRequest{
		Monto: dec("-100"), Descripcion: "anulación",
	})
	require.NoError(t, err)

	_, err = e.liquidaciones.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil), {ID: deuda.ID, Tipo: "ADJUSTMENT"}},
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "negativas o en cero")

	var actual model.VentaItem
	require.NoError(t, e.db.First(&actual, "id = ?", it.ID).Error)
	assert.Zero(t, actual.CantidadLiquidada)
}

func TestCrearAjuste_Validaciones(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")

	_, err := e.liquidaciones.CrearAjuste(context.Background(), cajero, prov.ID, dto.CrearAjusteRequest{Monto: dec("10"), Descripcion: "x"})
	requireCodigo(t, err, apierror.CodeNoAutorizado)

	_, err = e.liquidaciones.CrearAjuste(context.Background(), admin, prov.ID, dto.CrearAjusteRequest{Monto: dec("0.001"), Descripcion: "redondeo"})
	requireCodigo(t, err, apierror.CodeValidacion)

	_, err = e.liquidaciones.CrearAjuste(context.Background(), admin, uuid.New(), dto.CrearAjusteRequest{Monto: dec("10"), Descripcion: "bono"})
	requireCodigo(t, err, apierror.CodeNoEncontrado)
}

func TestListarPendientes(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	cama := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 10)
	propia := e.crearVariante(t, "Propio", nil, model.UnidadUnidad, "1", "2", 10)
	e.vender(t, cama, 2)
	e.vender(t, cama, 1)
	e.vender(t, propia, 1)
	_, err := e.liquidaciones.CrearAjuste(context.Background(), admin, prov.ID, dto.CrearAjusteRequest{
		Monto: dec("-20"), Descripcion: "comisión",
	})
	require.NoError(t, err)

	resp, err := e.liquidaciones.ListarPendientes(context.Background(), prov.ID)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
	require.Len(t, resp.Grupos, 1)
	assert.Equal(t, 3, resp.Grupos[0].Pendiente)
	assert.True(t, resp.Grupos[0].Monto.Equal(dec("300")))
	assert.Len(t, resp.Ajustes, 1)
	assert.True(t, resp.TotalAPagar.Equal(dec("280")), resp.TotalAPagar.String())
}

func TestLiquidarAgrupado_ConsumeLaVentaMasAntigua(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 10)
	nueva := e.vender(t, v, 2)
	vieja := e.vender(t, v, 2)

	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, e.db.Model(&model.Venta{}).Where("id = ?", vieja.VentaID).Update("created_at", base).Error)
	require.NoError(t, e.db.Model(&model.Venta{}).Where("id = ?", nueva.VentaID).Update("created_at", base.Add(time.Hour)).Error)

	resp, err := e.liquidaciones.LiquidarAgrupado(context.Background(), admin, dto.LiquidarAgrupadoRequest{
		ProveedorID: prov.ID.String(),
		Grupos:      []dto.GrupoSeleccion{{VarianteID: v.ID.String(), Cantidad: 3}},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("300")))

	var a, b model.VentaItem
	require.NoError(t, e.db.First(&a, "id = ?", vieja.ID).Error)
	require.NoError(t, e.db.First(&b, "id = ?", nueva.ID).Error)
	assert.Equal(t, 2, a.CantidadLiquidada)
	assert.Equal(t, 1, b.CantidadLiquidada)

	_, err = e.liquidaciones.LiquidarAgrupado(context.Background(), admin, dto.LiquidarAgrupadoRequest{
		ProveedorID: prov.ID.String(),
		Grupos:      []dto.GrupoSeleccion{{VarianteID: v.ID.String(), Cantidad: 2}},
	})
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Contains(t, msg, "Solo se deben 1")
}

func TestLiquidacionConLock_SinRedisIgualLiquida(t *testing.T) {
	e := nuevoEntorno(t)
	prov := e.crearProveedor(t, "Don Pedro")
	v := e.crearVariante(t, "Cama", prov, model.UnidadUnidad, "100", "180", 5)
	it := e.vender(t, v, 1)

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	t.Cleanup(func() { _ = rdb.Close() })
	svc := service.NewLiquidacionConLock(e.liquidaciones, redislock.New(rdb), time.Second)

	resp, err := svc.CrearLiquidacion(context.Background(), admin, dto.CrearLiquidacionRequest{
		ProveedorID: prov.ID.String(),
		Seleccion:   []dto.SeleccionItem{seleccionVenta(it, nil)},
	})
	require.NoError(t, err)
	assert.True(t, resp.Total.Equal(dec("100")))
}

func TestLiquidacionConLock_SinLockerDevuelveServicio(t *testing.T) {
	e := nuevoEntorno(t)
	assert.Equal(t, e.liquidaciones, service.NewLiquidacionConLock(e.liquidaciones, nil, time.Second))
}
