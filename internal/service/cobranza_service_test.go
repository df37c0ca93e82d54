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

func ventaCuentaCorriente(t *testing.T, e *entorno, cli *model.Cliente, v *model.Variante, cantidad int) uuid.UUID {
	t.Helper()
	clienteID := cli.ID.String()
	resp, err := e.ventas.ProcesarVenta(context.Background(), cajero, dto.ProcesarVentaRequest{
		ClienteID:  &clienteID,
		MetodoPago: "CHECKING_ACCOUNT",
		Items:      []dto.ItemCarritoRequest{lineaProducto(v, cantidad, v.PrecioVenta.String())},
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.VentaID)
}

func TestRegistrarCobro_ParcialYTotal(t *testing.T) {
	e := nuevoEntorno(t)
	v := e.crearVariante(t, "Cucha", nil, model.UnidadUnidad, "100", "250", 5)
	cli := e.crearCliente(t, "Ana")
	id := ventaCuentaCorriente(t, e, cli, v, 2)

	resp, err := e.cobranzas.RegistrarCobro(context.Background(), cajero, id, dec("200"))
	require.NoError(t, err)
	assert.Equal(t, "PARTIAL", resp.EstadoPago)
	assert.True(t, resp.Saldo.Equal(dec("300")))

	saldo, err := e.cobranzas.SaldoCliente(context.Background(), cli.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.Equal(dec("300")))
	assert.Equal(t, int64(1), saldo.VentasPendientes)

	_, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, id, dec("300.01"))
	requireCodigo(t, err, apierror.CodeNegocio)

	resp, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, id, dec("300"))
	require.NoError(t, err)
	assert.Equal(t, "PAID", resp.EstadoPago)
	assert.True(t, resp.Saldo.IsZero())
	assert.Equal(t, int64(2), e.contar(t, &model.Cobro{}))

	_, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, id, dec("1"))
	requireCodigo(t, err, apierror.CodeNegocio)

	saldo, err = e.cobranzas.SaldoCliente(context.Background(), cli.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.IsZero())
}

func TestRegistrarCobro_VentaAnulada(t *testing.T) {
	e := nuevoEntorno(t)
	v := e.crearVariante(t, "Cucha", nil, model.UnidadUnidad, "100", "250", 5)
	cli := e.crearCliente(t, "Ana")
	id := ventaCuentaCorriente(t, e, cli, v, 1)
	_, err := e.ventas.AnularVenta(context.Background(), cajero, id, "")
	require.NoError(t, err)

	_, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, id, dec("10"))
	requireCodigo(t, err, apierror.CodeNegocio)

	saldo, err := e.cobranzas.SaldoCliente(context.Background(), cli.ID)
	require.NoError(t, err)
	assert.True(t, saldo.Saldo.IsZero())
}

func TestRegistrarCobro_MontoInvalido(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.cobranzas.RegistrarCobro(context.Background(), cajero, uuid.New(), dec("0"))
	requireCodigo(t, err, apierror.CodeValidacion)

	_, err = e.cobranzas.RegistrarCobro(context.Background(), cajero, uuid.New(), dec("10"))
	requireCodigo(t, err, apierror.CodeNoEncontrado)
}
