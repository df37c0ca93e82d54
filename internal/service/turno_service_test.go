package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

func turnoReq(m *model.Mascota, hora string, minutos int) dto.CrearTurnoRequest {
	return dto.CrearTurnoRequest{MascotaID: m.ID.String(), Fecha: "2026-03-10", Hora: hora, DuracionMinutos: minutos}
}

func TestCrearTurno_Solapamiento(t *testing.T) {
	e := nuevoEntorno(t)
	toby := e.crearMascota(t, "Toby")
	luna := e.crearMascota(t, "Luna")

	first, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "10:00", 60))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", first.Turno.Estado)
	assert.Equal(t, time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC), first.Turno.Fin.UTC())

	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(luna, "10:30", 60))
	msg := requireCodigo(t, err, apierror.CodeNegocio)
	assert.Equal(t, "Horario ocupado por Toby.", msg)

	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(luna, "09:30", 31))
	requireCodigo(t, err, apierror.CodeNegocio)

	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(luna, "11:00", 60))
	require.NoError(t, err)

	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(luna, "09:00", 60))
	require.NoError(t, err)

	assert.Equal(t, int64(3), e.contar(t, &model.Turno{}))
}

func TestCrearTurno_CanceladoLiberaHorario(t *testing.T) {
	e := nuevoEntorno(t)
	toby := e.crearMascota(t, "Toby")

	first, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "10:00", 60))
	require.NoError(t, err)
	_, err = e.turnos.CambiarEstado(context.Background(), uuid.MustParse(first.Turno.ID), model.TurnoCancelado)
	require.NoError(t, err)

	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(toby, "10:15", 30))
	require.NoError(t, err)
}

func TestCrearTurno_Duracion(t *testing.T) {
	e := nuevoEntorno(t)
	toby := e.crearMascota(t, "Toby")

	for _, minutos := range []int{0, -5, 481} {
		_, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "10:00", minutos))
		requireCodigo(t, err, apierror.CodeValidacion)
	}
	_, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "08:00", 480))
	require.NoError(t, err)
}

func TestCrearTurno_MascotaInexistente(t *testing.T) {
	e := nuevoEntorno(t)
	_, err := e.turnos.CrearTurno(context.Background(), dto.CrearTurnoRequest{
		MascotaID: uuid.NewString(), Fecha: "2026-03-10", Hora: "10:00", DuracionMinutos: 30,
	})
	requireCodigo(t, err, apierror.CodeNoEncontrado)
}

func TestCambiarEstado_MaquinaDeEstados(t *testing.T) {
	e := nuevoEntorno(t)
	toby := e.crearMascota(t, "Toby")
	creado, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "10:00", 60))
	require.NoError(t, err)
	id := uuid.MustParse(creado.Turno.ID)

	_, err = e.turnos.CambiarEstado(context.Background(), id, model.TurnoCompletado)
	requireCodigo(t, err, apierror.CodeNegocio)

	for _, estado := range []model.EstadoTurno{model.TurnoConfirmado, model.TurnoCompletado, model.TurnoFacturado} {
		resp, err := e.turnos.CambiarEstado(context.Background(), id, estado)
		require.NoError(t, err)
		assert.Equal(t, string(estado), resp.Estado)
	}

	_, err = e.turnos.CambiarEstado(context.Background(), id, model.TurnoCancelado)
	requireCodigo(t, err, apierror.CodeNegocio)

	_, err = e.turnos.CambiarEstado(context.Background(), uuid.New(), model.TurnoConfirmado)
	requireCodigo(t, err, apierror.CodeNoEncontrado)
}

func TestListarTurnos(t *testing.T) {
	e := nuevoEntorno(t)
	toby := e.crearMascota(t, "Toby")
	_, err := e.turnos.CrearTurno(context.Background(), turnoReq(toby, "15:00", 30))
	require.NoError(t, err)
	_, err = e.turnos.CrearTurno(context.Background(), turnoReq(toby, "09:00", 30))
	require.NoError(t, err)
	_, err = e.turnos.CrearTurno(context.Background(), dto.CrearTurnoRequest{
		MascotaID: toby.ID.String(), Fecha: "2026-03-11", Hora: "09:00", DuracionMinutos: 30,
	})
	require.NoError(t, err)

	list, err := e.turnos.ListarTurnos(context.Background(), dto.TurnoFilter{Desde: "2026-03-10"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Inicio.Before(list[1].Inicio))
	assert.Equal(t, "Toby", list[0].Mascota)

	list, err = e.turnos.ListarTurnos(context.Background(), dto.TurnoFilter{Desde: "2026-03-10", Hasta: "2026-03-11"})
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestTransicionesTurno(t *testing.T) {
	assert.True(t, model.PuedePasarA(model.TurnoPendiente, model.TurnoConfirmado))
	assert.True(t, model.PuedePasarA(model.TurnoConfirmado, model.TurnoCancelado))
	assert.False(t, model.PuedePasarA(model.TurnoFacturado, model.TurnoCancelado))
	assert.False(t, model.PuedePasarA(model.TurnoCancelado, model.TurnoPendiente))
	assert.False(t, model.PuedePasarA(model.TurnoPendiente, model.TurnoFacturado))
}
