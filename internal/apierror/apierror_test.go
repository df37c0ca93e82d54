package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublico_ErrorClasificado(t *testing.T) {
	err := fmt.Errorf("procesar venta: %w", Negocio("Stock insuficiente para %s.", "Collar rojo"))

	status, body := Publico(err)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, "Stock insuficiente para Collar rojo.", body.Detail)
}

func TestPublico_NoFiltraErroresDeInfraestructura(t *testing.T) {
	status, body := Publico(errors.New(`pq: relation "ventas" does not exist`))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, MensajeInterno, body.Detail)

	status, body = Publico(Interno(errors.New("dial tcp: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, MensajeInterno, body.Detail)
}

func TestWrap_ConservaCausa(t *testing.T) {
	causa := errors.New("deadlock detected")
	err := Wrap(CodeConflicto, causa, "Reintente la operación")

	require.ErrorIs(t, err, causa)
	assert.Equal(t, CodeConflicto, CodeOf(err))
	assert.Equal(t, CodeInterno, CodeOf(causa))
}

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, CodeValidacion.HTTPStatus())
	assert.Equal(t, http.StatusConflict, CodeConflicto.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, CodeNoAutorizado.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, CodeNoEncontrado.HTTPStatus())
}
