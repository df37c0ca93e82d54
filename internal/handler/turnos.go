package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

type TurnosHandler struct{ svc service.TurnoService }

func NewTurnosHandler(svc service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// Crear POST /v1/turnos
func (h *TurnosHandler) Crear(c *gin.Context) {
	var req dto.CrearTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearTurno(c.Request.Context(), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CambiarEstado PATCH /v1/turnos/:id/estado
func (h *TurnosHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, model.EstadoTurno(req.Estado))
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar GET /v1/turnos?desde=YYYY-MM-DD&hasta=YYYY-MM-DD
func (h *TurnosHandler) Listar(c *gin.Context) {
	var filter dto.TurnoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarTurnos(c.Request.Context(), filter)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
