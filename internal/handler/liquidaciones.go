package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/middleware"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

type LiquidacionesHandler struct{ svc service.LiquidacionService }

func NewLiquidacionesHandler(svc service.LiquidacionService) *LiquidacionesHandler {
	return &LiquidacionesHandler{svc: svc}
}

// Crear godoc
// @Summary      Liquidar a un proveedor
// @Description  Paga ítems vendidos y ajustes pendientes. Solo ADMIN. Todo o nada.
// @Tags         liquidaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearLiquidacionRequest true "Selección"
// @Success      201  {object} dto.LiquidacionCreadaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      403  {object} apierror.APIError
// @Router       /v1/liquidaciones [post]
func (h *LiquidacionesHandler) Crear(c *gin.Context) {
	var req dto.CrearLiquidacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearLiquidacion(c.Request.Context(), middleware.GetSesion(c), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// LiquidarAgrupado POST /v1/liquidaciones/agrupada
// Quantities per variant are spread over pending items oldest first.
func (h *LiquidacionesHandler) LiquidarAgrupado(c *gin.Context) {
	var req dto.LiquidarAgrupadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LiquidarAgrupado(c.Request.Context(), middleware.GetSesion(c), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *LiquidacionesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerLiquidacion(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pendientes GET /v1/proveedores/:id/pendientes
func (h *LiquidacionesHandler) Pendientes(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ListarPendientes(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearAjuste POST /v1/proveedores/:id/ajustes
func (h *LiquidacionesHandler) CrearAjuste(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CrearAjusteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearAjuste(c.Request.Context(), middleware.GetSesion(c), id, req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
