package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/middleware"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

type VentasHandler struct {
	svc       service.VentaService
	cobranzas service.CobranzaService
}

func NewVentasHandler(svc service.VentaService, cobranzas service.CobranzaService) *VentasHandler {
	return &VentasHandler{svc: svc, cobranzas: cobranzas}
}

// ProcesarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Venta atómica: descuenta stock, registra movimientos y factura turnos. Nada se escribe si una línea falla.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProcesarVentaRequest true "Carrito"
// @Success      201  {object} dto.VentaProcesadaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas [post]
func (h *VentasHandler) ProcesarVenta(c *gin.Context) {
	var req dto.ProcesarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ProcesarVenta(c.Request.Context(), middleware.GetSesion(c), req)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AnularVenta godoc
// @Summary      Anular venta
// @Description  Restaura stock y genera ajustes negativos para los ítems ya liquidados.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string                 true "UUID de la venta"
// @Param        body body     dto.AnularVentaRequest false "Motivo"
// @Success      200  {object} dto.VentaAnuladaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/ventas/{id}/anular [post]
func (h *VentasHandler) AnularVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AnularVentaRequest
	if c.Request.ContentLength > 0 && !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AnularVenta(c.Request.Context(), middleware.GetSesion(c), id, req.Motivo)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVenta GET /v1/ventas/:id
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerVenta(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        desde      query string false "YYYY-MM-DD"
// @Param        hasta      query string false "YYYY-MM-DD (inclusive)"
// @Param        estado     query string false "COMPLETED | CANCELLED"
// @Param        cliente_id query string false "UUID del cliente"
// @Success      200 {object} dto.VentaListResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarVentas(c.Request.Context(), filter)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegistrarCobro POST /v1/ventas/:id/cobros
func (h *VentasHandler) RegistrarCobro(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.RegistrarCobroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.cobranzas.RegistrarCobro(c.Request.Context(), middleware.GetSesion(c), id, req.Monto)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
