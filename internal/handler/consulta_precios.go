package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

// ConsultaPreciosHandler serves the public price check endpoint.
// No authentication and no side effects beyond the price cache.
type ConsultaPreciosHandler struct{ svc service.ProductoService }

func NewConsultaPreciosHandler(svc service.ProductoService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// GetPrecio godoc
// @Summary Consulta de precio por variante (sin autenticacion)
// @Tags precio
// @Produce json
// @Param variante_id path string true "UUID de la variante"
// @Success 200 {object} dto.ConsultaPrecioResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/precio/{variante_id} [get]
func (h *ConsultaPreciosHandler) GetPrecio(c *gin.Context) {
	id, ok := parseID(c, "variante_id")
	if !ok {
		return
	}
	resp, err := h.svc.ConsultarPrecio(c.Request.Context(), id)
	if err != nil {
		fallar(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
