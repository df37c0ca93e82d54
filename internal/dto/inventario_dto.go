package dto

import "time"

// MovimientoManualRequest records a stock change outside of sales.
// Cantidad is signed; its sign must agree with Tipo.
type MovimientoManualRequest struct {
	VarianteID string `json:"variante_id" validate:"required,uuid"`
	Tipo       string `json:"tipo"        validate:"required,oneof=ENTRY ADJUSTMENT OWNER_WITHDRAWAL RETURN"`
	Cantidad   int    `json:"cantidad"    validate:"required,ne=0"`
	Motivo     string `json:"motivo"      validate:"required,min=3,max=200"`
}

type MovimientoFilter struct {
	VarianteID string `form:"variante_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type MovimientoResponse struct {
	ID           string    `json:"id"`
	VarianteID   string    `json:"variante_id"`
	Tipo         string    `json:"tipo"`
	Cantidad     int       `json:"cantidad"`
	Motivo       string    `json:"motivo"`
	ReferenciaID *string   `json:"referencia_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type MovimientoRegistradoResponse struct {
	Success    bool   `json:"success"`
	VarianteID string `json:"variante_id"`
	Stock      int    `json:"stock"`
}

type MovimientoListResponse struct {
	Data  []MovimientoResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}
