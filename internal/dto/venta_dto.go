package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ItemCarritoRequest is one cart line. For PRODUCT lines ID is the variante;
// for SERVICE lines it is the turno being billed, or empty for an ad-hoc service.
type ItemCarritoRequest struct {
	ID          string          `json:"id"          validate:"omitempty,uuid"`
	Tipo        string          `json:"tipo"        validate:"required,oneof=PRODUCT SERVICE"`
	Cantidad    int             `json:"cantidad"    validate:"required,min=1"`
	Precio      decimal.Decimal `json:"precio"      validate:"min=0"`
	Descripcion string          `json:"descripcion" validate:"max=200"`
}

type ProcesarVentaRequest struct {
	ClienteID  *string              `json:"cliente_id"  validate:"omitempty,uuid"`
	MetodoPago string               `json:"metodo_pago" validate:"required,oneof=CASH TRANSFER CHECKING_ACCOUNT DEBIT CREDIT"`
	Items      []ItemCarritoRequest `json:"items"       validate:"required,min=1,dive"`
	// TotalDeclarado is what the terminal computed; it is only compared, never stored.
	TotalDeclarado *decimal.Decimal `json:"total"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"max=200"`
}

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	Desde     string `form:"desde"      validate:"omitempty,datetime=2006-01-02"`
	Hasta     string `form:"hasta"      validate:"omitempty,datetime=2006-01-02"`
	Estado    string `form:"estado"     validate:"omitempty,oneof=COMPLETED CANCELLED"`
	ClienteID string `form:"cliente_id" validate:"omitempty,uuid"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaProcesadaResponse struct {
	Success bool            `json:"success"`
	VentaID string          `json:"venta_id"`
	Fecha   time.Time       `json:"fecha"`
	Total   decimal.Decimal `json:"total"`
}

type VentaAnuladaResponse struct {
	Success        bool   `json:"success"`
	VentaID        string `json:"venta_id"`
	AjustesCreados int    `json:"ajustes_creados"`
}

type ItemVentaResponse struct {
	ID                string          `json:"id"`
	VarianteID        *string         `json:"variante_id,omitempty"`
	TurnoID           *string         `json:"turno_id,omitempty"`
	Descripcion       string          `json:"descripcion"`
	Cantidad          int             `json:"cantidad"`
	PrecioVenta       decimal.Decimal `json:"precio_venta"`
	CantidadLiquidada int             `json:"cantidad_liquidada"`
}

type VentaResponse struct {
	ID          string              `json:"id"`
	ClienteID   *string             `json:"cliente_id,omitempty"`
	Total       decimal.Decimal     `json:"total"`
	MontoPagado decimal.Decimal     `json:"monto_pagado"`
	MetodoPago  string              `json:"metodo_pago"`
	EstadoPago  string              `json:"estado_pago"`
	Estado      string              `json:"estado"`
	Items       []ItemVentaResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
