package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SeleccionItem picks a sale line (SALE) or a balance adjustment (ADJUSTMENT).
// Cantidad only applies to SALE entries; nil means everything still owed.
type SeleccionItem struct {
	ID       string `json:"id"       validate:"required,uuid"`
	Tipo     string `json:"tipo"     validate:"required,oneof=SALE ADJUSTMENT"`
	Cantidad *int   `json:"cantidad"`
}

type CrearLiquidacionRequest struct {
	ProveedorID string          `json:"proveedor_id" validate:"required,uuid"`
	Seleccion   []SeleccionItem `json:"seleccion"    validate:"dive"`
}

// GrupoSeleccion asks for Cantidad units of one variant, allocated oldest sale first.
type GrupoSeleccion struct {
	VarianteID string `json:"variante_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type LiquidarAgrupadoRequest struct {
	ProveedorID string           `json:"proveedor_id" validate:"required,uuid"`
	Grupos      []GrupoSeleccion `json:"grupos"       validate:"dive"`
	AjusteIDs   []string         `json:"ajuste_ids"   validate:"dive,uuid"`
}

type CrearAjusteRequest struct {
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion string          `json:"descripcion" validate:"required,min=3,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type LiquidacionCreadaResponse struct {
	Success       bool            `json:"success"`
	LiquidacionID string          `json:"liquidacion_id"`
	Total         decimal.Decimal `json:"total"`
	Fecha         time.Time       `json:"fecha"`
}

type ItemPendienteResponse struct {
	VentaItemID string          `json:"venta_item_id"`
	VentaID     string          `json:"venta_id"`
	VarianteID  string          `json:"variante_id"`
	Descripcion string          `json:"descripcion"`
	FechaVenta  time.Time       `json:"fecha_venta"`
	Pendiente   int             `json:"pendiente"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	Monto       decimal.Decimal `json:"monto"`
}

type GrupoPendienteResponse struct {
	VarianteID  string          `json:"variante_id"`
	Descripcion string          `json:"descripcion"`
	Pendiente   int             `json:"pendiente"`
	Monto       decimal.Decimal `json:"monto"`
}

type AjusteResponse struct {
	ID            string          `json:"id"`
	Monto         decimal.Decimal `json:"monto"`
	Descripcion   string          `json:"descripcion"`
	Aplicado      bool            `json:"aplicado"`
	LiquidacionID *string         `json:"liquidacion_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type PendientesResponse struct {
	ProveedorID string                   `json:"proveedor_id"`
	Items       []ItemPendienteResponse  `json:"items"`
	Grupos      []GrupoPendienteResponse `json:"grupos"`
	Ajustes     []AjusteResponse         `json:"ajustes"`
	TotalAPagar decimal.Decimal          `json:"total_a_pagar"`
}

type LineaLiquidacionResponse struct {
	VentaItemID string          `json:"venta_item_id"`
	Descripcion string          `json:"descripcion"`
	Cantidad    int             `json:"cantidad"`
	Monto       decimal.Decimal `json:"monto"`
}

type LiquidacionResponse struct {
	ID          string                     `json:"id"`
	ProveedorID string                     `json:"proveedor_id"`
	Proveedor   string                     `json:"proveedor"`
	Total       decimal.Decimal            `json:"total"`
	Lineas      []LineaLiquidacionResponse `json:"lineas"`
	Ajustes     []AjusteResponse           `json:"ajustes"`
	CreatedAt   time.Time                  `json:"created_at"`
}
