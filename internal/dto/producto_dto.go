package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VarianteRequest struct {
	Nombre       string          `json:"nombre"        validate:"max=120"`
	PrecioCosto  decimal.Decimal `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
	StockInicial int             `json:"stock_inicial" validate:"min=0"`
}

type CrearProductoRequest struct {
	Nombre       string            `json:"nombre"        validate:"required,min=2,max=120"`
	Descripcion  *string           `json:"descripcion"`
	ProveedorID  *string           `json:"proveedor_id"  validate:"omitempty,uuid"`
	CategoriaID  *string           `json:"categoria_id"  validate:"omitempty,uuid"`
	UnidadMedida string            `json:"unidad_medida" validate:"required,oneof=UNIT GRAM"`
	Variantes    []VarianteRequest `json:"variantes"     validate:"required,min=1,dive"`
}

type ActualizarProductoRequest struct {
	Nombre       *string `json:"nombre"        validate:"omitempty,min=2,max=120"`
	Descripcion  *string `json:"descripcion"`
	CategoriaID  *string `json:"categoria_id"  validate:"omitempty,uuid"`
	UnidadMedida *string `json:"unidad_medida" validate:"omitempty,oneof=UNIT GRAM"`
}

type CambiarActivoRequest struct {
	Activo *bool `json:"activo" validate:"required"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VarianteResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	PrecioCosto decimal.Decimal `json:"precio_costo"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Stock       int             `json:"stock"`
}

type ProductoResponse struct {
	ID           string             `json:"id"`
	Nombre       string             `json:"nombre"`
	Descripcion  *string            `json:"descripcion,omitempty"`
	ProveedorID  *string            `json:"proveedor_id,omitempty"`
	CategoriaID  *string            `json:"categoria_id,omitempty"`
	UnidadMedida string             `json:"unidad_medida"`
	Activo       bool               `json:"activo"`
	Variantes    []VarianteResponse `json:"variantes"`
}

// ConsultaPrecioResponse is the public price-check payload.
type ConsultaPrecioResponse struct {
	Nombre       string          `json:"nombre"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	UnidadMedida string          `json:"unidad_medida"`
	Stock        int             `json:"stock"`
}
