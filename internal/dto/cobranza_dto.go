package dto

import "github.com/shopspring/decimal"

type RegistrarCobroRequest struct {
	Monto decimal.Decimal `json:"monto" validate:"required,gt=0"`
}

type CobroRegistradoResponse struct {
	Success     bool            `json:"success"`
	VentaID     string          `json:"venta_id"`
	MontoPagado decimal.Decimal `json:"monto_pagado"`
	Saldo       decimal.Decimal `json:"saldo"`
	EstadoPago  string          `json:"estado_pago"`
}

type SaldoClienteResponse struct {
	ClienteID        string          `json:"cliente_id"`
	Saldo            decimal.Decimal `json:"saldo"`
	VentasPendientes int64           `json:"ventas_pendientes"`
}
