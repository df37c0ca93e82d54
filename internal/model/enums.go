package model

import "github.com/google/uuid"

// UnidadMedida defines how a variant's integer quantity maps to its price unit.
type UnidadMedida string

const (
	UnidadUnidad UnidadMedida = "UNIT"
	// UnidadGramo: quantities are grams, prices are per kilogram.
	UnidadGramo UnidadMedida = "GRAM"
)

type MetodoPago string

const (
	PagoEfectivo        MetodoPago = "CASH"
	PagoTransferencia   MetodoPago = "TRANSFER"
	PagoCuentaCorriente MetodoPago = "CHECKING_ACCOUNT"
	PagoDebito          MetodoPago = "DEBIT"
	PagoCredito         MetodoPago = "CREDIT"
)

type EstadoPago string

const (
	EstadoPagoPagado    EstadoPago = "PAID"
	EstadoPagoPendiente EstadoPago = "PENDING"
	EstadoPagoParcial   EstadoPago = "PARTIAL"
)

type EstadoVenta string

const (
	VentaCompletada EstadoVenta = "COMPLETED"
	VentaAnulada    EstadoVenta = "CANCELLED"
)

type TipoMovimiento string

const (
	MovIngreso      TipoMovimiento = "ENTRY"
	MovVenta        TipoMovimiento = "SALE"
	MovAjuste       TipoMovimiento = "ADJUSTMENT"
	MovRetiroDuenio TipoMovimiento = "OWNER_WITHDRAWAL"
	MovDevolucion   TipoMovimiento = "RETURN"
	MovVentaAnulada TipoMovimiento = "SALE_CANCELLED"
)

type EstadoTurno string

const (
	TurnoPendiente  EstadoTurno = "PENDING"
	TurnoConfirmado EstadoTurno = "CONFIRMED"
	TurnoCompletado EstadoTurno = "COMPLETED"
	TurnoFacturado  EstadoTurno = "BILLED"
	TurnoCancelado  EstadoTurno = "CANCELLED"
)

// Roles carried by the session.
const (
	RolAdmin   = "ADMIN"
	RolUsuario = "USER"
)

// nuevoID assigns a fresh UUID when the caller did not set one.
func nuevoID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}
