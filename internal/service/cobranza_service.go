package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/money"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// CobranzaService records customer payments on checking-account sales.
// A sale only becomes settleable once it reaches PAID.
type CobranzaService interface {
	RegistrarCobro(ctx context.Context, sesion model.Sesion, ventaID uuid.UUID, monto decimal.Decimal) (*dto.CobroRegistradoResponse, error)
	SaldoCliente(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoClienteResponse, error)
}

type cobranzaService struct {
	ventaRepo   repository.VentaRepository
	clienteRepo repository.ClienteRepository
	txTimeout   time.Duration
	ops         *metrics.Operaciones
}

func NewCobranzaService(
	ventaRepo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	txTimeout time.Duration,
	ops *metrics.Operaciones,
) CobranzaService {
	return &cobranzaService{ventaRepo: ventaRepo, clienteRepo: clienteRepo, txTimeout: txTimeout, ops: ops}
}

func (s *cobranzaService) RegistrarCobro(ctx context.Context, sesion model.Sesion, ventaID uuid.UUID, monto decimal.Decimal) (resp *dto.CobroRegistradoResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("registrar_cobro", inicio, err) }(time.Now())

	monto = money.Round2(monto)
	if !monto.IsPositive() {
		return nil, apierror.Validacion("El monto debe ser mayor a cero.")
	}

	var venta *model.Venta
	err = runTx(ctx, s.ventaRepo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		v, err := s.ventaRepo.FindByIDTx(tx, ventaID)
		if err != nil {
			return noEncontrado(err, "Venta no encontrada")
		}
		if v.Estado == model.VentaAnulada {
			return apierror.Negocio("La venta está anulada.")
		}
		if v.EstadoPago == model.EstadoPagoPagado {
			return apierror.Negocio("La venta ya está pagada.")
		}
		if monto.GreaterThan(v.Saldo()) {
			return apierror.Negocio("El monto supera el saldo de la venta (%s).", v.Saldo().StringFixed(2))
		}

		filas, err := s.ventaRepo.RegistrarPagoTx(tx, ventaID, monto)
		if err != nil {
			return err
		}
		if filas == 0 {
			return apierror.Conflicto("La venta fue modificada por otra operación. Intente nuevamente.")
		}
		if err := s.ventaRepo.CreateCobroTx(tx, &model.Cobro{
			VentaID:   ventaID,
			Monto:     monto,
			UsuarioID: &sesion.UsuarioID,
		}); err != nil {
			return err
		}

		venta, err = s.ventaRepo.FindByIDTx(tx, ventaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", ventaID.String()).
		Str("monto", monto.String()).
		Str("estado_pago", string(venta.EstadoPago)).
		Msg("cobro registrado")

	return &dto.CobroRegistradoResponse{
		Success:     true,
		VentaID:     ventaID.String(),
		MontoPagado: venta.MontoPagado,
		Saldo:       venta.Saldo(),
		EstadoPago:  string(venta.EstadoPago),
	}, nil
}

func (s *cobranzaService) SaldoCliente(ctx context.Context, clienteID uuid.UUID) (*dto.SaldoClienteResponse, error) {
	if _, err := s.clienteRepo.FindByID(ctx, clienteID); err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	saldo, pendientes, err := s.ventaRepo.SaldoCliente(ctx, clienteID)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	return &dto.SaldoClienteResponse{
		ClienteID:        clienteID.String(),
		Saldo:            money.Round2(saldo),
		VentasPendientes: pendientes,
	}, nil
}
