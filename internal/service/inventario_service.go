package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// ErrStockInsuficiente is returned by AplicarDeltaTx when a decrement would
// leave the variant below zero. Callers turn it into a message naming the line.
var ErrStockInsuficiente = errors.New("stock insuficiente")

// DeltaStock is one signed change to a variant's stock.
type DeltaStock struct {
	VarianteID   uuid.UUID
	Delta        int
	Tipo         model.TipoMovimiento
	Motivo       string
	UsuarioID    *uuid.UUID
	ReferenciaID *uuid.UUID
}

// InventarioService owns variantes.stock. Nothing else writes that column.
type InventarioService interface {
	// AplicarDeltaTx runs inside the caller's transaction.
	AplicarDeltaTx(tx *gorm.DB, d DeltaStock) error
	RegistrarMovimiento(ctx context.Context, sesion model.Sesion, req dto.MovimientoManualRequest) (*dto.MovimientoRegistradoResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error)
}

type inventarioService struct {
	varianteRepo   repository.VarianteRepository
	movimientoRepo repository.MovimientoStockRepository
	db             *gorm.DB
	txTimeout      time.Duration
	ops            *metrics.Operaciones
}

func NewInventarioService(
	db *gorm.DB,
	varianteRepo repository.VarianteRepository,
	movimientoRepo repository.MovimientoStockRepository,
	txTimeout time.Duration,
	ops *metrics.Operaciones,
) InventarioService {
	return &inventarioService{
		varianteRepo:   varianteRepo,
		movimientoRepo: movimientoRepo,
		db:             db,
		txTimeout:      txTimeout,
		ops:            ops,
	}
}

func (s *inventarioService) AplicarDeltaTx(tx *gorm.DB, d DeltaStock) error {
	if d.Delta == 0 {
		return apierror.Validacion("La cantidad del movimiento no puede ser cero.")
	}

	var (
		filas int64
		err   error
	)
	if d.Delta > 0 {
		filas, err = s.varianteRepo.IncrementarStockTx(tx, d.VarianteID, d.Delta)
	} else {
		filas, err = s.varianteRepo.DescontarStockTx(tx, d.VarianteID, -d.Delta)
	}
	if err != nil {
		if repository.EsViolacionCheck(err) {
			return ErrStockInsuficiente
		}
		return err
	}
	if filas == 0 {
		if d.Delta > 0 {
			return apierror.NoEncontrado("Variante no encontrada")
		}
		return ErrStockInsuficiente
	}

	return s.movimientoRepo.CreateTx(tx, &model.MovimientoStock{
		VarianteID:   d.VarianteID,
		Tipo:         d.Tipo,
		Cantidad:     d.Delta,
		Motivo:       d.Motivo,
		UsuarioID:    d.UsuarioID,
		ReferenciaID: d.ReferenciaID,
	})
}

// signoValido: ENTRY and RETURN add, OWNER_WITHDRAWAL removes, ADJUSTMENT goes either way.
func signoValido(tipo model.TipoMovimiento, cantidad int) bool {
	switch tipo {
	case model.MovIngreso, model.MovDevolucion:
		return cantidad > 0
	case model.MovRetiroDuenio:
		return cantidad < 0
	case model.MovAjuste:
		return cantidad != 0
	}
	return false
}

func (s *inventarioService) RegistrarMovimiento(ctx context.Context, sesion model.Sesion, req dto.MovimientoManualRequest) (resp *dto.MovimientoRegistradoResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("movimiento_stock", inicio, err) }(time.Now())

	varianteID, err := uuid.Parse(req.VarianteID)
	if err != nil {
		return nil, apierror.Validacion("variante_id inválido")
	}
	tipo := model.TipoMovimiento(req.Tipo)
	if !signoValido(tipo, req.Cantidad) {
		return nil, apierror.Validacion("El signo de la cantidad no corresponde al tipo %s.", req.Tipo)
	}

	var stock int
	err = runTx(ctx, s.db, s.txTimeout, func(tx *gorm.DB) error {
		err := s.AplicarDeltaTx(tx, DeltaStock{
			VarianteID: varianteID,
			Delta:      req.Cantidad,
			Tipo:       tipo,
			Motivo:     req.Motivo,
			UsuarioID:  &sesion.UsuarioID,
		})
		if errors.Is(err, ErrStockInsuficiente) {
			return apierror.Negocio("Stock insuficiente para registrar el movimiento.")
		}
		if err != nil {
			return err
		}
		stock, err = s.varianteRepo.StockTx(tx, varianteID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("variante_id", varianteID.String()).
		Str("tipo", req.Tipo).
		Int("cantidad", req.Cantidad).
		Int("stock", stock).
		Msg("movimiento de stock registrado")

	return &dto.MovimientoRegistradoResponse{Success: true, VarianteID: varianteID.String(), Stock: stock}, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	f := repository.MovimientoStockFilter{
		Tipo:  filter.Tipo,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.VarianteID != "" {
		id, err := uuid.Parse(filter.VarianteID)
		if err != nil {
			return nil, apierror.Validacion("variante_id inválido")
		}
		f.VarianteID = &id
	}

	movs, total, err := s.movimientoRepo.List(ctx, f)
	if err != nil {
		return nil, apierror.Interno(err)
	}

	data := make([]dto.MovimientoResponse, 0, len(movs))
	for _, m := range movs {
		data = append(data, dto.MovimientoResponse{
			ID:           m.ID.String(),
			VarianteID:   m.VarianteID.String(),
			Tipo:         string(m.Tipo),
			Cantidad:     m.Cantidad,
			Motivo:       m.Motivo,
			ReferenciaID: uuidPtrString(m.ReferenciaID),
			CreatedAt:    m.CreatedAt,
		})
	}
	return &dto.MovimientoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func uuidPtrString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
