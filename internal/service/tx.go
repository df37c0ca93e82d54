package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// DefaultTxTimeout bounds every engine transaction when no timeout is configured.
const DefaultTxTimeout = 20 * time.Second

// runTx executes fn inside one GORM transaction bounded by timeout and
// normalises whatever comes out of it: classified errors pass through,
// lock/serialization failures and CHECK violations become conflicts, and
// everything else is an internal error.
func runTx(ctx context.Context, db *gorm.DB, timeout time.Duration, fn func(tx *gorm.DB) error) error {
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := db.WithContext(ctx).Transaction(fn)
	if err == nil {
		return nil
	}
	return clasificarErrorTx(ctx, err)
}

func clasificarErrorTx(ctx context.Context, err error) error {
	if _, ok := apierror.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, ErrStockInsuficiente):
		return apierror.Wrap(apierror.CodeNegocio, err, "Stock insuficiente.")
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		log.Warn().Err(err).Msg("transacción excedió el tiempo máximo")
		return apierror.Wrap(apierror.CodeConflicto, err, "La operación tardó demasiado. Intente nuevamente.")
	case repository.EsConflictoConcurrencia(err):
		return apierror.Wrap(apierror.CodeConflicto, err, "Conflicto de concurrencia. Intente nuevamente.")
	case repository.EsSolapamiento(err):
		return apierror.Wrap(apierror.CodeConflicto, err, "El horario fue ocupado por otro usuario")
	case repository.EsViolacionCheck(err):
		return apierror.Wrap(apierror.CodeConflicto, err, "Los datos cambiaron durante la operación. Intente nuevamente.")
	}
	return apierror.Interno(err)
}

// noEncontrado maps gorm.ErrRecordNotFound to a classified 404 and anything
// else to an internal error.
func noEncontrado(err error, format string, args ...any) error {
	if repository.EsNoEncontrado(err) {
		return apierror.NoEncontrado(format, args...)
	}
	return apierror.Interno(err)
}
