package service

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// liquidacionConLock serialises settlements of one owner across instances.
// The lock only reduces contention: when Redis is down or the lock stays
// busy, the call goes ahead and the conditional updates decide.
type liquidacionConLock struct {
	LiquidacionService
	locker *redislock.Client
	ttl    time.Duration
}

func NewLiquidacionConLock(inner LiquidacionService, locker *redislock.Client, ttl time.Duration) LiquidacionService {
	if locker == nil {
		return inner
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &liquidacionConLock{LiquidacionService: inner, locker: locker, ttl: ttl}
}

func (s *liquidacionConLock) CrearLiquidacion(ctx context.Context, sesion model.Sesion, req dto.CrearLiquidacionRequest) (*dto.LiquidacionCreadaResponse, error) {
	release := s.obtener(ctx, req.ProveedorID)
	defer release()
	return s.LiquidacionService.CrearLiquidacion(ctx, sesion, req)
}

func (s *liquidacionConLock) LiquidarAgrupado(ctx context.Context, sesion model.Sesion, req dto.LiquidarAgrupadoRequest) (*dto.LiquidacionCreadaResponse, error) {
	release := s.obtener(ctx, req.ProveedorID)
	defer release()
	return s.LiquidacionService.LiquidarAgrupado(ctx, sesion, req)
}

func (s *liquidacionConLock) obtener(ctx context.Context, proveedorID string) func() {
	key := "lock:liquidacion:" + proveedorID
	lock, err := s.locker.Obtain(ctx, key, s.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		log.Warn().Str("key", key).Msg("lock de liquidación ocupado, se continúa sin lock")
		return func() {}
	}
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("no se pudo obtener lock de liquidación")
		return func() {}
	}
	return func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar lock de liquidación")
		}
	}
}
