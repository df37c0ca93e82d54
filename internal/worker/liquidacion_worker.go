package worker

// liquidacion_worker.go
// Processes QueueLiquidacion jobs: renders the settlement receipt (PDF) and
// its line detail (XLSX), then enqueues an email when the owner has one.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
)

// LiquidacionLoader loads a settlement with owner, items and adjustments.
type LiquidacionLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Liquidacion, error)
}

type emailEncolador interface {
	EncolarEmail(ctx context.Context, payload EmailJobPayload) error
}

type LiquidacionWorker struct {
	repo           LiquidacionLoader
	emails         emailEncolador
	storagePath    string
	nombreComercio string
}

func NewLiquidacionWorker(repo LiquidacionLoader, emails emailEncolador, storagePath, nombreComercio string) *LiquidacionWorker {
	return &LiquidacionWorker{repo: repo, emails: emails, storagePath: storagePath, nombreComercio: nombreComercio}
}

func (w *LiquidacionWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload LiquidacionJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("liquidacion_worker: invalid payload: %w", err)
	}
	id, err := uuid.Parse(payload.LiquidacionID)
	if err != nil {
		return fmt.Errorf("liquidacion_worker: invalid liquidacion_id %q", payload.LiquidacionID)
	}

	liq, err := w.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("liquidacion_worker: load %s: %w", id, err)
	}

	pdfPath, err := infra.GenerarComprobanteLiquidacion(liq, w.nombreComercio, w.storagePath)
	if err != nil {
		return err
	}
	xlsxPath, err := infra.GenerarDetalleLiquidacion(liq, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("liquidacion_id", id.String()).Str("pdf", pdfPath).Msg("liquidacion_worker: comprobante generado")

	if liq.Proveedor == nil || liq.Proveedor.Email == nil || *liq.Proveedor.Email == "" || w.emails == nil {
		return nil
	}
	return w.emails.EncolarEmail(ctx, EmailJobPayload{
		ToEmail:  *liq.Proveedor.Email,
		Subject:  fmt.Sprintf("%s: liquidación de consignación", w.nombreComercio),
		Body:     fmt.Sprintf("Hola %s, adjuntamos la liquidación por $%s.", liq.Proveedor.Nombre, liq.Total.StringFixed(2)),
		Adjuntos: []string{pdfPath, xlsxPath},
	})
}
