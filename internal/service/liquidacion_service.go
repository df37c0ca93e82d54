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

const (
	tipoSeleccionVenta  = "SALE"
	tipoSeleccionAjuste = "ADJUSTMENT"
)

// EncoladorLiquidaciones hands a committed settlement to the receipt worker.
type EncoladorLiquidaciones interface {
	EncolarLiquidacion(ctx context.Context, liquidacionID uuid.UUID) error
}

type LiquidacionService interface {
	CrearLiquidacion(ctx context.Context, sesion model.Sesion, req dto.CrearLiquidacionRequest) (*dto.LiquidacionCreadaResponse, error)
	LiquidarAgrupado(ctx context.Context, sesion model.Sesion, req dto.LiquidarAgrupadoRequest) (*dto.LiquidacionCreadaResponse, error)
	ListarPendientes(ctx context.Context, proveedorID uuid.UUID) (*dto.PendientesResponse, error)
	CrearAjuste(ctx context.Context, sesion model.Sesion, proveedorID uuid.UUID, req dto.CrearAjusteRequest) (*dto.AjusteResponse, error)
	ObtenerLiquidacion(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error)
}

type liquidacionService struct {
	repo          repository.LiquidacionRepository
	ventaRepo     repository.VentaRepository
	proveedorRepo repository.ProveedorRepository
	encolador     EncoladorLiquidaciones
	txTimeout     time.Duration
	ops           *metrics.Operaciones
}

// NewLiquidacionService builds the settlement engine. encolador may be nil.
func NewLiquidacionService(
	repo repository.LiquidacionRepository,
	ventaRepo repository.VentaRepository,
	proveedorRepo repository.ProveedorRepository,
	encolador EncoladorLiquidaciones,
	txTimeout time.Duration,
	ops *metrics.Operaciones,
) LiquidacionService {
	return &liquidacionService{
		repo:          repo,
		ventaRepo:     ventaRepo,
		proveedorRepo: proveedorRepo,
		encolador:     encolador,
		txTimeout:     txTimeout,
		ops:           ops,
	}
}

type seleccionParseada struct {
	tipo     string
	id       uuid.UUID
	cantidad *int
}

func parsearSeleccion(sel []dto.SeleccionItem) ([]seleccionParseada, []uuid.UUID, []uuid.UUID, error) {
	out := make([]seleccionParseada, 0, len(sel))
	var itemIDs, ajusteIDs []uuid.UUID
	for _, s := range sel {
		id, err := uuid.Parse(s.ID)
		if err != nil {
			return nil, nil, nil, apierror.Validacion("id inválido en la selección: %s", s.ID)
		}
		switch s.Tipo {
		case tipoSeleccionVenta:
			itemIDs = append(itemIDs, id)
		case tipoSeleccionAjuste:
			ajusteIDs = append(ajusteIDs, id)
		default:
			return nil, nil, nil, apierror.Validacion("Tipo de selección inválido: %s", s.Tipo)
		}
		out = append(out, seleccionParseada{tipo: s.Tipo, id: id, cantidad: s.Cantidad})
	}
	return out, itemIDs, ajusteIDs, nil
}

func perteneceA(it *model.VentaItem, proveedorID uuid.UUID) bool {
	return it.Variante != nil && it.Variante.Producto != nil &&
		it.Variante.Producto.ProveedorID != nil && *it.Variante.Producto.ProveedorID == proveedorID
}

// ── CrearLiquidacion ──────────────────────────────────────────────────────────
// Validation runs entry by entry and the first failure aborts. Writes are
// conditional so two concurrent payouts of the same line cannot both succeed.

func (s *liquidacionService) CrearLiquidacion(ctx context.Context, sesion model.Sesion, req dto.CrearLiquidacionRequest) (resp *dto.LiquidacionCreadaResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("crear_liquidacion", inicio, err) }(time.Now())

	if !sesion.EsAdmin() {
		return nil, apierror.NoAutorizado("Solo un administrador puede registrar liquidaciones.")
	}
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, apierror.Validacion("proveedor_id inválido")
	}
	if len(req.Seleccion) == 0 {
		return nil, apierror.Validacion("No se seleccionó ningún ítem para liquidar.")
	}
	seleccion, itemIDs, ajusteIDs, err := parsearSeleccion(req.Seleccion)
	if err != nil {
		return nil, err
	}
	if _, err := s.proveedorRepo.FindByID(ctx, proveedorID); err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}

	var liq model.Liquidacion
	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		items, err := s.ventaRepo.FindItemsByIDsTx(tx, itemIDs)
		if err != nil {
			return err
		}
		ajustes, err := s.repo.FindAjustesByIDsTx(tx, ajusteIDs)
		if err != nil {
			return err
		}

		acumulado := make(map[uuid.UUID]int)
		aplicados := make(map[uuid.UUID]bool)
		total := decimal.Zero
		var lineas []model.LiquidacionItem
		var ajustesSel []uuid.UUID

		for _, sel := range seleccion {
			if sel.tipo == tipoSeleccionAjuste {
				a, ok := ajustes[sel.id]
				if !ok {
					return apierror.NoEncontrado("Ajuste no encontrado")
				}
				if a.ProveedorID != proveedorID {
					return apierror.Negocio("El ajuste \"%s\" es ajeno a este proveedor.", a.Descripcion)
				}
				if a.Aplicado || aplicados[a.ID] {
					return apierror.Negocio("El ajuste \"%s\" ya fue pagado.", a.Descripcion)
				}
				aplicados[a.ID] = true
				ajustesSel = append(ajustesSel, a.ID)
				total = total.Add(a.Monto)
				continue
			}

			it, ok := items[sel.id]
			if !ok {
				return apierror.NoEncontrado("Ítem de venta no encontrado")
			}
			if !perteneceA(it, proveedorID) {
				return apierror.Negocio("%s: item ajeno a este proveedor.", it.Descripcion)
			}
			restante := it.Pendiente() - acumulado[it.ID]
			q := restante
			if sel.cantidad != nil {
				if *sel.cantidad <= 0 {
					return apierror.Validacion("%s: la cantidad a liquidar debe ser mayor a cero.", it.Descripcion)
				}
				q = *sel.cantidad
			}
			if it.Venta == nil || it.Venta.EstadoPago != model.EstadoPagoPagado {
				return apierror.Negocio("%s: no se puede liquidar porque el cliente AÚN NO PAGÓ.", it.Descripcion)
			}
			if it.Venta.Estado == model.VentaAnulada {
				return apierror.Negocio("%s: la venta está anulada.", it.Descripcion)
			}
			if q <= 0 || q > restante {
				return apierror.Negocio("%s: solo se deben %d.", it.Descripcion, restante)
			}
			acumulado[it.ID] += q

			monto := money.Subtotal(q, it.Variante.UnidadMedida(), it.PrecioCosto)
			total = total.Add(monto)
			lineas = append(lineas, model.LiquidacionItem{
				VentaItemID: it.ID,
				Cantidad:    q,
				Monto:       monto,
			})
		}

		total = money.Round2(total)
		if !total.IsPositive() {
			return apierror.Negocio("No se pueden registrar liquidaciones negativas o en cero.")
		}

		liq = model.Liquidacion{
			ProveedorID: proveedorID,
			Total:       total,
			UsuarioID:   &sesion.UsuarioID,
			Items:       lineas,
		}
		if err := s.repo.CreateTx(tx, &liq); err != nil {
			return err
		}

		for _, l := range lineas {
			filas, err := s.ventaRepo.LiquidarItemTx(tx, l.VentaItemID, l.Cantidad)
			if err != nil {
				return err
			}
			if filas == 0 {
				return apierror.Conflicto("Otro usuario liquidó estos ítems. Actualice e intente nuevamente.")
			}
		}
		for _, id := range ajustesSel {
			filas, err := s.repo.AplicarAjusteTx(tx, id, liq.ID)
			if err != nil {
				return err
			}
			if filas == 0 {
				return apierror.Conflicto("Otro usuario aplicó este ajuste. Actualice e intente nuevamente.")
			}
		}
		return nil
	})
	if err != nil {
		if e, ok := apierror.As(err); ok && e.Code != apierror.CodeInterno {
			log.Info().Str("proveedor_id", proveedorID.String()).Str("motivo", e.Mensaje).Msg("liquidación rechazada")
		}
		return nil, err
	}

	log.Info().
		Str("liquidacion_id", liq.ID.String()).
		Str("proveedor_id", proveedorID.String()).
		Str("total", liq.Total.String()).
		Msg("liquidación registrada")

	if s.encolador != nil {
		if err := s.encolador.EncolarLiquidacion(ctx, liq.ID); err != nil {
			log.Warn().Err(err).Str("liquidacion_id", liq.ID.String()).Msg("no se pudo encolar el comprobante")
		}
	}

	return &dto.LiquidacionCreadaResponse{
		Success:       true,
		LiquidacionID: liq.ID.String(),
		Total:         liq.Total,
		Fecha:         liq.CreatedAt,
	}, nil
}

// LiquidarAgrupado resolves "N units of variant X" into concrete sale lines,
// oldest sale first, and settles them together with the chosen adjustments.
func (s *liquidacionService) LiquidarAgrupado(ctx context.Context, sesion model.Sesion, req dto.LiquidarAgrupadoRequest) (*dto.LiquidacionCreadaResponse, error) {
	if !sesion.EsAdmin() {
		return nil, apierror.NoAutorizado("Solo un administrador puede registrar liquidaciones.")
	}
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, apierror.Validacion("proveedor_id inválido")
	}

	pendientes, err := s.pendientes(ctx, proveedorID)
	if err != nil {
		return nil, err
	}
	grupos := make(map[uuid.UUID]GrupoPendiente)
	for _, g := range AgruparPendientes(pendientes) {
		grupos[g.VarianteID] = g
	}

	sel := make([]dto.SeleccionItem, 0, len(req.Grupos)+len(req.AjusteIDs))
	for _, gs := range req.Grupos {
		varianteID, err := uuid.Parse(gs.VarianteID)
		if err != nil {
			return nil, apierror.Validacion("variante_id inválido")
		}
		g, ok := grupos[varianteID]
		if !ok {
			return nil, apierror.Negocio("No hay unidades pendientes de liquidar para esa variante.")
		}
		asignadas, err := AsignarCantidad(g.Items, gs.Cantidad)
		if err != nil {
			if e, ok := apierror.As(err); ok {
				return nil, apierror.Wrap(e.Code, err, "%s: %s", g.Descripcion, e.Mensaje)
			}
			return nil, err
		}
		sel = append(sel, asignadas...)
	}
	for _, id := range req.AjusteIDs {
		sel = append(sel, dto.SeleccionItem{ID: id, Tipo: tipoSeleccionAjuste})
	}

	return s.CrearLiquidacion(ctx, sesion, dto.CrearLiquidacionRequest{ProveedorID: req.ProveedorID, Seleccion: sel})
}

func (s *liquidacionService) pendientes(ctx context.Context, proveedorID uuid.UUID) ([]ItemPendiente, error) {
	items, err := s.ventaRepo.ItemsPendientes(ctx, proveedorID)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	out := make([]ItemPendiente, 0, len(items))
	for i := range items {
		out = append(out, itemPendienteDesde(&items[i]))
	}
	return out, nil
}

func (s *liquidacionService) ListarPendientes(ctx context.Context, proveedorID uuid.UUID) (*dto.PendientesResponse, error) {
	if _, err := s.proveedorRepo.FindByID(ctx, proveedorID); err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	pendientes, err := s.pendientes(ctx, proveedorID)
	if err != nil {
		return nil, err
	}
	ajustes, err := s.repo.AjustesPendientes(ctx, proveedorID)
	if err != nil {
		return nil, apierror.Interno(err)
	}

	resp := &dto.PendientesResponse{
		ProveedorID: proveedorID.String(),
		Items:       make([]dto.ItemPendienteResponse, 0, len(pendientes)),
		Ajustes:     make([]dto.AjusteResponse, 0, len(ajustes)),
	}
	total := decimal.Zero
	for _, p := range pendientes {
		monto := p.Monto()
		total = total.Add(monto)
		resp.Items = append(resp.Items, dto.ItemPendienteResponse{
			VentaItemID: p.VentaItemID.String(),
			VentaID:     p.VentaID.String(),
			VarianteID:  p.VarianteID.String(),
			Descripcion: p.Descripcion,
			FechaVenta:  p.FechaVenta,
			Pendiente:   p.Pendiente,
			PrecioCosto: p.PrecioCosto,
			Monto:       monto,
		})
	}
	for _, g := range AgruparPendientes(pendientes) {
		resp.Grupos = append(resp.Grupos, dto.GrupoPendienteResponse{
			VarianteID:  g.VarianteID.String(),
			Descripcion: g.Descripcion,
			Pendiente:   g.Pendiente,
			Monto:       g.Monto,
		})
	}
	for _, a := range ajustes {
		total = total.Add(a.Monto)
		resp.Ajustes = append(resp.Ajustes, ajusteToResponse(a))
	}
	resp.TotalAPagar = money.Round2(total)
	return resp, nil
}

func (s *liquidacionService) CrearAjuste(ctx context.Context, sesion model.Sesion, proveedorID uuid.UUID, req dto.CrearAjusteRequest) (*dto.AjusteResponse, error) {
	if !sesion.EsAdmin() {
		return nil, apierror.NoAutorizado("Solo un administrador puede registrar ajustes.")
	}
	monto := money.Round2(req.Monto)
	if monto.IsZero() {
		return nil, apierror.Validacion("El monto del ajuste no puede ser cero.")
	}
	if _, err := s.proveedorRepo.FindByID(ctx, proveedorID); err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}

	a := &model.AjusteSaldo{ProveedorID: proveedorID, Monto: monto, Descripcion: req.Descripcion}
	if err := s.repo.CreateAjuste(ctx, a); err != nil {
		return nil, apierror.Interno(err)
	}
	log.Info().Str("proveedor_id", proveedorID.String()).Str("monto", monto.String()).Msg("ajuste de saldo registrado")
	resp := ajusteToResponse(*a)
	return &resp, nil
}

func (s *liquidacionService) ObtenerLiquidacion(ctx context.Context, id uuid.UUID) (*dto.LiquidacionResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Liquidación no encontrada")
	}
	return liquidacionToResponse(l), nil
}

func liquidacionToResponse(l *model.Liquidacion) *dto.LiquidacionResponse {
	resp := &dto.LiquidacionResponse{
		ID:          l.ID.String(),
		ProveedorID: l.ProveedorID.String(),
		Total:       l.Total,
		CreatedAt:   l.CreatedAt,
		Lineas:      make([]dto.LineaLiquidacionResponse, 0, len(l.Items)),
		Ajustes:     make([]dto.AjusteResponse, 0, len(l.Ajustes)),
	}
	if l.Proveedor != nil {
		resp.Proveedor = l.Proveedor.Nombre
	}
	for _, it := range l.Items {
		linea := dto.LineaLiquidacionResponse{
			VentaItemID: it.VentaItemID.String(),
			Cantidad:    it.Cantidad,
			Monto:       it.Monto,
		}
		if it.VentaItem != nil {
			linea.Descripcion = it.VentaItem.Descripcion
		}
		resp.Lineas = append(resp.Lineas, linea)
	}
	for _, a := range l.Ajustes {
		resp.Ajustes = append(resp.Ajustes, ajusteToResponse(a))
	}
	return resp
}

func ajusteToResponse(a model.AjusteSaldo) dto.AjusteResponse {
	return dto.AjusteResponse{
		ID:            a.ID.String(),
		Monto:         a.Monto,
		Descripcion:   a.Descripcion,
		Aplicado:      a.Aplicado,
		LiquidacionID: uuidPtrString(a.LiquidacionID),
		CreatedAt:     a.CreatedAt,
	}
}
