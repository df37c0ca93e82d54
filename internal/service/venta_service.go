package service

import (
	"context"
	"errors"
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
	tipoLineaProducto = "PRODUCT"
	tipoLineaServicio = "SERVICE"
)

type VentaService interface {
	ProcesarVenta(ctx context.Context, sesion model.Sesion, req dto.ProcesarVentaRequest) (*dto.VentaProcesadaResponse, error)
	AnularVenta(ctx context.Context, sesion model.Sesion, id uuid.UUID, motivo string) (*dto.VentaAnuladaResponse, error)
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo            repository.VentaRepository
	varianteRepo    repository.VarianteRepository
	clienteRepo     repository.ClienteRepository
	turnoRepo       repository.TurnoRepository
	liquidacionRepo repository.LiquidacionRepository
	inventario      InventarioService
	txTimeout       time.Duration
	ops             *metrics.Operaciones
}

func NewVentaService(
	repo repository.VentaRepository,
	varianteRepo repository.VarianteRepository,
	clienteRepo repository.ClienteRepository,
	turnoRepo repository.TurnoRepository,
	liquidacionRepo repository.LiquidacionRepository,
	inventario InventarioService,
	txTimeout time.Duration,
	ops *metrics.Operaciones,
) VentaService {
	return &ventaService{
		repo:            repo,
		varianteRepo:    varianteRepo,
		clienteRepo:     clienteRepo,
		turnoRepo:       turnoRepo,
		liquidacionRepo: liquidacionRepo,
		inventario:      inventario,
		txTimeout:       txTimeout,
		ops:             ops,
	}
}

// lineaCarrito is a cart line after id parsing.
type lineaCarrito struct {
	tipo        string
	id          *uuid.UUID
	cantidad    int
	precio      decimal.Decimal
	descripcion string
}

func parsearLineas(items []dto.ItemCarritoRequest) ([]lineaCarrito, error) {
	lineas := make([]lineaCarrito, 0, len(items))
	for i, it := range items {
		l := lineaCarrito{
			tipo:        it.Tipo,
			cantidad:    it.Cantidad,
			precio:      it.Precio,
			descripcion: it.Descripcion,
		}
		if it.Cantidad <= 0 {
			return nil, apierror.Validacion("La cantidad del ítem %d debe ser mayor a cero.", i+1)
		}
		if it.Precio.IsNegative() {
			return nil, apierror.Validacion("El precio del ítem %d no puede ser negativo.", i+1)
		}
		if !it.Precio.Equal(it.Precio.Round(2)) {
			return nil, apierror.Validacion("El precio del ítem %d admite hasta 2 decimales.", i+1)
		}
		if it.ID != "" {
			id, err := uuid.Parse(it.ID)
			if err != nil {
				return nil, apierror.Validacion("id inválido en el ítem %d", i+1)
			}
			l.id = &id
		}
		if l.tipo == tipoLineaProducto && l.id == nil {
			return nil, apierror.Validacion("El ítem %d es un producto sin id.", i+1)
		}
		lineas = append(lineas, l)
	}
	return lineas, nil
}

// ── ProcesarVenta ─────────────────────────────────────────────────────────────
// One transaction:
//   1. customer check (checking account requires one)
//   2. load variants, reject archived products
//   3. total = Round2(Σ factor * precio)
//   4. conditional stock decrement per product line
//   5. insert venta + items (cost snapshot), bill linked turnos

func (s *ventaService) ProcesarVenta(ctx context.Context, sesion model.Sesion, req dto.ProcesarVentaRequest) (resp *dto.VentaProcesadaResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("procesar_venta", inicio, err) }(time.Now())

	metodo := model.MetodoPago(req.MetodoPago)
	if metodo == model.PagoCuentaCorriente && (req.ClienteID == nil || *req.ClienteID == "") {
		return nil, apierror.Negocio("Cuenta corriente requiere cliente.")
	}
	if len(req.Items) == 0 {
		return nil, apierror.Validacion("La venta no tiene ítems.")
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil && *req.ClienteID != "" {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, apierror.Validacion("cliente_id inválido")
		}
		clienteID = &id
	}

	lineas, err := parsearLineas(req.Items)
	if err != nil {
		return nil, err
	}

	ventaID := uuid.New()
	var venta model.Venta

	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		if clienteID != nil {
			if _, err := s.clienteRepo.FindByIDTx(tx, *clienteID); err != nil {
				return noEncontrado(err, "Cliente no encontrado")
			}
		}

		ids := make([]uuid.UUID, 0, len(lineas))
		for _, l := range lineas {
			if l.tipo == tipoLineaProducto {
				ids = append(ids, *l.id)
			}
		}
		variantes, err := s.varianteRepo.FindByIDsTx(tx, ids)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items := make([]model.VentaItem, 0, len(lineas))
		for _, l := range lineas {
			item := model.VentaItem{
				Cantidad:    l.cantidad,
				PrecioVenta: l.precio,
				PrecioCosto: decimal.Zero,
				Descripcion: l.descripcion,
			}
			uom := model.UnidadUnidad

			if l.tipo == tipoLineaProducto {
				v, ok := variantes[*l.id]
				if !ok {
					return apierror.NoEncontrado("Producto no encontrado")
				}
				if v.Producto != nil && !v.Producto.Activo {
					return apierror.Negocio("El producto %s está archivado.", v.Descripcion())
				}
				if item.Descripcion == "" {
					item.Descripcion = v.Descripcion()
				}
				uom = v.UnidadMedida()
				item.VarianteID = l.id
				item.PrecioCosto = v.PrecioCosto
			} else {
				if item.Descripcion == "" {
					item.Descripcion = "Servicio"
				}
				item.TurnoID = l.id
			}

			total = total.Add(money.Factor(l.cantidad, uom).Mul(l.precio))
			items = append(items, item)
		}
		total = money.Round2(total)

		if req.TotalDeclarado != nil && !req.TotalDeclarado.Equal(total) {
			log.Warn().
				Str("venta_id", ventaID.String()).
				Str("total_declarado", req.TotalDeclarado.String()).
				Str("total", total.String()).
				Msg("total declarado distinto del calculado")
		}

		for _, it := range items {
			if it.VarianteID == nil {
				continue
			}
			err := s.inventario.AplicarDeltaTx(tx, DeltaStock{
				VarianteID:   *it.VarianteID,
				Delta:        -it.Cantidad,
				Tipo:         model.MovVenta,
				Motivo:       "Venta",
				UsuarioID:    &sesion.UsuarioID,
				ReferenciaID: &ventaID,
			})
			if errors.Is(err, ErrStockInsuficiente) {
				return apierror.Negocio("Stock insuficiente para %s.", it.Descripcion)
			}
			if err != nil {
				return err
			}
		}

		venta = model.Venta{
			ID:          ventaID,
			ClienteID:   clienteID,
			UsuarioID:   &sesion.UsuarioID,
			Total:       total,
			MontoPagado: total,
			MetodoPago:  metodo,
			EstadoPago:  model.EstadoPagoPagado,
			Estado:      model.VentaCompletada,
			Items:       items,
		}
		if metodo == model.PagoCuentaCorriente {
			venta.MontoPagado = decimal.Zero
			venta.EstadoPago = model.EstadoPagoPendiente
		}
		if err := s.repo.CreateTx(tx, &venta); err != nil {
			return err
		}

		for _, it := range items {
			if it.TurnoID == nil {
				continue
			}
			filas, err := s.turnoRepo.FacturarTx(tx, *it.TurnoID)
			if err != nil {
				return err
			}
			if filas == 0 {
				return apierror.Negocio("El turno de %s no se puede facturar.", it.Descripcion)
			}
		}
		return nil
	})
	if err != nil {
		if e, ok := apierror.As(err); ok && e.Code != apierror.CodeInterno {
			log.Info().Str("venta_id", ventaID.String()).Str("motivo", e.Mensaje).Msg("venta rechazada")
		}
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", venta.Total.String()).
		Str("metodo_pago", string(venta.MetodoPago)).
		Msg("venta procesada")

	return &dto.VentaProcesadaResponse{
		Success: true,
		VentaID: venta.ID.String(),
		Fecha:   venta.CreatedAt,
		Total:   venta.Total,
	}, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────
// Flip COMPLETED → CANCELLED, give the stock back, and open a negative
// adjustment for every unit already paid out to its owner.

func (s *ventaService) AnularVenta(ctx context.Context, sesion model.Sesion, id uuid.UUID, motivo string) (resp *dto.VentaAnuladaResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("anular_venta", inicio, err) }(time.Now())

	if motivo == "" {
		motivo = "Anulación de venta"
	}
	ajustes := 0

	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		venta, err := s.repo.FindByIDTx(tx, id)
		if err != nil {
			return noEncontrado(err, "Venta no encontrada")
		}
		if venta.Estado == model.VentaAnulada {
			return apierror.Negocio("Ya está anulada")
		}
		filas, err := s.repo.AnularTx(tx, id)
		if err != nil {
			return err
		}
		if filas == 0 {
			return apierror.Negocio("Ya está anulada")
		}

		for _, it := range venta.Items {
			if it.VarianteID == nil {
				continue
			}
			err := s.inventario.AplicarDeltaTx(tx, DeltaStock{
				VarianteID:   *it.VarianteID,
				Delta:        it.Cantidad,
				Tipo:         model.MovVentaAnulada,
				Motivo:       motivo,
				UsuarioID:    &sesion.UsuarioID,
				ReferenciaID: &venta.ID,
			})
			if err != nil {
				return err
			}

			if it.CantidadLiquidada == 0 || it.Variante == nil || it.Variante.Producto == nil ||
				it.Variante.Producto.ProveedorID == nil {
				continue
			}
			monto := money.Subtotal(it.CantidadLiquidada, it.Variante.UnidadMedida(), it.PrecioCosto).Neg()
			if monto.IsZero() {
				continue
			}
			err = s.liquidacionRepo.CreateAjusteTx(tx, &model.AjusteSaldo{
				ProveedorID: *it.Variante.Producto.ProveedorID,
				Monto:       monto,
				Descripcion: "Anulación venta " + venta.ID.String() + ": " + it.Descripcion,
			})
			if err != nil {
				return err
			}
			ajustes++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("venta_id", id.String()).Int("ajustes", ajustes).Msg("venta anulada")
	return &dto.VentaAnuladaResponse{Success: true, VentaID: id.String(), AjustesCreados: ajustes}, nil
}

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Venta no encontrada")
	}
	return ventaToResponse(v), nil
}

func (s *ventaService) ListarVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	f := repository.VentaFilter{Estado: filter.Estado, Page: filter.Page, Limit: filter.Limit}
	if filter.Desde != "" {
		t, err := time.Parse("2006-01-02", filter.Desde)
		if err != nil {
			return nil, apierror.Validacion("fecha desde inválida")
		}
		f.Desde = &t
	}
	if filter.Hasta != "" {
		t, err := time.Parse("2006-01-02", filter.Hasta)
		if err != nil {
			return nil, apierror.Validacion("fecha hasta inválida")
		}
		t = t.AddDate(0, 0, 1)
		f.Hasta = &t
	}
	if filter.ClienteID != "" {
		id, err := uuid.Parse(filter.ClienteID)
		if err != nil {
			return nil, apierror.Validacion("cliente_id inválido")
		}
		f.ClienteID = &id
	}

	ventas, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:          v.ID.String(),
		ClienteID:   uuidPtrString(v.ClienteID),
		Total:       v.Total,
		MontoPagado: v.MontoPagado,
		MetodoPago:  string(v.MetodoPago),
		EstadoPago:  string(v.EstadoPago),
		Estado:      string(v.Estado),
		CreatedAt:   v.CreatedAt,
		Items:       make([]dto.ItemVentaResponse, 0, len(v.Items)),
	}
	for _, it := range v.Items {
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ID:                it.ID.String(),
			VarianteID:        uuidPtrString(it.VarianteID),
			TurnoID:           uuidPtrString(it.TurnoID),
			Descripcion:       it.Descripcion,
			Cantidad:          it.Cantidad,
			PrecioVenta:       it.PrecioVenta,
			CantidadLiquidada: it.CantidadLiquidada,
		})
	}
	return resp
}
