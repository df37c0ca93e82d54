package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, sesion model.Sesion, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	CambiarActivo(ctx context.Context, id uuid.UUID, activo bool) (*dto.ProductoResponse, error)
	ConsultarPrecio(ctx context.Context, varianteID uuid.UUID) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo          repository.ProductoRepository
	varianteRepo  repository.VarianteRepository
	proveedorRepo repository.ProveedorRepository
	inventario    InventarioService
	rdb           *redis.Client
	cacheTTL      time.Duration
	txTimeout     time.Duration
}

// NewProductoService builds the catalog service. rdb may be nil; the price
// check then always reads the database.
func NewProductoService(
	repo repository.ProductoRepository,
	varianteRepo repository.VarianteRepository,
	proveedorRepo repository.ProveedorRepository,
	inventario InventarioService,
	rdb *redis.Client,
	cacheTTL time.Duration,
	txTimeout time.Duration,
) ProductoService {
	return &productoService{
		repo:          repo,
		varianteRepo:  varianteRepo,
		proveedorRepo: proveedorRepo,
		inventario:    inventario,
		rdb:           rdb,
		cacheTTL:      cacheTTL,
		txTimeout:     txTimeout,
	}
}

func parseUUIDOpcional(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, apierror.Validacion("%s inválido", campo)
	}
	return &id, nil
}

func (s *productoService) Crear(ctx context.Context, sesion model.Sesion, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if len(req.Variantes) == 0 {
		return nil, apierror.Validacion("El producto necesita al menos una variante.")
	}
	proveedorID, err := parseUUIDOpcional(req.ProveedorID, "proveedor_id")
	if err != nil {
		return nil, err
	}
	categoriaID, err := parseUUIDOpcional(req.CategoriaID, "categoria_id")
	if err != nil {
		return nil, err
	}
	if proveedorID != nil {
		if _, err := s.proveedorRepo.FindByID(ctx, *proveedorID); err != nil {
			return nil, noEncontrado(err, "Proveedor no encontrado")
		}
	}

	p := &model.Producto{
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		ProveedorID:  proveedorID,
		CategoriaID:  categoriaID,
		UnidadMedida: model.UnidadMedida(req.UnidadMedida),
		Activo:       true,
	}
	for _, v := range req.Variantes {
		if !v.PrecioVenta.IsPositive() || v.PrecioCosto.IsNegative() || v.StockInicial < 0 {
			return nil, apierror.Validacion("Precios y stock de la variante %q son inválidos.", v.Nombre)
		}
		p.Variantes = append(p.Variantes, model.Variante{
			Nombre:      v.Nombre,
			PrecioCosto: v.PrecioCosto,
			PrecioVenta: v.PrecioVenta,
		})
	}

	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, p); err != nil {
			return err
		}
		for i, v := range req.Variantes {
			if v.StockInicial == 0 {
				continue
			}
			err := s.inventario.AplicarDeltaTx(tx, DeltaStock{
				VarianteID: p.Variantes[i].ID,
				Delta:      v.StockInicial,
				Tipo:       model.MovIngreso,
				Motivo:     "Stock inicial",
				UsuarioID:  &sesion.UsuarioID,
			})
			if err != nil {
				return err
			}
			p.Variantes[i].Stock = v.StockInicial
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("producto_id", p.ID.String()).Str("nombre", p.Nombre).Msg("producto creado")
	return productoToResponse(p), nil
}

func (s *productoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}

	if req.UnidadMedida != nil && model.UnidadMedida(*req.UnidadMedida) != p.UnidadMedida {
		vendido, err := s.repo.TieneVentas(ctx, id)
		if err != nil {
			return nil, apierror.Interno(err)
		}
		if vendido {
			return nil, apierror.Negocio("No se puede cambiar la unidad de medida de un producto con ventas.")
		}
		p.UnidadMedida = model.UnidadMedida(*req.UnidadMedida)
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.CategoriaID != nil {
		categoriaID, err := parseUUIDOpcional(req.CategoriaID, "categoria_id")
		if err != nil {
			return nil, err
		}
		p.CategoriaID = categoriaID
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apierror.Interno(err)
	}
	s.invalidarPrecios(ctx, p)
	return productoToResponse(p), nil
}

// CambiarActivo archives or restores a product. Archiving is refused while
// any variant still holds stock; the check and the write are one statement.
func (s *productoService) CambiarActivo(ctx context.Context, id uuid.UUID, activo bool) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}

	if activo {
		if err := s.repo.Reactivar(ctx, id); err != nil {
			return nil, apierror.Interno(err)
		}
	} else {
		ok, err := s.repo.Archivar(ctx, id)
		if err != nil {
			return nil, apierror.Interno(err)
		}
		if !ok {
			return nil, apierror.Negocio("No se puede archivar un producto con stock")
		}
	}
	p.Activo = activo
	s.invalidarPrecios(ctx, p)
	log.Info().Str("producto_id", id.String()).Bool("activo", activo).Msg("estado de producto actualizado")
	return productoToResponse(p), nil
}

// ── Consulta de precios ──────────────────────────────────────────────────────

// precioCache is what the price check keeps in Redis. Stock is never cached.
type precioCache struct {
	Nombre       string          `json:"nombre"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	UnidadMedida string          `json:"unidad_medida"`
	Activo       bool            `json:"activo"`
}

func precioCacheKey(varianteID uuid.UUID) string { return "precio:" + varianteID.String() }

func (s *productoService) ConsultarPrecio(ctx context.Context, varianteID uuid.UUID) (*dto.ConsultaPrecioResponse, error) {
	var entrada *precioCache
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, precioCacheKey(varianteID)).Bytes()
		if err == nil {
			var c precioCache
			if json.Unmarshal(raw, &c) == nil {
				entrada = &c
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("cache de precios no disponible")
		}
	}

	if entrada == nil {
		v, err := s.varianteRepo.FindByID(ctx, varianteID)
		if err != nil {
			return nil, noEncontrado(err, "Producto no encontrado")
		}
		entrada = &precioCache{
			Nombre:       v.Descripcion(),
			PrecioVenta:  v.PrecioVenta,
			UnidadMedida: string(v.UnidadMedida()),
			Activo:       v.Producto == nil || v.Producto.Activo,
		}
		if s.rdb != nil {
			if raw, err := json.Marshal(entrada); err == nil {
				s.rdb.Set(ctx, precioCacheKey(varianteID), raw, s.cacheTTL)
			}
		}
	}
	if !entrada.Activo {
		return nil, apierror.NoEncontrado("Producto no disponible")
	}

	stock, err := s.varianteRepo.StockTx(s.repo.DB().WithContext(ctx), varianteID)
	if err != nil {
		return nil, noEncontrado(err, "Producto no encontrado")
	}
	return &dto.ConsultaPrecioResponse{
		Nombre:       entrada.Nombre,
		PrecioVenta:  entrada.PrecioVenta,
		UnidadMedida: entrada.UnidadMedida,
		Stock:        stock,
	}, nil
}

func (s *productoService) invalidarPrecios(ctx context.Context, p *model.Producto) {
	if s.rdb == nil || len(p.Variantes) == 0 {
		return
	}
	keys := make([]string, 0, len(p.Variantes))
	for _, v := range p.Variantes {
		keys = append(keys, precioCacheKey(v.ID))
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("no se pudo invalidar cache de precios")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		ProveedorID:  uuidPtrString(p.ProveedorID),
		CategoriaID:  uuidPtrString(p.CategoriaID),
		UnidadMedida: string(p.UnidadMedida),
		Activo:       p.Activo,
		Variantes:    make([]dto.VarianteResponse, 0, len(p.Variantes)),
	}
	for _, v := range p.Variantes {
		resp.Variantes = append(resp.Variantes, dto.VarianteResponse{
			ID:          v.ID.String(),
			Nombre:      v.Nombre,
			PrecioCosto: v.PrecioCosto,
			PrecioVenta: v.PrecioVenta,
			Stock:       v.Stock,
		})
	}
	return resp
}
