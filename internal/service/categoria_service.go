package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context) ([]dto.CategoriaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error)
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:     c.ID.String(),
		Nombre: c.Nombre,
		Activo: c.Activo,
	}
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	existing, err := s.repo.ObtenerPorNombre(ctx, req.Nombre)
	if err != nil && !repository.EsNoEncontrado(err) {
		return dto.CategoriaResponse{}, apierror.Interno(err)
	}
	if existing != nil {
		return dto.CategoriaResponse{}, apierror.Conflicto("ya existe una categoría con ese nombre")
	}

	c := &model.Categoria{Nombre: req.Nombre, Activo: true}
	if err := s.repo.Crear(ctx, c); err != nil {
		return dto.CategoriaResponse{}, apierror.Interno(err)
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Obtener(ctx context.Context, id uuid.UUID) (dto.CategoriaResponse, error) {
	c, err := s.repo.ObtenerPorID(ctx, id)
	if err != nil {
		if repository.EsNoEncontrado(err) {
			return dto.CategoriaResponse{}, apierror.NoEncontrado("categoría no encontrada")
		}
		return dto.CategoriaResponse{}, apierror.Interno(err)
	}
	return mapCategoria(*c), nil
}
