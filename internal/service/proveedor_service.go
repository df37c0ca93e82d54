package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// ProveedorService manages consignment owners.
type ProveedorService interface {
	Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func mapProveedor(p *model.Proveedor) dto.ProveedorResponse {
	return dto.ProveedorResponse{
		ID:       p.ID.String(),
		Nombre:   p.Nombre,
		Telefono: p.Telefono,
		Email:    p.Email,
		Activo:   p.Activo,
	}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.CrearProveedorRequest) (*dto.ProveedorResponse, error) {
	p := &model.Proveedor{Nombre: req.Nombre, Telefono: req.Telefono, Email: req.Email, Activo: true}
	if err := s.repo.Create(ctx, p); err != nil {
		if repository.EsDuplicado(err) {
			return nil, apierror.Conflicto("ya existe un proveedor con ese nombre")
		}
		return nil, apierror.Interno(err)
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Proveedor no encontrado")
	}
	resp := mapProveedor(p)
	return &resp, nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	out := make([]dto.ProveedorResponse, 0, len(list))
	for i := range list {
		out = append(out, mapProveedor(&list[i]))
	}
	return out, nil
}
