package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/apierror"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/dto"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
)

// ClienteService registers customers and their pets.
type ClienteService interface {
	Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error)
	CrearMascota(ctx context.Context, clienteID uuid.UUID, req dto.CrearMascotaRequest) (*dto.MascotaResponse, error)
}

type clienteService struct {
	repo repository.ClienteRepository
}

func NewClienteService(repo repository.ClienteRepository) ClienteService {
	return &clienteService{repo: repo}
}

func (s *clienteService) Crear(ctx context.Context, req dto.CrearClienteRequest) (*dto.ClienteResponse, error) {
	c := &model.Cliente{Nombre: req.Nombre, Telefono: req.Telefono, Email: req.Email}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, apierror.Interno(err)
	}
	return &dto.ClienteResponse{ID: c.ID.String(), Nombre: c.Nombre, Telefono: c.Telefono, Email: c.Email}, nil
}

func (s *clienteService) CrearMascota(ctx context.Context, clienteID uuid.UUID, req dto.CrearMascotaRequest) (*dto.MascotaResponse, error) {
	if _, err := s.repo.FindByID(ctx, clienteID); err != nil {
		return nil, noEncontrado(err, "Cliente no encontrado")
	}
	m := &model.Mascota{ClienteID: &clienteID, Nombre: req.Nombre, Especie: req.Especie}
	if err := s.repo.CreateMascota(ctx, m); err != nil {
		return nil, apierror.Interno(err)
	}
	return &dto.MascotaResponse{
		ID:        m.ID.String(),
		ClienteID: uuidPtrString(m.ClienteID),
		Nombre:    m.Nombre,
		Especie:   m.Especie,
	}, nil
}
