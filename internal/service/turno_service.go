package service

import (
	"context"
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

const (
	duracionMinimaTurno = 1
	duracionMaximaTurno = 480
)

type TurnoService interface {
	CrearTurno(ctx context.Context, req dto.CrearTurnoRequest) (*dto.TurnoCreadoResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoTurno) (*dto.TurnoResponse, error)
	ListarTurnos(ctx context.Context, filter dto.TurnoFilter) ([]dto.TurnoResponse, error)
}

type turnoService struct {
	repo        repository.TurnoRepository
	clienteRepo repository.ClienteRepository
	loc         *time.Location
	txTimeout   time.Duration
	ops         *metrics.Operaciones
}

// NewTurnoService interprets appointment dates in loc (UTC when nil).
func NewTurnoService(
	repo repository.TurnoRepository,
	clienteRepo repository.ClienteRepository,
	loc *time.Location,
	txTimeout time.Duration,
	ops *metrics.Operaciones,
) TurnoService {
	if loc == nil {
		loc = time.UTC
	}
	return &turnoService{repo: repo, clienteRepo: clienteRepo, loc: loc, txTimeout: txTimeout, ops: ops}
}

// ── CrearTurno ────────────────────────────────────────────────────────────────
// Intervals are half-open: [10:00, 11:00) and [11:00, 12:00) do not collide.
// After inserting, the overlap query runs again without the new row so a
// concurrent booking of the same slot rolls one of them back.

func (s *turnoService) CrearTurno(ctx context.Context, req dto.CrearTurnoRequest) (resp *dto.TurnoCreadoResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("crear_turno", inicio, err) }(time.Now())

	if req.DuracionMinutos < duracionMinimaTurno || req.DuracionMinutos > duracionMaximaTurno {
		return nil, apierror.Validacion("La duración debe estar entre %d y %d minutos", duracionMinimaTurno, duracionMaximaTurno)
	}
	inicio, err := time.ParseInLocation("2006-01-02 15:04", req.Fecha+" "+req.Hora, s.loc)
	if err != nil {
		return nil, apierror.Validacion("Fecha u hora inválida")
	}
	fin := inicio.Add(time.Duration(req.DuracionMinutos) * time.Minute)

	mascotaID, err := uuid.Parse(req.MascotaID)
	if err != nil {
		return nil, apierror.Validacion("mascota_id inválido")
	}
	mascota, err := s.clienteRepo.FindMascotaByID(ctx, mascotaID)
	if err != nil {
		return nil, noEncontrado(err, "Mascota no encontrada")
	}

	turno := model.Turno{
		MascotaID: mascotaID,
		Inicio:    inicio,
		Fin:       fin,
		Estado:    model.TurnoPendiente,
		Notas:     req.Notas,
	}
	err = runTx(ctx, s.repo.DB(), s.txTimeout, func(tx *gorm.DB) error {
		ocupado, err := s.repo.BuscarSolapadoTx(tx, inicio, fin, nil)
		if err != nil {
			return err
		}
		if ocupado != nil {
			return apierror.Negocio("Horario ocupado por %s.", nombreMascota(ocupado))
		}
		if err := s.repo.CreateTx(tx, &turno); err != nil {
			return err
		}
		ocupado, err = s.repo.BuscarSolapadoTx(tx, inicio, fin, &turno.ID)
		if err != nil {
			return err
		}
		if ocupado != nil {
			return apierror.Conflicto("El horario fue ocupado por otro usuario")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	turno.Mascota = mascota
	log.Info().
		Str("turno_id", turno.ID.String()).
		Str("mascota", mascota.Nombre).
		Time("inicio", inicio).
		Msg("turno creado")
	return &dto.TurnoCreadoResponse{Success: true, Turno: turnoToResponse(&turno)}, nil
}

func nombreMascota(t *model.Turno) string {
	if t.Mascota != nil {
		return t.Mascota.Nombre
	}
	return "otro turno"
}

func (s *turnoService) CambiarEstado(ctx context.Context, id uuid.UUID, estado model.EstadoTurno) (resp *dto.TurnoResponse, err error) {
	defer func(inicio time.Time) { s.ops.Observar("cambiar_estado_turno", inicio, err) }(time.Now())

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, noEncontrado(err, "Turno no encontrado")
	}
	if !model.PuedePasarA(t.Estado, estado) {
		return nil, apierror.Negocio("No se puede pasar un turno de %s a %s.", t.Estado, estado)
	}
	filas, err := s.repo.CambiarEstado(ctx, id, t.Estado, estado)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	if filas == 0 {
		return nil, apierror.Conflicto("El turno fue modificado por otro usuario. Actualice e intente nuevamente.")
	}
	t.Estado = estado
	r := turnoToResponse(t)
	return &r, nil
}

func (s *turnoService) ListarTurnos(ctx context.Context, filter dto.TurnoFilter) ([]dto.TurnoResponse, error) {
	desde, err := time.ParseInLocation("2006-01-02", filter.Desde, s.loc)
	if err != nil {
		return nil, apierror.Validacion("fecha desde inválida")
	}
	hasta := desde.AddDate(0, 0, 1)
	if filter.Hasta != "" {
		h, err := time.ParseInLocation("2006-01-02", filter.Hasta, s.loc)
		if err != nil {
			return nil, apierror.Validacion("fecha hasta inválida")
		}
		hasta = h.AddDate(0, 0, 1)
	}
	if !hasta.After(desde) {
		return nil, apierror.Validacion("El rango de fechas es inválido.")
	}

	turnos, err := s.repo.List(ctx, desde, hasta)
	if err != nil {
		return nil, apierror.Interno(err)
	}
	out := make([]dto.TurnoResponse, 0, len(turnos))
	for i := range turnos {
		out = append(out, turnoToResponse(&turnos[i]))
	}
	return out, nil
}

func turnoToResponse(t *model.Turno) dto.TurnoResponse {
	return dto.TurnoResponse{
		ID:        t.ID.String(),
		MascotaID: t.MascotaID.String(),
		Mascota:   nombreMascota(t),
		Inicio:    t.Inicio,
		Fin:       t.Fin,
		Estado:    string(t.Estado),
		Notas:     t.Notas,
	}
}
