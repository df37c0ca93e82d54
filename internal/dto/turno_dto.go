package dto

import "time"

type CrearTurnoRequest struct {
	MascotaID       string  `json:"mascota_id"       validate:"required,uuid"`
	Fecha           string  `json:"fecha"            validate:"required,datetime=2006-01-02"`
	Hora            string  `json:"hora"             validate:"required,datetime=15:04"`
	DuracionMinutos int     `json:"duracion_minutos"`
	Notas           *string `json:"notas"            validate:"omitempty,max=500"`
}

type CambiarEstadoTurnoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=PENDING CONFIRMED COMPLETED BILLED CANCELLED"`
}

// TurnoFilter is bound from query string of GET /v1/turnos.
type TurnoFilter struct {
	Desde string `form:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

type TurnoResponse struct {
	ID        string    `json:"id"`
	MascotaID string    `json:"mascota_id"`
	Mascota   string    `json:"mascota"`
	Inicio    time.Time `json:"inicio"`
	Fin       time.Time `json:"fin"`
	Estado    string    `json:"estado"`
	Notas     *string   `json:"notas,omitempty"`
}

type TurnoCreadoResponse struct {
	Success bool          `json:"success"`
	Turno   TurnoResponse `json:"turno"`
}
