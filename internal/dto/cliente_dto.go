package dto

type CrearClienteRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	Telefono *string `json:"telefono" validate:"omitempty,max=40"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type CrearMascotaRequest struct {
	Nombre  string  `json:"nombre"  validate:"required,min=1,max=80"`
	Especie *string `json:"especie" validate:"omitempty,max=40"`
}

type ClienteResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
}

type MascotaResponse struct {
	ID        string  `json:"id"`
	ClienteID *string `json:"cliente_id,omitempty"`
	Nombre    string  `json:"nombre"`
	Especie   *string `json:"especie,omitempty"`
}
