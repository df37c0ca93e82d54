package dto

type CrearProveedorRequest struct {
	Nombre   string  `json:"nombre"   validate:"required,min=2,max=120"`
	Telefono *string `json:"telefono" validate:"omitempty,max=40"`
	Email    *string `json:"email"    validate:"omitempty,email"`
}

type ProveedorResponse struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Telefono *string `json:"telefono,omitempty"`
	Email    *string `json:"email,omitempty"`
	Activo   bool    `json:"activo"`
}
