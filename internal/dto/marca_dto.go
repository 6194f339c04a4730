package dto

type CrearMarcaRequest struct {
	Nombre      string  `json:"nombre" validate:"required"`
	Descripcion *string `json:"descripcion"`
}

type ActualizarMarcaRequest struct {
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
}

type MarcaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}
