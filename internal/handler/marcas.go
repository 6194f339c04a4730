package handler

import (
	"net/http"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MarcasHandler struct{ svc service.MarcaService }

func NewMarcasHandler(svc service.MarcaService) *MarcasHandler {
	return &MarcasHandler{svc: svc}
}

// Crear godoc
// @Summary      Crear marca
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearMarcaRequest true "Datos de la marca"
// @Success      201  {object} dto.MarcaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marcas [post]
func (h *MarcasHandler) Crear(c *gin.Context) {
	var req dto.CrearMarcaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar marcas
// @Tags         marcas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.MarcaResponse
// @Router       /v1/marcas [get]
func (h *MarcasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar marcas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar godoc
// @Summary      Actualizar marca
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la marca"
// @Param        body body dto.ActualizarMarcaRequest true "Campos a actualizar"
// @Success      200  {object} dto.MarcaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/marcas/{id} [put]
func (h *MarcasHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarMarcaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar marca
// @Tags         marcas
// @Security     BearerAuth
// @Param        id path string true "UUID de la marca"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/marcas/{id} [delete]
func (h *MarcasHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Desactivar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
