package handler

import (
	"net/http"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/middleware"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DevolucionesHandler struct{ svc service.DevolucionService }

func NewDevolucionesHandler(svc service.DevolucionService) *DevolucionesHandler {
	return &DevolucionesHandler{svc: svc}
}

// Registrar godoc
// @Summary      Registrar devolución
// @Description  Aplica una devolución parcial o total contra una venta. El crédito se calcula del snapshot de la venta; el tope por par (producto, lote) es acumulativo entre devoluciones.
// @Tags         devoluciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID de la venta"
// @Param        body body dto.RegistrarDevolucionRequest true "Items a devolver (unidades base)"
// @Success      201  {object} dto.DevolucionResponse
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Router       /v1/ventas/{id}/devoluciones [post]
func (h *DevolucionesHandler) Registrar(c *gin.Context) {
	ventaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.RegistrarDevolucionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Registrar(c.Request.Context(), usuarioID, ventaID, req)
	if err != nil {
		respondVentaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListarPorVenta godoc
// @Summary      Listar devoluciones de una venta
// @Tags         devoluciones
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la venta"
// @Success      200 {array} dto.DevolucionResponse
// @Router       /v1/ventas/{id}/devoluciones [get]
func (h *DevolucionesHandler) ListarPorVenta(c *gin.Context) {
	ventaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarPorVenta(c.Request.Context(), ventaID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar devoluciones"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
