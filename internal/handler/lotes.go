package handler

import (
	"net/http"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type LotesHandler struct{ svc service.LoteService }

func NewLotesHandler(svc service.LoteService) *LotesHandler { return &LotesHandler{svc: svc} }

// Registrar godoc
// @Summary      Registrar lote
// @Description  Ingresa un lote nuevo de mercadería con su precio, vencimiento y stock inicial.
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RegistrarLoteRequest true "Datos del lote"
// @Success      201  {object} dto.LoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/lotes [post]
func (h *LotesHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Registrar(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Obtener godoc
// @Summary      Obtener lote por ID
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del lote"
// @Success      200 {object} dto.LoteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/lotes/{id} [get]
func (h *LotesHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarPorProducto godoc
// @Summary      Listar lotes de un producto
// @Description  Lotes activos ordenados por vencimiento ascendente (sin fecha al final).
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del producto"
// @Success      200 {array} dto.LoteResponse
// @Router       /v1/productos/{id}/lotes [get]
func (h *LotesHandler) ListarPorProducto(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ListarPorProducto(c.Request.Context(), productoID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar lotes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PorVencer godoc
// @Summary      Lotes próximos a vencer
// @Description  Lotes activos con stock que vencen dentro de la ventana configurada.
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.LoteResponse
// @Router       /v1/lotes/por-vencer [get]
func (h *LotesHandler) PorVencer(c *gin.Context) {
	resp, err := h.svc.PorVencer(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar lotes por vencer"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ActualizarPrecios godoc
// @Summary      Actualizar precios de un lote
// @Description  Cambia precios y descuento del lote registrando el cambio en el historial. Las ventas ya cometidas no se ven afectadas.
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del lote"
// @Param        body body dto.ActualizarPreciosLoteRequest true "Nuevos precios"
// @Success      200  {object} dto.LoteResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/lotes/{id}/precios [put]
func (h *LotesHandler) ActualizarPrecios(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarPreciosLoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarPrecios(c.Request.Context(), id, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Corrige el stock del lote en unidades base (positivo o negativo) dejando rastro en movimientos.
// @Tags         lotes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del lote"
// @Param        body body dto.AjustarStockRequest true "Ajuste y motivo"
// @Success      200  {object} dto.LoteResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/lotes/{id}/ajuste [post]
func (h *LotesHandler) AjustarStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AjustarStock(c.Request.Context(), id, req)
	if err != nil {
		respondVentaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Desactivar godoc
// @Summary      Desactivar lote
// @Tags         lotes
// @Security     BearerAuth
// @Param        id path string true "UUID del lote"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Router       /v1/lotes/{id} [delete]
func (h *LotesHandler) Desactivar(c *gin.Context) {
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

// HistorialPrecios godoc
// @Summary      Historial de precios del lote
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del lote"
// @Success      200 {array} dto.HistorialPrecioLoteResponse
// @Router       /v1/lotes/{id}/historial-precios [get]
func (h *LotesHandler) HistorialPrecios(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.HistorialPrecios(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar historial"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Movimientos godoc
// @Summary      Movimientos de stock del lote
// @Tags         lotes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del lote"
// @Success      200 {array} dto.MovimientoStockResponse
// @Router       /v1/lotes/{id}/movimientos [get]
func (h *LotesHandler) Movimientos(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.Movimientos(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar movimientos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
