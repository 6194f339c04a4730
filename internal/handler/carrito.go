package handler

import (
	"errors"
	"net/http"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/middleware"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler {
	return &CarritoHandler{svc: svc}
}

func (h *CarritoHandler) carritoID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

func (h *CarritoHandler) respondCarrito(c *gin.Context, resp *dto.CarritoResponse, err error) {
	if err != nil {
		if errors.Is(err, service.ErrCarritoNoEncontrado) || errors.Is(err, service.ErrLineaNoEncontrada) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		respondVentaError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear carrito
// @Description  Abre un borrador de venta vacío. Nada se reserva hasta confirmar.
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.CarritoResponse
// @Router       /v1/carritos [post]
func (h *CarritoHandler) Crear(c *gin.Context) {
	c.JSON(http.StatusCreated, h.svc.Crear(c.Request.Context()))
}

// Obtener godoc
// @Summary      Obtener carrito
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del carrito"
// @Success      200 {object} dto.CarritoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/carritos/{id} [get]
func (h *CarritoHandler) Obtener(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	h.respondCarrito(c, resp, err)
}

// AgregarProducto godoc
// @Summary      Agregar producto al carrito
// @Description  Agrega una línea con el lote por defecto (el de vencimiento más próximo). La cantidad puede quedar ajustada al stock disponible.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del carrito"
// @Param        body body dto.AgregarProductoRequest true "Producto a agregar"
// @Success      200  {object} dto.CarritoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/carritos/{id}/lineas [post]
func (h *CarritoHandler) AgregarProducto(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	var req dto.AgregarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AgregarProducto(c.Request.Context(), id, req)
	h.respondCarrito(c, resp, err)
}

// ActualizarLinea godoc
// @Summary      Editar línea del carrito
// @Description  Cambia modo, cantidad, lote o IVA de una línea. La cantidad puede quedar ajustada al stock disponible del lote.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "UUID del carrito"
// @Param        lineaId path string true "UUID de la línea"
// @Param        body    body dto.ActualizarLineaRequest true "Cambios"
// @Success      200     {object} dto.CarritoResponse
// @Failure      404     {object} apierror.APIError
// @Router       /v1/carritos/{id}/lineas/{lineaId} [put]
func (h *CarritoHandler) ActualizarLinea(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	var req dto.ActualizarLineaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarLinea(c.Request.Context(), id, lineaID, req)
	h.respondCarrito(c, resp, err)
}

// QuitarLinea godoc
// @Summary      Quitar línea del carrito
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string true "UUID del carrito"
// @Param        lineaId path string true "UUID de la línea"
// @Success      200     {object} dto.CarritoResponse
// @Failure      404     {object} apierror.APIError
// @Router       /v1/carritos/{id}/lineas/{lineaId} [delete]
func (h *CarritoHandler) QuitarLinea(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	lineaID, err := uuid.Parse(c.Param("lineaId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de linea invalido"))
		return
	}
	resp, err := h.svc.QuitarLinea(c.Request.Context(), id, lineaID)
	h.respondCarrito(c, resp, err)
}

// ActualizarDatos godoc
// @Summary      Actualizar datos del carrito
// @Description  Cliente, método de pago, monto recibido, descuento global y observaciones.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "UUID del carrito"
// @Param        body body dto.ActualizarCarritoRequest true "Datos del borrador"
// @Success      200  {object} dto.CarritoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/carritos/{id} [put]
func (h *CarritoHandler) ActualizarDatos(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	var req dto.ActualizarCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarDatos(c.Request.Context(), id, req)
	h.respondCarrito(c, resp, err)
}

// Confirmar godoc
// @Summary      Confirmar carrito (registrar venta)
// @Description  Valida y comete la venta en una única transacción. En caso de rechazo el carrito queda intacto para corregir y reintentar.
// @Tags         carrito
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID del carrito"
// @Success      201 {object} dto.VentaResponse
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Router       /v1/carritos/{id}/confirmar [post]
func (h *CarritoHandler) Confirmar(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	claims := middleware.GetClaims(c)
	usuarioID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.Confirmar(c.Request.Context(), id, usuarioID)
	if err != nil {
		if errors.Is(err, service.ErrCarritoNoEncontrado) {
			c.JSON(http.StatusNotFound, apierror.New(err.Error()))
			return
		}
		respondVentaError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Abandonar godoc
// @Summary      Abandonar carrito
// @Description  Descarta el borrador. No hay nada que limpiar: el stock nunca se reservó.
// @Tags         carrito
// @Security     BearerAuth
// @Param        id path string true "UUID del carrito"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/carritos/{id} [delete]
func (h *CarritoHandler) Abandonar(c *gin.Context) {
	id, ok := h.carritoID(c)
	if !ok {
		return
	}
	if err := h.svc.Abandonar(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
