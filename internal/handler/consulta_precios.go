package handler

import (
	"net/http"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
)

type ConsultaPreciosHandler struct{ svc service.ConsultaPreciosService }

func NewConsultaPreciosHandler(svc service.ConsultaPreciosService) *ConsultaPreciosHandler {
	return &ConsultaPreciosHandler{svc: svc}
}

// PorBarcode godoc
// @Summary      Consultar precio por código de barras
// @Description  Endpoint público del verificador de precios: precio y stock del lote de vencimiento más próximo.
// @Tags         consulta-precios
// @Produce      json
// @Param        barcode path string true "Código de barras"
// @Success      200 {object} dto.ConsultaPreciosResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/consulta-precios/{barcode} [get]
func (h *ConsultaPreciosHandler) PorBarcode(c *gin.Context) {
	resp, err := h.svc.PorBarcode(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Producto no disponible"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
