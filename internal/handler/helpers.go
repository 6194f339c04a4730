package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/apierror"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondVentaError maps the sale/return engine's typed errors to HTTP
// statuses and stable machine-readable codes. Anything unrecognized falls
// through as a plain 400 so internals never leak.
func respondVentaError(c *gin.Context, err error) {
	var (
		vacio    service.CarritoVacioError
		cantidad service.CantidadInvalidaError
		sinLote  service.SinLoteDisponibleError
		stock    service.StockInsuficienteError
		pago     service.PagoInvalidoError
		cliente  service.ClienteRequeridoError
		excedida service.DevolucionExcedidaError
		devVacia service.DevolucionVaciaError
		yaDev    service.VentaYaDevueltaError
		commit   service.CommitFallidoError
	)
	switch {
	case errors.As(err, &vacio):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode("carrito_vacio", err.Error()))
	case errors.As(err, &cantidad):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode("cantidad_invalida", err.Error()))
	case errors.As(err, &sinLote):
		c.JSON(http.StatusConflict, apierror.NewWithCode("sin_lote_disponible", err.Error()))
	case errors.As(err, &stock):
		c.JSON(http.StatusConflict, apierror.NewWithCode("stock_insuficiente", err.Error()))
	case errors.As(err, &pago):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode("pago_invalido", err.Error()))
	case errors.As(err, &cliente):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode("cliente_requerido", err.Error()))
	case errors.As(err, &excedida):
		c.JSON(http.StatusConflict, apierror.NewWithCode("devolucion_excedida", err.Error()))
	case errors.As(err, &devVacia):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewWithCode("devolucion_vacia", err.Error()))
	case errors.As(err, &yaDev):
		c.JSON(http.StatusConflict, apierror.NewWithCode("venta_ya_devuelta", err.Error()))
	case errors.As(err, &commit):
		c.JSON(http.StatusInternalServerError, apierror.NewWithCode("commit_fallido", "No se pudo confirmar la operación. Intente nuevamente."))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}
