package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const consultaCacheTTL = 30 * time.Second

// ConsultaPreciosService answers the in-store price checker: scan a barcode,
// get the current price and stock. Results are cached briefly in Redis because
// the checker hits the same handful of products repeatedly; the TTL is short
// enough that a price update shows up within seconds.
type ConsultaPreciosService interface {
	PorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error)
}

type consultaPreciosService struct {
	productoRepo repository.ProductoRepository
	loteRepo     repository.LoteRepository
	rdb          *redis.Client
}

func NewConsultaPreciosService(productoRepo repository.ProductoRepository, loteRepo repository.LoteRepository, rdb *redis.Client) ConsultaPreciosService {
	return &consultaPreciosService{productoRepo: productoRepo, loteRepo: loteRepo, rdb: rdb}
}

func (s *consultaPreciosService) PorBarcode(ctx context.Context, barcode string) (*dto.ConsultaPreciosResponse, error) {
	cacheKey := "precio:" + barcode

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ConsultaPreciosResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	producto, err := s.productoRepo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, ErrProductoNoEncontrado
	}
	lotes, err := s.loteRepo.ListByProducto(ctx, producto.ID)
	if err != nil {
		return nil, err
	}

	elegibles := LotesElegibles(lotes, time.Now())
	lote := LotePorDefecto(elegibles)
	if lote == nil {
		return nil, SinLoteDisponibleError{ProductoID: producto.ID}
	}

	disponibles := 0
	for i := range elegibles {
		disponibles += elegibles[i].UnidadesBaseDisponibles()
	}

	resp := &dto.ConsultaPreciosResponse{
		Nombre:              producto.Nombre,
		Presentacion:        producto.Presentacion,
		PrecioEmpaque:       lote.PrecioEmpaque,
		PrecioUnidad:        lote.PrecioUnidadEfectivo().Round(4),
		DescuentoPct:        lote.DescuentoPct,
		UnidadesDisponibles: disponibles,
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, data, consultaCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("barcode", barcode).Msg("no se pudo cachear consulta de precios")
			}
		}
	}
	return resp, nil
}
