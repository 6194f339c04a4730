package service

import (
	"context"
	"errors"

	"github.com/Juniorbp20/Farma2.0-sub000/internal/dto"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/model"
	"github.com/Juniorbp20/Farma2.0-sub000/internal/repository"

	"github.com/google/uuid"
)

var ErrMarcaNoEncontrada = errors.New("marca no encontrada")

type MarcaService interface {
	Crear(ctx context.Context, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error)
	Listar(ctx context.Context) ([]dto.MarcaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMarcaRequest) (*dto.MarcaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type marcaService struct {
	repo repository.MarcaRepository
}

func NewMarcaService(repo repository.MarcaRepository) MarcaService {
	return &marcaService{repo: repo}
}

func (s *marcaService) Crear(ctx context.Context, req dto.CrearMarcaRequest) (*dto.MarcaResponse, error) {
	marca := model.Marca{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.repo.Create(ctx, &marca); err != nil {
		return nil, err
	}
	return marcaToResponse(&marca), nil
}

func (s *marcaService) Listar(ctx context.Context) ([]dto.MarcaResponse, error) {
	marcas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MarcaResponse, 0, len(marcas))
	for i := range marcas {
		out = append(out, *marcaToResponse(&marcas[i]))
	}
	return out, nil
}

func (s *marcaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMarcaRequest) (*dto.MarcaResponse, error) {
	marca, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrMarcaNoEncontrada
	}
	if req.Nombre != "" {
		marca.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		marca.Descripcion = req.Descripcion
	}
	if err := s.repo.Update(ctx, marca); err != nil {
		return nil, err
	}
	return marcaToResponse(marca), nil
}

func (s *marcaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrMarcaNoEncontrada
	}
	return s.repo.SoftDelete(ctx, id)
}

func marcaToResponse(m *model.Marca) *dto.MarcaResponse {
	return &dto.MarcaResponse{
		ID:          m.ID.String(),
		Nombre:      m.Nombre,
		Descripcion: m.Descripcion,
		Activo:      m.Activo,
	}
}
