package services

import (
	"context"

	"github.com/fathima-sithara/snapshoot-service/internal/domain"
	"github.com/fathima-sithara/snapshoot-service/internal/geo"
	"github.com/fathima-sithara/snapshoot-service/internal/repository"
)

type LocationService struct {
	users repository.UserRepository
}

func NewLocationService(users repository.UserRepository) *LocationService {
	return &LocationService{users: users}
}

func (s *LocationService) Update(ctx context.Context, id domain.Identity, p domain.GeoPoint) (*domain.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.users.SetLocation(ctx, id.UserID, p)
}

// NearbyUsers lists other users with a known location near the point.
func (s *LocationService) NearbyUsers(ctx context.Context, id domain.Identity, lon, lat, radius float64, limit int) ([]domain.NearbyUser, error) {
	center := domain.NewPoint(lon, lat)
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radius < 0 || limit < 0 {
		return nil, domain.NewError(domain.ErrValidation, "radius and limit must be positive")
	}
	return s.users.Near(ctx, geo.Query{
		Center:      center,
		MaxDistance: radius,
		ExcludeID:   id.UserID,
		Limit:       limit,
	})
}
