package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/amouromar/omba/internal/cache"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/repositories"
)

const carListCacheTTL = 5 * time.Minute

type CarService struct {
	Repo *repositories.CarRepository
}

func NewCarService(repo *repositories.CarRepository) *CarService {
	return &CarService{Repo: repo}
}

// ListCars returns available cars for the browse page. Results are cached
// per filter/sort combination; cacheKey is the normalized query string.
func (s *CarService) ListCars(ctx context.Context, filter *models.CarFilter, cacheKey string) ([]*models.Car, error) {
	key := fmt.Sprintf(cache.CarListKeyFmt, cacheKey)
	if data, ok := cache.GetCached(ctx, key); ok {
		var cars []*models.Car
		if err := json.Unmarshal(data, &cars); err == nil {
			return cars, nil
		}
	}

	cars, err := s.Repo.List(ctx, filter, false)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(cars); err == nil {
		cache.SetCached(ctx, key, data, carListCacheTTL)
	}
	return cars, nil
}

// ListFleet returns every car including unavailable ones (admin view).
func (s *CarService) ListFleet(ctx context.Context, filter *models.CarFilter) ([]*models.Car, error) {
	return s.Repo.List(ctx, filter, true)
}

func (s *CarService) GetCar(ctx context.Context, id string) (*models.Car, error) {
	key := fmt.Sprintf(cache.CarDetailKeyFmt, id)
	if data, ok := cache.GetCached(ctx, key); ok {
		var car models.Car
		if err := json.Unmarshal(data, &car); err == nil {
			return &car, nil
		}
	}

	car, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(car); err == nil {
		cache.SetCached(ctx, key, data, carListCacheTTL)
	}
	return car, nil
}

func (s *CarService) CreateCar(ctx context.Context, req *models.CreateCarRequest) (*models.Car, error) {
	if err := validateCarFields(req.Make, req.Model, req.Year, req.Seats, req.PricePerDay); err != nil {
		return nil, err
	}

	car := &models.Car{
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Seats:        req.Seats,
		PricePerDay:  req.PricePerDay,
		Location:     req.Location,
		CategoryID:   req.CategoryID,
		IsAvailable:  req.IsAvailable,
	}

	if err := s.Repo.Create(ctx, car); err != nil {
		return nil, err
	}

	cache.InvalidateCarCaches(ctx)
	return car, nil
}

func (s *CarService) UpdateCar(ctx context.Context, id string, req *models.UpdateCarRequest) (*models.Car, error) {
	if err := validateCarFields(req.Make, req.Model, req.Year, req.Seats, req.PricePerDay); err != nil {
		return nil, err
	}

	car := &models.Car{
		ID:           id,
		Make:         req.Make,
		Model:        req.Model,
		Year:         req.Year,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		Seats:        req.Seats,
		PricePerDay:  req.PricePerDay,
		Location:     req.Location,
		CategoryID:   req.CategoryID,
		IsAvailable:  req.IsAvailable,
	}

	if err := s.Repo.Update(ctx, car); err != nil {
		return nil, err
	}

	cache.InvalidateCarCaches(ctx)
	return s.Repo.Get(ctx, id)
}

func (s *CarService) DeleteCar(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateCarCaches(ctx)
	return nil
}

func (s *CarService) AddImage(ctx context.Context, carID string, req *models.AddCarImageRequest) (*models.CarImage, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("%w: image url is required", ErrValidation)
	}
	imgType := req.Type
	if imgType == "" {
		imgType = "exterior"
	}

	img := &models.CarImage{
		CarID:     carID,
		URL:       req.URL,
		Type:      imgType,
		IsPrimary: req.IsPrimary,
	}
	if err := s.Repo.AddImage(ctx, img); err != nil {
		return nil, err
	}

	cache.InvalidateCarCaches(ctx)
	return img, nil
}

func (s *CarService) DeleteImage(ctx context.Context, imageID string) error {
	if err := s.Repo.DeleteImage(ctx, imageID); err != nil {
		return err
	}
	cache.InvalidateCarCaches(ctx)
	return nil
}

func (s *CarService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	if data, ok := cache.GetCached(ctx, cache.CategoriesKey); ok {
		var categories []*models.Category
		if err := json.Unmarshal(data, &categories); err == nil {
			return categories, nil
		}
	}

	categories, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(categories); err == nil {
		cache.SetCached(ctx, cache.CategoriesKey, data, 24*time.Hour)
	}
	return categories, nil
}

func (s *CarService) ListLocations(ctx context.Context) ([]*models.Location, error) {
	if data, ok := cache.GetCached(ctx, cache.LocationsKey); ok {
		var locations []*models.Location
		if err := json.Unmarshal(data, &locations); err == nil {
			return locations, nil
		}
	}

	locations, err := s.Repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(locations); err == nil {
		cache.SetCached(ctx, cache.LocationsKey, data, 24*time.Hour)
	}
	return locations, nil
}

func validateCarFields(carMake, model string, year, seats int, pricePerDay float64) error {
	if carMake == "" || model == "" {
		return fmt.Errorf("%w: make and model are required", ErrValidation)
	}
	if year < 1950 {
		return fmt.Errorf("%w: invalid year", ErrValidation)
	}
	if seats < 1 {
		return fmt.Errorf("%w: seats must be at least 1", ErrValidation)
	}
	if pricePerDay <= 0 {
		return fmt.Errorf("%w: price per day must be positive", ErrValidation)
	}
	return nil
}
