package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amouromar/omba/internal/models"
)

type CarRepository struct {
	DB *pgxpool.Pool
}

func NewCarRepository(db *pgxpool.Pool) *CarRepository {
	return &CarRepository{DB: db}
}

// List returns available cars matching the filter, images included.
// Admin listings pass includeUnavailable to see the whole fleet.
func (r *CarRepository) List(ctx context.Context, filter *models.CarFilter, includeUnavailable bool) ([]*models.Car, error) {
	query := `SELECT c.id, c.make, c.model, c.year, c.transmission, c.fuel_type, c.seats,
		c.price_per_day, COALESCE(c.location, '') as location, c.category_id,
		COALESCE(cat.name, '') as category_name, c.is_available, c.created_at, c.updated_at
		FROM cars c LEFT JOIN categories cat ON cat.id = c.category_id`

	var conditions []string
	var args []any

	if !includeUnavailable {
		conditions = append(conditions, "c.is_available = TRUE")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("(c.make ILIKE $%d OR c.model ILIKE $%d)", len(args), len(args)))
	}
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("c.category_id = $%d", len(args)))
	}
	if filter.Location != "" {
		args = append(args, "%"+filter.Location+"%")
		conditions = append(conditions, fmt.Sprintf("c.location ILIKE $%d", len(args)))
	}
	if filter.MinPrice > 0 {
		args = append(args, filter.MinPrice)
		conditions = append(conditions, fmt.Sprintf("c.price_per_day >= $%d", len(args)))
	}
	if filter.MaxPrice > 0 {
		args = append(args, filter.MaxPrice)
		conditions = append(conditions, fmt.Sprintf("c.price_per_day <= $%d", len(args)))
	}
	if filter.Transmission != "" {
		args = append(args, filter.Transmission)
		conditions = append(conditions, fmt.Sprintf("c.transmission = $%d", len(args)))
	}
	if filter.FuelType != "" {
		args = append(args, filter.FuelType)
		conditions = append(conditions, fmt.Sprintf("c.fuel_type = $%d", len(args)))
	}
	if filter.Seats > 0 {
		args = append(args, filter.Seats)
		conditions = append(conditions, fmt.Sprintf("c.seats = $%d", len(args)))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	switch filter.Sort {
	case "price_asc":
		query += " ORDER BY c.price_per_day ASC"
	case "price_desc":
		query += " ORDER BY c.price_per_day DESC"
	case "seats_desc":
		query += " ORDER BY c.seats DESC"
	default:
		query += " ORDER BY c.created_at DESC"
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cars []*models.Car
	byID := make(map[string]*models.Car)
	for rows.Next() {
		var c models.Car
		err := rows.Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Transmission, &c.FuelType,
			&c.Seats, &c.PricePerDay, &c.Location, &c.CategoryID, &c.CategoryName,
			&c.IsAvailable, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		cars = append(cars, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(cars) == 0 {
		return cars, nil
	}

	ids := make([]string, 0, len(cars))
	for _, c := range cars {
		ids = append(ids, c.ID)
	}

	imgRows, err := r.DB.Query(ctx,
		`SELECT id, car_id, url, type, is_primary, created_at
		 FROM car_images WHERE car_id = ANY($1) ORDER BY is_primary DESC, created_at`, ids)
	if err != nil {
		return nil, err
	}
	defer imgRows.Close()

	for imgRows.Next() {
		var img models.CarImage
		if err := imgRows.Scan(&img.ID, &img.CarID, &img.URL, &img.Type, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		if car, ok := byID[img.CarID]; ok {
			car.Images = append(car.Images, img)
		}
	}
	return cars, imgRows.Err()
}

func (r *CarRepository) Get(ctx context.Context, id string) (*models.Car, error) {
	var c models.Car
	err := r.DB.QueryRow(ctx,
		`SELECT c.id, c.make, c.model, c.year, c.transmission, c.fuel_type, c.seats,
		 c.price_per_day, COALESCE(c.location, '') as location, c.category_id,
		 COALESCE(cat.name, '') as category_name, c.is_available, c.created_at, c.updated_at
		 FROM cars c LEFT JOIN categories cat ON cat.id = c.category_id
		 WHERE c.id=$1`, id,
	).Scan(&c.ID, &c.Make, &c.Model, &c.Year, &c.Transmission, &c.FuelType,
		&c.Seats, &c.PricePerDay, &c.Location, &c.CategoryID, &c.CategoryName,
		&c.IsAvailable, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, car_id, url, type, is_primary, created_at
		 FROM car_images WHERE car_id=$1 ORDER BY is_primary DESC, created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img models.CarImage
		if err := rows.Scan(&img.ID, &img.CarID, &img.URL, &img.Type, &img.IsPrimary, &img.CreatedAt); err != nil {
			return nil, err
		}
		c.Images = append(c.Images, img)
	}
	return &c, rows.Err()
}

func (r *CarRepository) Create(ctx context.Context, c *models.Car) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO cars(make, model, year, transmission, fuel_type, seats, price_per_day, location, category_id, is_available)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, created_at, updated_at`,
		c.Make, c.Model, c.Year, c.Transmission, c.FuelType, c.Seats,
		c.PricePerDay, c.Location, c.CategoryID, c.IsAvailable,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CarRepository) Update(ctx context.Context, c *models.Car) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE cars SET make=$1, model=$2, year=$3, transmission=$4, fuel_type=$5,
		 seats=$6, price_per_day=$7, location=$8, category_id=$9, is_available=$10,
		 updated_at=CURRENT_TIMESTAMP
         WHERE id=$11`,
		c.Make, c.Model, c.Year, c.Transmission, c.FuelType, c.Seats,
		c.PricePerDay, c.Location, c.CategoryID, c.IsAvailable, c.ID)
	return err
}

func (r *CarRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM cars WHERE id=$1`, id)
	return err
}

func (r *CarRepository) AddImage(ctx context.Context, img *models.CarImage) error {
	// Only one primary image per car
	if img.IsPrimary {
		if _, err := r.DB.Exec(ctx,
			`UPDATE car_images SET is_primary=FALSE WHERE car_id=$1`, img.CarID); err != nil {
			return err
		}
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO car_images(car_id, url, type, is_primary)
         VALUES($1, $2, $3, $4)
         RETURNING id, created_at`,
		img.CarID, img.URL, img.Type, img.IsPrimary,
	).Scan(&img.ID, &img.CreatedAt)
}

func (r *CarRepository) DeleteImage(ctx context.Context, imageID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM car_images WHERE id=$1`, imageID)
	return err
}

func (r *CarRepository) ListCategories(ctx context.Context) ([]*models.Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, slug FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, &cat)
	}
	return categories, rows.Err()
}

func (r *CarRepository) ListLocations(ctx context.Context) ([]*models.Location, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, type FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []*models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Type); err != nil {
			return nil, err
		}
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}
