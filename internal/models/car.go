package models

import "time"

type Car struct {
	ID           string     `json:"id"`
	Make         string     `json:"make"`
	Model        string     `json:"model"`
	Year         int        `json:"year"`
	Transmission string     `json:"transmission"`
	FuelType     string     `json:"fuel_type"`
	Seats        int        `json:"seats"`
	PricePerDay  float64    `json:"price_per_day"` // Base (USD) price
	Location     string     `json:"location,omitempty"`
	CategoryID   *string    `json:"category_id,omitempty"`
	CategoryName string     `json:"category_name,omitempty"`
	IsAvailable  bool       `json:"is_available"`
	Images       []CarImage `json:"images,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CarImage struct {
	ID        string    `json:"id"`
	CarID     string    `json:"car_id"`
	URL       string    `json:"url"`
	Type      string    `json:"type"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // airport or city
}

// CarFilter mirrors the browse page's query parameters. Zero values mean
// "not filtered".
type CarFilter struct {
	Search       string
	CategoryID   string
	Location     string
	MinPrice     float64
	MaxPrice     float64
	Transmission string
	FuelType     string
	Seats        int
	Sort         string // price_asc, price_desc, seats_desc, newest
}

// CreateCarRequest represents the admin request body for adding a car
type CreateCarRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	Seats        int     `json:"seats"`
	PricePerDay  float64 `json:"price_per_day"`
	Location     string  `json:"location"`
	CategoryID   *string `json:"category_id"`
	IsAvailable  bool    `json:"is_available"`
}

// UpdateCarRequest represents the admin request body for editing a car
type UpdateCarRequest struct {
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	Seats        int     `json:"seats"`
	PricePerDay  float64 `json:"price_per_day"`
	Location     string  `json:"location"`
	CategoryID   *string `json:"category_id"`
	IsAvailable  bool    `json:"is_available"`
}

// AddCarImageRequest registers an uploaded photo against a car
type AddCarImageRequest struct {
	URL       string `json:"url"`
	Type      string `json:"type"`
	IsPrimary bool   `json:"is_primary"`
}
