package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amouromar/omba/internal/models"
)

type ProfileRepository struct {
	DB *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

const profileColumns = `id, email, password_hash, COALESCE(full_name, '') as full_name,
	COALESCE(phone_number, '') as phone_number, COALESCE(avatar_url, '') as avatar_url,
	COALESCE(location, '') as location, COALESCE(house_number, '') as house_number,
	COALESCE(national_id_number, '') as national_id_number,
	COALESCE(national_id_photo_url, '') as national_id_photo_url,
	COALESCE(driver_license_number, '') as driver_license_number,
	COALESCE(driver_license_photo_url, '') as driver_license_photo_url,
	COALESCE(selfie_url, '') as selfie_url,
	is_verified, role, COALESCE(totp_secret, '') as totp_secret, totp_enabled,
	created_at, updated_at`

func scanProfile(row interface{ Scan(...any) error }) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.PhoneNumber,
		&p.AvatarURL, &p.Location, &p.HouseNumber,
		&p.NationalIDNumber, &p.NationalIDPhotoURL,
		&p.DriverLicenseNumber, &p.DriverLicensePhotoURL, &p.SelfieURL,
		&p.IsVerified, &p.Role, &p.TOTPSecret, &p.TOTPEnabled,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO profiles(email, password_hash, full_name, phone_number, role)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, is_verified, role, created_at, updated_at`,
		p.Email, p.PasswordHash, p.FullName, p.PhoneNumber, models.RoleUser,
	).Scan(&p.ID, &p.IsVerified, &p.Role, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfileRepository) Get(ctx context.Context, id string) (*models.Profile, error) {
	return scanProfile(r.DB.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id=$1`, id))
}

func (r *ProfileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return scanProfile(r.DB.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email=$1`, email))
}

func (r *ProfileRepository) List(ctx context.Context) ([]*models.Profile, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) UpdateContact(ctx context.Context, id string, req *models.UpdateProfileRequest) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET full_name=$1, phone_number=$2, avatar_url=$3,
		 location=$4, house_number=$5, updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		req.FullName, req.PhoneNumber, req.AvatarURL, req.Location, req.HouseNumber, id)
	return err
}

// SubmitVerificationDocs stores the identity documents for admin review.
// Submitting fresh documents does not change is_verified.
func (r *ProfileRepository) SubmitVerificationDocs(ctx context.Context, id string, req *models.SubmitVerificationRequest) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET national_id_number=$1, national_id_photo_url=$2,
		 driver_license_number=$3, driver_license_photo_url=$4, selfie_url=$5,
		 updated_at=CURRENT_TIMESTAMP
         WHERE id=$6`,
		req.NationalIDNumber, req.NationalIDPhotoURL,
		req.DriverLicenseNumber, req.DriverLicensePhotoURL, req.SelfieURL, id)
	return err
}

func (r *ProfileRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET is_verified=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		verified, id)
	return err
}

func (r *ProfileRepository) SetTOTPSecret(ctx context.Context, id, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET totp_secret=$1, totp_enabled=FALSE, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		secret, id)
	return err
}

func (r *ProfileRepository) EnableTOTP(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE profiles SET totp_enabled=TRUE, updated_at=CURRENT_TIMESTAMP WHERE id=$1`, id)
	return err
}
