package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/amouromar/omba/internal/auth"
	"github.com/amouromar/omba/internal/models"
	"github.com/amouromar/omba/internal/repositories"
)

type ProfileService struct {
	Repo *repositories.ProfileRepository
	JWT  *auth.JWTManager
}

func NewProfileService(repo *repositories.ProfileRepository, jwt *auth.JWTManager) *ProfileService {
	return &ProfileService{Repo: repo, JWT: jwt}
}

func (s *ProfileService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if req.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		PhoneNumber:  req.PhoneNumber,
		Role:         models.RoleUser,
	}
	if err := s.Repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	token, err := s.JWT.GenerateToken(profile)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] new signup: %s", email)
	return &models.AuthResponse{Token: token, Profile: profile}, nil
}

func (s *ProfileService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	profile, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.VerifyPassword(profile.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	if profile.TOTPEnabled {
		if req.TOTPCode == "" {
			return nil, ErrTOTPRequired
		}
		if !auth.ValidateTOTPCode(profile.TOTPSecret, req.TOTPCode) {
			return nil, ErrInvalidCredentials
		}
	}

	token, err := s.JWT.GenerateToken(profile)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{Token: token, Profile: profile}, nil
}

func (s *ProfileService) Get(ctx context.Context, id string) (*models.Profile, error) {
	profile, err := s.Repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: profile not found", ErrNotFound)
		}
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) UpdateContact(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	if req.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if err := s.Repo.UpdateContact(ctx, id, req); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// SubmitVerification stores the renter's identity documents for admin
// review. It never flips is_verified.
func (s *ProfileService) SubmitVerification(ctx context.Context, id string, req *models.SubmitVerificationRequest) (*models.Profile, error) {
	if req.NationalIDNumber == "" && req.DriverLicenseNumber == "" {
		return nil, fmt.Errorf("%w: at least one identity document is required", ErrValidation)
	}
	if err := s.Repo.SubmitVerificationDocs(ctx, id, req); err != nil {
		return nil, err
	}
	log.Printf("[Profile] verification documents submitted by %s", id)
	return s.Get(ctx, id)
}

func (s *ProfileService) ListAll(ctx context.Context) ([]*models.Profile, error) {
	return s.Repo.List(ctx)
}

// SetVerified is the admin approval/revocation toggle behind the
// verification gate.
func (s *ProfileService) SetVerified(ctx context.Context, id string, verified bool) error {
	if err := s.Repo.SetVerified(ctx, id, verified); err != nil {
		return err
	}
	log.Printf("[Profile] verification for %s set to %v", id, verified)
	return nil
}

// SetupTOTP generates a fresh secret and QR code. The secret is stored
// immediately but 2FA stays off until ConfirmTOTP sees a valid code.
func (s *ProfileService) SetupTOTP(ctx context.Context, id string) (*auth.TOTPSetup, error) {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	setup, err := auth.GenerateTOTPSetup(profile.Email)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.SetTOTPSecret(ctx, id, setup.Secret); err != nil {
		return nil, err
	}
	return setup, nil
}

func (s *ProfileService) ConfirmTOTP(ctx context.Context, id, code string) error {
	profile, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if profile.TOTPSecret == "" {
		return fmt.Errorf("%w: 2FA setup has not been started", ErrValidation)
	}
	if !auth.ValidateTOTPCode(profile.TOTPSecret, code) {
		return fmt.Errorf("%w: invalid verification code", ErrValidation)
	}
	return s.Repo.EnableTOTP(ctx, id)
}
