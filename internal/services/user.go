package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"distance-backend/internal/apperror"
	"distance-backend/internal/clock"
	"distance-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const jwtExpDays = 365

// UserService handles signup, login, token validation and settings.
type UserService struct {
	userRepo   UserStore
	geocoder   Geocoder
	jwtSecret  string
	bcryptCost int
}

// NewUserService creates a new user service
func NewUserService(userRepo UserStore, geocoder Geocoder, jwtSecret string) *UserService {
	return &UserService{
		userRepo:   userRepo,
		geocoder:   geocoder,
		jwtSecret:  jwtSecret,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// SignUpRequest carries the public signup fields.
type SignUpRequest struct {
	Username string
	Email    string
	Password string
	Timezone string
	Lat      float64
	Lng      float64
}

func validateCoords(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return apperror.ValidationFailed("lat", "latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return apperror.ValidationFailed("lng", "longitude must be between -180 and 180")
	}
	return nil
}

// SignUp registers a new account. The city and country are resolved once
// from the signup coordinates; when the geocoder fails or returns an
// incomplete address both degrade to "Not Found" rather than failing
// the signup.
func (s *UserService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, string, error) {
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		return nil, "", apperror.ValidationFailed("username", "username is required")
	}
	if req.Password == "" {
		return nil, "", apperror.ValidationFailed("password", "password is required")
	}
	if !clock.Valid(req.Timezone) {
		return nil, "", apperror.ValidationFailed("timezone", "unknown timezone identifier")
	}
	if err := validateCoords(req.Lat, req.Lng); err != nil {
		return nil, "", err
	}

	taken, err := s.userRepo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, "", apperror.Conflict("That username is already taken.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	city, country := "Not Found", "Not Found"
	if addr, err := s.geocoder.Reverse(ctx, req.Lat, req.Lng); err != nil {
		log.Warn().Err(err).
			Float64("lat", req.Lat).
			Float64("lng", req.Lng).
			Msg("Reverse geocoding failed, using placeholder location")
	} else {
		city = addr.CityName()
		country = addr.CountryName()
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Timezone:     req.Timezone,
		Lat:          req.Lat,
		Lng:          req.Lng,
		TempUnit:     models.UnitKelvin,
		City:         city,
		Country:      country,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperror.Forbidden("invalid username or password")
	}
	token, err := s.GenerateJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GenerateJWT generates a JWT token for a user
func (s *UserService) GenerateJWT(userID string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().AddDate(0, 0, jwtExpDays).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateJWT validates a JWT token and returns the user ID
func (s *UserService) ValidateJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", fmt.Errorf("user_id not found in token")
	}

	return userID, nil
}

// SettingsForm is the prefillable settings form state.
type SettingsForm struct {
	Timezone string  `json:"timezone"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	TempUnit string  `json:"temp_unit"`
	City     string  `json:"city"`
	Country  string  `json:"country"`
}

// Settings returns the current settings for prefilling the form.
func (s *UserService) Settings(ctx context.Context, userID string) (*SettingsForm, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &SettingsForm{
		Timezone: user.Timezone,
		Lat:      user.Lat,
		Lng:      user.Lng,
		TempUnit: user.TempUnit,
		City:     user.City,
		Country:  user.Country,
	}, nil
}

// UpdateSettings overwrites all six settings fields unconditionally. No
// re-geocoding happens here; city and country come straight from the
// caller.
func (s *UserService) UpdateSettings(ctx context.Context, userID string, form SettingsForm) error {
	if !clock.Valid(form.Timezone) {
		return apperror.ValidationFailed("timezone", "unknown timezone identifier")
	}
	if err := validateCoords(form.Lat, form.Lng); err != nil {
		return err
	}
	switch form.TempUnit {
	case models.UnitKelvin, models.UnitCelsius, models.UnitFahrenheit:
	default:
		return apperror.ValidationFailed("temp_unit", "temperature unit must be K, C or F")
	}

	if err := s.userRepo.UpdateSettings(ctx, userID,
		form.Timezone, form.Lat, form.Lng, form.TempUnit, form.City, form.Country); err != nil {
		return err
	}

	log.Info().Str("user_id", userID).Msg("Settings updated")
	return nil
}
