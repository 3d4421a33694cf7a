package services

import (
	"context"
	"errors"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/config"
	"prestaclick/internal/core/domain"
	"prestaclick/internal/pkg/jwt"
	"prestaclick/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService handles staff authentication
type AuthService struct {
	staffRepo        repositories.StaffRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repositories.StaffRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		staffRepo:        staffRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents staff registration input (admin only)
type RegisterInput struct {
	TenantID uint   `json:"tenant_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ANALYST MANAGER ADMIN"`
}

// Register creates a new staff account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*models.StaffUser, error) {
	if err := password.ValidatePassword(input.Password); err != nil {
		return nil, domain.ErrInvalidInput
	}

	switch input.Role {
	case models.RoleAnalyst, models.RoleManager, models.RoleAdmin:
	default:
		return nil, domain.ErrInvalidInput
	}

	exists, err := s.staffRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEntry
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	staff := &models.StaffUser{
		TenantID: input.TenantID,
		Email:    input.Email,
		FullName: input.FullName,
		Password: hashed,
		Role:     input.Role,
		IsActive: true,
	}
	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// LoginOutput carries the token pair and the authenticated staff member
type LoginOutput struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Staff        *models.StaffUser `json:"staff"`
}

// Login authenticates a staff member and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*LoginOutput, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !staff.IsActive {
		return nil, domain.ErrForbidden
	}
	if !password.Verify(plainPassword, staff.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, staff)
}

// Refresh rotates a refresh token and issues a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	stored, err := s.refreshTokenRepo.GetByTokenHash(ctx, password.HashToken(refreshToken))
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if stored.IsRevoked() {
		return nil, domain.ErrTokenRevoked
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}

	staff, err := s.staffRepo.GetByID(ctx, claims.StaffID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	if !staff.IsActive {
		return nil, domain.ErrForbidden
	}

	// Rotation: the presented token is dead after one use
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken)); err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, staff)
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, password.HashToken(refreshToken))
}

// LogoutAll revokes every refresh token for a staff member
func (s *AuthService) LogoutAll(ctx context.Context, staffID uint) error {
	return s.refreshTokenRepo.RevokeAllByStaffID(ctx, staffID)
}

// GetStaff loads a staff account by id
func (s *AuthService) GetStaff(ctx context.Context, id uint) (*models.StaffUser, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStaffNotFound
		}
		return nil, err
	}
	return staff, nil
}

func (s *AuthService) issueTokens(ctx context.Context, staff *models.StaffUser) (*LoginOutput, error) {
	accessToken, err := jwt.GenerateAccessToken(
		staff.ID, staff.TenantID, staff.Email, staff.FullName, staff.Role,
		s.cfg.JWT.Secret, s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()
	refreshToken, err := jwt.GenerateRefreshToken(staff.ID, tokenID, s.cfg.JWT.RefreshSecret, s.cfg.JWT.RefreshTokenDays)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		StaffID:   staff.ID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	if err := s.refreshTokenRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return &LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Staff:        staff,
	}, nil
}
