package repositories

import (
	"context"
	"time"

	"prestaclick/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// staffRepository is the GORM implementation of StaffRepository
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) Create(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).First(&staff, id).Error
	return &staff, err
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var staff models.StaffUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&staff).Error
	return &staff, err
}

func (r *staffRepository) Update(ctx context.Context, staff *models.StaffUser) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepository) List(ctx context.Context, tenantID uint, offset, limit int) ([]*models.StaffUser, int64, error) {
	var staff []*models.StaffUser
	var total int64

	r.db.WithContext(ctx).Model(&models.StaffUser{}).
		Where("tenant_id = ?", tenantID).Count(&total)

	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&staff).Error

	return staff, total, err
}

func (r *staffRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StaffUser{}).
		Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// refreshTokenRepository is the GORM implementation of RefreshTokenRepository
type refreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

func (r *refreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *refreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&token).Error
	return &token, err
}

func (r *refreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", tokenHash).
		Update("revoked_at", now).Error
}

func (r *refreshTokenRepository) RevokeAllByStaffID(ctx context.Context, staffID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("staff_id = ? AND revoked_at IS NULL", staffID).
		Update("revoked_at", now).Error
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{}).Error
}

// TenantRepository handles tenant data access
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// GetByID gets a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).First(&tenant, id).Error
	return &tenant, err
}

// GetBySlug gets a tenant by slug
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	return &tenant, err
}

// List lists all tenants
func (r *TenantRepository) List(ctx context.Context) ([]*models.Tenant, error) {
	var tenants []*models.Tenant
	err := r.db.WithContext(ctx).Order("id ASC").Find(&tenants).Error
	return tenants, err
}
