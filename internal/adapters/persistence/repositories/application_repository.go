package repositories

import (
	"context"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/core/domain"

	"gorm.io/gorm"
)

// ApplicationRepository handles loan application data access
type ApplicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create creates a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID within a tenant, with relations
func (r *ApplicationRepository) GetByID(ctx context.Context, tenantID, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Preload("Decider").
		Preload("Documents", "replaced_by_id IS NULL").
		Where("tenant_id = ?", tenantID).
		First(&app, id).Error
	return &app, err
}

// GetByFolio gets an application by its public folio
func (r *ApplicationRepository) GetByFolio(ctx context.Context, tenantID uint, folio string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Where("tenant_id = ? AND folio = ?", tenantID, folio).
		First(&app).Error
	return &app, err
}

// List lists applications for a tenant with pagination, newest first
func (r *ApplicationRepository) List(ctx context.Context, tenantID uint, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).
		Where("tenant_id = ?", tenantID).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListByStatus lists applications in a given status
func (r *ApplicationRepository) ListByStatus(ctx context.Context, tenantID uint, status domain.Status, offset, limit int) ([]*models.Application, int64, error) {
	var apps []*models.Application
	var total int64

	r.db.WithContext(ctx).Model(&models.Application{}).
		Where("tenant_id = ? AND status = ?", tenantID, status).Count(&total)

	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Where("tenant_id = ? AND status = ?", tenantID, status).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&apps).Error

	return apps, total, err
}

// ListStale lists applications sitting in a status since before cutoff.
// Used by the reminder sweep.
func (r *ApplicationRepository) ListStale(ctx context.Context, status domain.Status, cutoffDays int) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Preload("Person").
		Preload("Company").
		Where("status = ? AND updated_at < NOW() - INTERVAL ? DAY", status, cutoffDays).
		Find(&apps).Error
	return apps, err
}

// CountByStatus returns application counts per status for a tenant
func (r *ApplicationRepository) CountByStatus(ctx context.Context, tenantID uint) (map[domain.Status]int64, error) {
	type row struct {
		Status domain.Status
		Total  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Application{}).
		Select("status, COUNT(*) as total").
		Where("tenant_id = ?", tenantID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// Update updates an application
func (r *ApplicationRepository) Update(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Save(app).Error
}

// Delete soft deletes an application
func (r *ApplicationRepository) Delete(ctx context.Context, tenantID, id uint) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Delete(&models.Application{}, id).Error
}

// HistoryRepository handles the append-only status history
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Append writes a new history entry. Entries are immutable once written:
// there is deliberately no update method.
func (r *HistoryRepository) Append(ctx context.Context, entry *models.StatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByApplicationID gets history entries for an application, newest first
func (r *HistoryRepository) GetByApplicationID(ctx context.Context, applicationID uint) ([]*models.StatusHistory, error) {
	var entries []*models.StatusHistory
	err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
