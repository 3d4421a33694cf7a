package config

import (
	"log"

	"prestaclick/internal/adapters/persistence/models"
	"prestaclick/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	tenant, err := s.seedDefaultTenant()
	if err != nil {
		return err
	}

	if err := s.seedAdminStaff(tenant); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDefaultTenant seeds the default lender tenant
func (s *Seeder) seedDefaultTenant() (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("slug = ?", "prestaclick").First(&tenant).Error
	if err == nil {
		return &tenant, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	tenant = models.Tenant{
		Name:     "PrestaClick",
		Slug:     "prestaclick",
		IsActive: true,
	}
	if err := s.db.Create(&tenant).Error; err != nil {
		return nil, err
	}

	log.Printf("✅ Default tenant created: %s", tenant.Slug)
	return &tenant, nil
}

// seedAdminStaff seeds default admin staff user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminStaff(tenant *models.Tenant) error {
	var count int64
	s.db.Model(&models.StaffUser{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.StaffUser{
		TenantID: tenant.ID,
		Email:    "admin@prestaclick.mx",
		FullName: "Administrador",
		Password: hashedPassword,
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin staff created: %s", admin.Email)
	return nil
}
