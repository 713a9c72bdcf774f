package repository

import (
	domainRepo "github.com/sangkips/pos-billing-api/internal/domain/repository"
	"gorm.io/gorm"
)

// DeviceScope returns a GORM scope that keeps only rows created by deviceID.
// An empty device id matches nothing.
func DeviceScope(deviceID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if deviceID == "" {
			return db.Where("1 = 0")
		}
		return db.Where("device_id = ?", deviceID)
	}
}

// CreatedWithin returns a GORM scope limiting created_at to [StartDate, EndDate).
func CreatedWithin(params *domainRepo.BillFilterParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.StartDate != nil {
			db = db.Where("created_at >= ?", *params.StartDate)
		}
		if params.EndDate != nil {
			db = db.Where("created_at < ?", *params.EndDate)
		}
		return db
	}
}
