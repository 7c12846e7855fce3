package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"luxe-marketplace/internal/models"
)

type GormDB struct {
	db *gorm.DB
}

func NewGormDB(host string, port int, user, password, dbname string) (*GormDB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormDB{db: db}, nil
}

// NewGormDBFromDB creates a GormDB wrapper from an existing gorm.DB instance
func NewGormDBFromDB(db *gorm.DB) *GormDB {
	return &GormDB{db: db}
}

func (gdb *GormDB) Close() error {
	sqlDB, err := gdb.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (gdb *GormDB) InitSchema() error {
	return gdb.db.AutoMigrate(&models.Vehicle{})
}

// SaveVehicles upserts the list by id and deletes rows that are no longer
// in the inventory, in one transaction.
func (gdb *GormDB) SaveVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	return gdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(vehicles) == 0 {
			return tx.Where("1 = 1").Delete(&models.Vehicle{}).Error
		}

		ids := make([]int, len(vehicles))
		for i := range vehicles {
			ids[i] = vehicles[i].ID
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
			CreateInBatches(vehicles, 200).Error; err != nil {
			return fmt.Errorf("upsert vehicles: %w", err)
		}
		if err := tx.Where("id NOT IN ?", ids).Delete(&models.Vehicle{}).Error; err != nil {
			return fmt.Errorf("prune vehicles: %w", err)
		}
		return nil
	})
}

// FetchVehicles retrieves all vehicles ordered by id
func (gdb *GormDB) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := gdb.db.WithContext(ctx).Order("id").Find(&vehicles).Error
	return vehicles, err
}

// GetVehicleByID retrieves a vehicle by ID
func (gdb *GormDB) GetVehicleByID(ctx context.Context, id int) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := gdb.db.WithContext(ctx).Where("id = ?", id).First(&vehicle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}
