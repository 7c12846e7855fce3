package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"luxe-marketplace/internal/models"
)

type DB struct {
	conn *sql.DB
}

func NewDB(host string, port int, user, password, dbname, sslmode string) (*DB, error) {
	if sslmode == "" {
		sslmode = "disable"
	}
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &DB{conn: conn}, nil
}

// NewDBFromConn wraps an open connection pool
func NewDBFromConn(conn *sql.DB) *DB {
	return &DB{conn: conn}
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// InitSchema creates the vehicles table if it doesn't exist
func (db *DB) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS vehicles (
		id INTEGER PRIMARY KEY,
		brand VARCHAR(100) NOT NULL DEFAULT '',
		model VARCHAR(100) NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,

		-- Display-formatted values, parsed by the catalog
		price VARCHAR(50) NOT NULL DEFAULT '',
		original_price VARCHAR(50) NOT NULL DEFAULT '',
		savings VARCHAR(50) NOT NULL DEFAULT '',
		mileage VARCHAR(50) NOT NULL DEFAULT '',

		fuel_type VARCHAR(50) NOT NULL DEFAULT '',
		location VARCHAR(255) NOT NULL DEFAULT '',
		condition VARCHAR(50) NOT NULL DEFAULT '',
		features TEXT NOT NULL DEFAULT '[]',
		image TEXT NOT NULL DEFAULT '',
		views INTEGER NOT NULL DEFAULT 0,

		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_vehicles_brand ON vehicles(brand);
	CREATE INDEX IF NOT EXISTS idx_vehicles_year ON vehicles(year);
	CREATE INDEX IF NOT EXISTS idx_vehicles_fuel_type ON vehicles(fuel_type);
	`
	_, err := db.conn.Exec(query)
	return err
}

const upsertVehicle = `
	INSERT INTO vehicles (
		id, brand, model, year,
		price, original_price, savings, mileage,
		fuel_type, location, condition, features, image, views,
		updated_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	ON CONFLICT (id) DO UPDATE SET
		brand = EXCLUDED.brand,
		model = EXCLUDED.model,
		year = EXCLUDED.year,
		price = EXCLUDED.price,
		original_price = EXCLUDED.original_price,
		savings = EXCLUDED.savings,
		mileage = EXCLUDED.mileage,
		fuel_type = EXCLUDED.fuel_type,
		location = EXCLUDED.location,
		condition = EXCLUDED.condition,
		features = EXCLUDED.features,
		image = EXCLUDED.image,
		views = EXCLUDED.views,
		updated_at = NOW()
	`

// SaveVehicles upserts every vehicle and removes rows missing from the list.
func (db *DB) SaveVehicles(ctx context.Context, vehicles []models.Vehicle) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, upsertVehicle)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, len(vehicles))
	for i := range vehicles {
		v := &vehicles[i]
		ids[i] = int64(v.ID)

		features, err := encodeFeatures(v.Features)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			v.ID, v.Brand, v.Model, v.Year,
			v.Price, v.OriginalPrice, v.Savings, v.Mileage,
			v.FuelType, v.Location, v.Condition, features, v.Image, v.Views,
		); err != nil {
			return fmt.Errorf("upsert vehicle %d: %w", v.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vehicles WHERE NOT (id = ANY($1))`, pq.Array(ids)); err != nil {
		return fmt.Errorf("prune vehicles: %w", err)
	}

	return tx.Commit()
}

const selectVehicles = `
	SELECT id, brand, model, year,
		   price, original_price, savings, mileage,
		   fuel_type, location, condition, features, image, views,
		   updated_at
	FROM vehicles`

// FetchVehicles retrieves all vehicles ordered by id
func (db *DB) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	rows, err := db.conn.QueryContext(ctx, selectVehicles+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}

	return vehicles, rows.Err()
}

// GetVehicleByID retrieves a vehicle by ID
func (db *DB) GetVehicleByID(ctx context.Context, id int) (*models.Vehicle, error) {
	row := db.conn.QueryRowContext(ctx, selectVehicles+` WHERE id = $1`, id)
	v, err := scanVehicle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVehicle(s scanner) (models.Vehicle, error) {
	var v models.Vehicle
	var features string
	err := s.Scan(
		&v.ID, &v.Brand, &v.Model, &v.Year,
		&v.Price, &v.OriginalPrice, &v.Savings, &v.Mileage,
		&v.FuelType, &v.Location, &v.Condition, &features, &v.Image, &v.Views,
		&v.UpdatedAt,
	)
	if err != nil {
		return v, err
	}
	if features != "" {
		if err := json.Unmarshal([]byte(features), &v.Features); err != nil {
			return v, fmt.Errorf("decode features of vehicle %d: %w", v.ID, err)
		}
	}
	return v, nil
}

func encodeFeatures(features []string) (string, error) {
	if features == nil {
		return "[]", nil
	}
	b, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encode features: %w", err)
	}
	return string(b), nil
}
