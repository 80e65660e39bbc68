package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'verification_status') THEN
			CREATE TYPE verification_status AS ENUM ('PENDING', 'VERIFIED', 'FLAGGED', 'REJECTED');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'anomaly_type') THEN
			CREATE TYPE anomaly_type AS ENUM ('NONE', 'ROLLBACK', 'EXCESSIVE_INCREASE', 'DUPLICATE', 'MISSED_INTERVAL');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'photo_type') THEN
			CREATE TYPE photo_type AS ENUM ('BEFORE', 'AFTER', 'DURING', 'DAMAGE', 'COMPLETION');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'alert_type') THEN
			CREATE TYPE alert_type AS ENUM ('ODOMETER_ANOMALY', 'MISSED_PMS_INTERVAL', 'MISSED_TIME_INTERVAL', 'MISSING_PHOTOS', 'MISSING_BEFORE_AFTER', 'LOCATION_MISMATCH');
		END IF;
	END
	$$;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'alert_severity') THEN
			CREATE TYPE alert_severity AS ENUM ('WARNING', 'CRITICAL');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS work_orders (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		order_number VARCHAR(32) NOT NULL UNIQUE,
		vin VARCHAR(32) NOT NULL,
		plate_number VARCHAR(32),
		branch VARCHAR(64) NOT NULL,
		description TEXT,
		current_mileage INTEGER,
		pms_interval_km INTEGER,
		time_interval_months INTEGER,
		minimum_photos_required INTEGER NOT NULL DEFAULT 0,
		requires_photo_verification BOOLEAN NOT NULL DEFAULT FALSE,
		service_latitude DOUBLE PRECISION,
		service_longitude DOUBLE PRECISION,
		has_fraud_alerts BOOLEAN NOT NULL DEFAULT FALSE,
		verification_status verification_status NOT NULL DEFAULT 'PENDING',
		odometer_verified BOOLEAN NOT NULL DEFAULT FALSE,
		location_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_by_user_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_vin ON work_orders (vin);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_branch ON work_orders (branch);`,
	`CREATE INDEX IF NOT EXISTS idx_work_orders_verification_status ON work_orders (verification_status);`,
	`CREATE TABLE IF NOT EXISTS odometer_readings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		vin VARCHAR(32) NOT NULL,
		plate_number VARCHAR(32),
		work_order_id UUID REFERENCES work_orders(id) ON DELETE SET NULL,
		branch VARCHAR(64) NOT NULL,
		reading INTEGER NOT NULL CHECK (reading >= 0),
		unit VARCHAR(8) NOT NULL DEFAULT 'km',
		reading_date TIMESTAMPTZ NOT NULL,
		previous_reading INTEGER,
		previous_reading_date TIMESTAMPTZ,
		distance_diff INTEGER,
		days_diff INTEGER,
		avg_daily_distance DOUBLE PRECISION,
		is_anomaly BOOLEAN NOT NULL DEFAULT FALSE,
		anomaly_type anomaly_type NOT NULL DEFAULT 'NONE',
		anomaly_notes TEXT,
		photo_path TEXT,
		has_photo_evidence BOOLEAN NOT NULL DEFAULT FALSE,
		recorded_by_user_id UUID NOT NULL,
		recorded_ip VARCHAR(64),
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		verified_by_user_id UUID,
		verified_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_odometer_readings_vin ON odometer_readings (vin);`,
	`CREATE INDEX IF NOT EXISTS idx_odometer_readings_vin_reading_date ON odometer_readings (vin, reading_date DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_odometer_readings_work_order_id ON odometer_readings (work_order_id);`,
	`CREATE TABLE IF NOT EXISTS work_order_photos (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		work_order_id UUID NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		file_path TEXT NOT NULL,
		original_name TEXT NOT NULL,
		file_size BIGINT NOT NULL,
		mime_type VARCHAR(64) NOT NULL,
		photo_type photo_type NOT NULL,
		gps_latitude DOUBLE PRECISION,
		gps_longitude DOUBLE PRECISION,
		captured_at TIMESTAMPTZ,
		camera_make VARCHAR(64),
		camera_model VARCHAR(64),
		has_gps_data BOOLEAN NOT NULL DEFAULT FALSE,
		has_exif_data BOOLEAN NOT NULL DEFAULT FALSE,
		uploaded_by_user_id UUID NOT NULL,
		uploaded_ip VARCHAR(64),
		user_agent TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_order_photos_work_order_id ON work_order_photos (work_order_id);`,
	`CREATE TABLE IF NOT EXISTS fraud_alerts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		work_order_id UUID NOT NULL REFERENCES work_orders(id) ON DELETE CASCADE,
		type alert_type NOT NULL,
		severity alert_severity NOT NULL DEFAULT 'WARNING',
		message TEXT NOT NULL,
		data JSONB,
		detected_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_fraud_alerts_work_order_id ON fraud_alerts (work_order_id);`,
	`CREATE INDEX IF NOT EXISTS idx_fraud_alerts_detected_at ON fraud_alerts (detected_at);`,
	`CREATE OR REPLACE FUNCTION set_updated_at()
	RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_work_orders_updated_at') THEN
			CREATE TRIGGER trg_work_orders_updated_at
				BEFORE UPDATE ON work_orders
				FOR EACH ROW
				EXECUTE PROCEDURE set_updated_at();
		END IF;
	END
	$$;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
