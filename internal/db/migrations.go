package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'act_type') THEN
			CREATE TYPE act_type AS ENUM ('CLIENT', 'SPECIALIST');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'completion_act_status') THEN
			CREATE TYPE completion_act_status AS ENUM ('GENERATED', 'APPROVED', 'CANCELLED');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS catalog_works (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL,
		base_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		phase VARCHAR(255) NOT NULL DEFAULT '',
		section VARCHAR(255) NOT NULL DEFAULT '',
		subsection VARCHAR(255) NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS catalog_materials (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		code VARCHAR(64) NOT NULL,
		name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL,
		base_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS work_materials (
		work_id UUID NOT NULL REFERENCES catalog_works(id) ON DELETE CASCADE,
		material_id UUID NOT NULL REFERENCES catalog_materials(id),
		consumption NUMERIC(18,4) NOT NULL DEFAULT 0,
		is_required BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (work_id, material_id)
	);`,
	`CREATE TABLE IF NOT EXISTS estimates (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		tenant_id UUID NOT NULL,
		project_id UUID,
		name TEXT NOT NULL,
		estimate_type VARCHAR(64) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'DRAFT',
		description TEXT NOT NULL DEFAULT '',
		estimate_date DATE,
		currency VARCHAR(16) NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		contractor_name TEXT NOT NULL DEFAULT '',
		contract_number VARCHAR(128) NOT NULL DEFAULT '',
		object_name TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_estimates_tenant_id ON estimates (tenant_id);`,
	`CREATE TABLE IF NOT EXISTS estimate_items (
		id UUID PRIMARY KEY,
		estimate_id UUID NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		work_id UUID REFERENCES catalog_works(id),
		item_type VARCHAR(32) NOT NULL DEFAULT 'work',
		code VARCHAR(64) NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL DEFAULT '',
		quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		quantity_unset BOOLEAN NOT NULL DEFAULT FALSE,
		unit_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		phase VARCHAR(255) NOT NULL DEFAULT '',
		section VARCHAR(255) NOT NULL DEFAULT '',
		subsection VARCHAR(255) NOT NULL DEFAULT '',
		position INT NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_estimate_items_estimate_id ON estimate_items (estimate_id);`,
	`CREATE TABLE IF NOT EXISTS estimate_materials (
		id UUID PRIMARY KEY,
		estimate_item_id UUID NOT NULL REFERENCES estimate_items(id) ON DELETE CASCADE,
		material_id UUID REFERENCES catalog_materials(id),
		code VARCHAR(64) NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL DEFAULT '',
		consumption NUMERIC(18,4) NOT NULL DEFAULT 0,
		auto_calculate BOOLEAN NOT NULL DEFAULT TRUE,
		quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		unit_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		total NUMERIC(18,2) NOT NULL DEFAULT 0,
		is_required BOOLEAN NOT NULL DEFAULT FALSE,
		notes TEXT NOT NULL DEFAULT ''
	);`,
	`CREATE INDEX IF NOT EXISTS idx_estimate_materials_item_id ON estimate_materials (estimate_item_id);`,
	`CREATE TABLE IF NOT EXISTS estimate_price_baselines (
		estimate_id UUID NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		item_key TEXT NOT NULL,
		price NUMERIC(18,2) NOT NULL,
		PRIMARY KEY (estimate_id, item_key)
	);`,
	`CREATE TABLE IF NOT EXISTS completion_acts (
		id UUID PRIMARY KEY,
		tenant_id UUID NOT NULL,
		estimate_id UUID NOT NULL REFERENCES estimates(id),
		act_type act_type NOT NULL,
		act_number VARCHAR(64) NOT NULL,
		act_date DATE NOT NULL,
		period_from DATE NOT NULL,
		period_to DATE NOT NULL,
		total_amount NUMERIC(18,2) NOT NULL,
		total_quantity NUMERIC(18,4) NOT NULL,
		work_count INT NOT NULL,
		status completion_act_status NOT NULL DEFAULT 'GENERATED',
		created_by_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_completion_acts_number ON completion_acts (tenant_id, act_number);`,
	`CREATE INDEX IF NOT EXISTS idx_completion_acts_estimate_id ON completion_acts (estimate_id);`,
	`CREATE INDEX IF NOT EXISTS idx_completion_acts_type_date ON completion_acts (estimate_id, act_type, act_date);`,
	`CREATE TABLE IF NOT EXISTS act_items (
		id UUID PRIMARY KEY,
		act_id UUID NOT NULL REFERENCES completion_acts(id) ON DELETE CASCADE,
		estimate_item_id UUID NOT NULL,
		position_number INT NOT NULL,
		work_code VARCHAR(64) NOT NULL DEFAULT '',
		work_name TEXT NOT NULL,
		unit VARCHAR(32) NOT NULL DEFAULT '',
		planned_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		actual_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		unit_price NUMERIC(18,2) NOT NULL DEFAULT 0,
		total_price NUMERIC(18,2) NOT NULL DEFAULT 0
	);`,
	`CREATE INDEX IF NOT EXISTS idx_act_items_act_id ON act_items (act_id);`,
	`CREATE TABLE IF NOT EXISTS work_completions (
		estimate_id UUID NOT NULL REFERENCES estimates(id) ON DELETE CASCADE,
		estimate_item_id UUID NOT NULL REFERENCES estimate_items(id) ON DELETE CASCADE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		actual_quantity NUMERIC(18,4) NOT NULL DEFAULT 0,
		last_client_act_id UUID REFERENCES completion_acts(id) ON DELETE SET NULL,
		last_specialist_act_id UUID REFERENCES completion_acts(id) ON DELETE SET NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (estimate_id, estimate_item_id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_work_completions_client_act ON work_completions (last_client_act_id) WHERE last_client_act_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_work_completions_specialist_act ON work_completions (last_specialist_act_id) WHERE last_specialist_act_id IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
