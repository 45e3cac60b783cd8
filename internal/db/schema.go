package db

import (
	"github.com/pkg/errors"

	"github.com/spoke-d/filament/internal/db/database"
	"github.com/spoke-d/filament/internal/db/query"
)

// freshSchema is PostgreSQL DDL and only runs against the production
// store. The integration suite keeps a sqlite translation of it; the two
// must be changed together.
const freshSchema = `
CREATE TABLE IF NOT EXISTS process_manager (
    entry_id SERIAL PRIMARY KEY,
    pid BIGINT NOT NULL,
    ip TEXT NOT NULL,
    status TEXT,
    start_time TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (pid, ip)
);
CREATE TABLE IF NOT EXISTS regions (
    region_id SERIAL PRIMARY KEY,
    region_name TEXT NOT NULL,
    UNIQUE (region_name)
);
CREATE TABLE IF NOT EXISTS storage_types (
    storage_id SERIAL PRIMARY KEY,
    storage_type TEXT NOT NULL,
    UNIQUE (storage_type)
);
CREATE TABLE IF NOT EXISTS storage_details (
    detail_id SERIAL PRIMARY KEY,
    storage_id INTEGER NOT NULL REFERENCES storage_types (storage_id),
    region_id INTEGER NOT NULL REFERENCES regions (region_id),
    hostname TEXT NOT NULL,
    name_key1 TEXT,
    name_key2 TEXT,
    UNIQUE (storage_id, region_id, hostname)
);
CREATE TABLE IF NOT EXISTS hardware_types (
    hardware_id SERIAL PRIMARY KEY,
    hardware_type TEXT NOT NULL,
    UNIQUE (hardware_type)
);
CREATE TABLE IF NOT EXISTS hardware (
    device_id SERIAL PRIMARY KEY,
    detail_id INTEGER NOT NULL REFERENCES storage_details (detail_id),
    device_path TEXT NOT NULL,
    device_name TEXT NOT NULL,
    state TEXT,
    smart_passed BOOLEAN,
    mount_path TEXT,
    device_uuid TEXT,
    serial_number TEXT,
    hardware_type INTEGER REFERENCES hardware_types (hardware_id),
    UNIQUE (detail_id, device_path, device_name)
);
CREATE TABLE IF NOT EXISTS operation_types (
    type_id SERIAL PRIMARY KEY,
    op_name TEXT NOT NULL,
    UNIQUE (op_name)
);
CREATE TABLE IF NOT EXISTS operations (
    operation_id SERIAL PRIMARY KEY,
    entry_id INTEGER NOT NULL REFERENCES process_manager (entry_id),
    device_id INTEGER NOT NULL REFERENCES hardware (device_id),
    behalf_of TEXT,
    reason TEXT,
    start_time TIMESTAMPTZ NOT NULL,
    snapshot_time TIMESTAMPTZ NOT NULL,
    done_time TIMESTAMPTZ
);
CREATE TABLE IF NOT EXISTS operation_details (
    operation_detail_id SERIAL PRIMARY KEY,
    operation_id INTEGER NOT NULL REFERENCES operations (operation_id),
    type_id INTEGER NOT NULL REFERENCES operation_types (type_id),
    status TEXT NOT NULL,
    tracking_id TEXT,
    start_time TIMESTAMPTZ NOT NULL,
    snapshot_time TIMESTAMPTZ NOT NULL,
    done_time TIMESTAMPTZ
);
`

// Reference rows the rest of the ledger assumes exist. The hardware_types
// ordering matters: deployments conventionally hold 'disk' at id 2.
var seedStmts = []struct {
	stmt string
	arg  string
}{
	{"INSERT INTO hardware_types (hardware_type) VALUES ($1) ON CONFLICT (hardware_type) DO NOTHING", "server"},
	{"INSERT INTO hardware_types (hardware_type) VALUES ($1) ON CONFLICT (hardware_type) DO NOTHING", "disk"},
	{"INSERT INTO storage_types (storage_type) VALUES ($1) ON CONFLICT (storage_type) DO NOTHING", "ceph"},
	{"INSERT INTO storage_types (storage_type) VALUES ($1) ON CONFLICT (storage_type) DO NOTHING", "sys"},
	{"INSERT INTO operation_types (op_name) VALUES ($1) ON CONFLICT (op_name) DO NOTHING", string(OperationDiskAdd)},
	{"INSERT INTO operation_types (op_name) VALUES ($1) ON CONFLICT (op_name) DO NOTHING", string(OperationDiskReplace)},
	{"INSERT INTO operation_types (op_name) VALUES ($1) ON CONFLICT (op_name) DO NOTHING", string(OperationDiskRemove)},
	{"INSERT INTO operation_types (op_name) VALUES ($1) ON CONFLICT (op_name) DO NOTHING", string(OperationWaitingForReplacement)},
	{"INSERT INTO operation_types (op_name) VALUES ($1) ON CONFLICT (op_name) DO NOTHING", string(OperationEvaluation)},
}

// EnsureSchema creates the ledger tables and seeds the reference tables.
// Safe to call on every start; existing rows are left alone.
func EnsureSchema(db database.DB) error {
	err := query.Transaction(db, func(tx database.Tx) error {
		if _, err := tx.Exec(freshSchema); err != nil {
			return errors.Wrap(err, "failed to create schema")
		}
		for _, seed := range seedStmts {
			if _, err := tx.Exec(seed.stmt, seed.arg); err != nil {
				return errors.Wrapf(err, "failed to seed reference row %q", seed.arg)
			}
		}
		return nil
	})
	return errors.WithStack(err)
}
