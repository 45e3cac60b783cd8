// +build integration

package db_test

import (
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pborman/uuid"
	"github.com/spoke-d/filament/internal/db"
	"github.com/spoke-d/filament/pkg/tracker"
	"github.com/stretchr/testify/require"
)

// integrationSchema is the sqlite translation of the production DDL in
// schema.go; the two must be changed together.
const integrationSchema = `
CREATE TABLE process_manager (
    entry_id INTEGER PRIMARY KEY AUTOINCREMENT,
    pid INTEGER NOT NULL,
    ip TEXT NOT NULL,
    status TEXT,
    UNIQUE (pid, ip)
);
CREATE TABLE regions (
    region_id INTEGER PRIMARY KEY AUTOINCREMENT,
    region_name TEXT NOT NULL UNIQUE
);
CREATE TABLE storage_types (
    storage_id INTEGER PRIMARY KEY AUTOINCREMENT,
    storage_type TEXT NOT NULL UNIQUE
);
CREATE TABLE storage_details (
    detail_id INTEGER PRIMARY KEY AUTOINCREMENT,
    storage_id INTEGER NOT NULL,
    region_id INTEGER NOT NULL,
    hostname TEXT NOT NULL,
    name_key1 TEXT,
    name_key2 TEXT,
    UNIQUE (storage_id, region_id, hostname)
);
CREATE TABLE hardware_types (
    hardware_id INTEGER PRIMARY KEY AUTOINCREMENT,
    hardware_type TEXT NOT NULL UNIQUE
);
CREATE TABLE hardware (
    device_id INTEGER PRIMARY KEY AUTOINCREMENT,
    detail_id INTEGER NOT NULL,
    device_path TEXT NOT NULL,
    device_name TEXT NOT NULL,
    state TEXT,
    smart_passed BOOLEAN,
    mount_path TEXT,
    device_uuid TEXT,
    serial_number TEXT,
    hardware_type INTEGER,
    UNIQUE (detail_id, device_path, device_name)
);
CREATE TABLE operation_types (
    type_id INTEGER PRIMARY KEY AUTOINCREMENT,
    op_name TEXT NOT NULL UNIQUE
);
CREATE TABLE operations (
    operation_id INTEGER PRIMARY KEY AUTOINCREMENT,
    entry_id INTEGER NOT NULL,
    device_id INTEGER NOT NULL,
    behalf_of TEXT,
    reason TEXT,
    start_time DATETIME NOT NULL,
    snapshot_time DATETIME NOT NULL,
    done_time DATETIME
);
CREATE TABLE operation_details (
    operation_detail_id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation_id INTEGER NOT NULL,
    type_id INTEGER NOT NULL,
    status TEXT NOT NULL,
    tracking_id TEXT,
    start_time DATETIME NOT NULL,
    snapshot_time DATETIME NOT NULL,
    done_time DATETIME
);
INSERT INTO hardware_types (hardware_type) VALUES ('server'), ('disk');
INSERT INTO storage_types (storage_type) VALUES ('ceph');
INSERT INTO operation_types (op_name) VALUES
    ('diskadd'), ('diskreplace'), ('diskremove'),
    ('waiting_for_replacement'), ('evaluation');
`

func TestIntegrationDiskLifecycle(t *testing.T) {
	ledger := newIntegrationLedger(t)

	track := tracker.New(ledger, tracker.WithPid(func() int { return 4242 }))

	mapping, err := track.RegisterHost(tracker.HostInfo{
		Hostname:    "ceph-host-1",
		IP:          "10.0.0.1",
		Region:      "eu-west",
		StorageType: "ceph",
		ArrayName:   "array-0",
		PoolName:    "pool-0",
	})
	require.NoError(t, err)
	require.NotZero(t, mapping.EntryID)
	require.NotZero(t, mapping.RegionID)
	require.NotZero(t, mapping.StorageDetailID)

	// Registering again converges on the same ids.
	again, err := track.RegisterHost(tracker.HostInfo{
		Hostname:    "ceph-host-1",
		IP:          "10.0.0.1",
		Region:      "eu-west",
		StorageType: "ceph",
		ArrayName:   "array-0",
		PoolName:    "pool-0",
	})
	require.NoError(t, err)
	require.Equal(t, mapping, again)

	hw := db.Hardware{
		DetailID:   mapping.StorageDetailID,
		DevicePath: "/dev/sdb",
		DeviceName: "sdb",
		State:      db.StateGood,
		DeviceUUID: uuid.NewRandom().String(),
	}
	deviceID, err := track.ReconcileDisk(&hw)
	require.NoError(t, err)
	require.NotZero(t, deviceID)

	// Reconciling the same natural key yields the same device id.
	other := db.Hardware{
		DetailID:   mapping.StorageDetailID,
		DevicePath: "/dev/sdb",
		DeviceName: "sdb",
		State:      db.StateGood,
	}
	otherID, err := track.ReconcileDisk(&other)
	require.NoError(t, err)
	require.Equal(t, deviceID, otherID)

	op := db.OperationInfo{
		EntryID:  mapping.EntryID,
		DeviceID: deviceID,
		Reason:   "smart failure",
	}
	require.NoError(t, track.CreateOrUpdateOperation(&op))
	require.NotZero(t, op.ID)

	evaluation := db.OperationDetail{
		OperationID: op.ID,
		Type:        db.OperationEvaluation,
		Status:      db.StatusPending,
	}
	require.NoError(t, track.CreateOrUpdateOperationDetail(&evaluation))
	require.NotZero(t, evaluation.ID)

	evaluation.Status = db.StatusInProgress
	require.NoError(t, track.CreateOrUpdateOperationDetail(&evaluation))

	waiting := db.OperationDetail{
		OperationID: op.ID,
		Type:        db.OperationWaitingForReplacement,
		Status:      db.StatusInProgress,
		TrackingID:  "ABC-1234",
	}
	require.NoError(t, track.CreateOrUpdateOperationDetail(&waiting))

	require.NoError(t, track.SaveState(deviceID, db.StateWaitingForReplacement))

	state, err := track.GetState(deviceID)
	require.NoError(t, err)
	require.Equal(t, db.StateWaitingForReplacement, state)

	require.NoError(t, track.SaveSmartResult(deviceID, false))
	passed, err := track.GetSmartResult(deviceID)
	require.NoError(t, err)
	require.False(t, passed)

	tickets, err := track.OutstandingTicketsForHost(mapping.StorageDetailID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, "ABC-1234", tickets[0].TrackingID)
	require.Equal(t, "sdb", tickets[0].DeviceName)
	require.Equal(t, "/dev/sdb", tickets[0].DevicePath)

	pending, err := track.AllPendingTickets()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, deviceID, pending[0].DeviceID)

	waitingRepair, err := track.IsHardwareWaitingRepair(mapping.StorageDetailID, "sdb", "")
	require.NoError(t, err)
	require.True(t, waitingRepair)

	hostname, err := track.HostnameByDevice(deviceID)
	require.NoError(t, err)
	require.Equal(t, "ceph-host-1", hostname)

	devices, err := track.DevicesFromLedger(mapping.StorageDetailID)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	require.Equal(t, deviceID, devices[0].ID)

	require.NoError(t, track.ResolveTicket("ABC-1234"))
	require.NoError(t, track.SaveState(deviceID, db.StateGood))

	tickets, err = track.OutstandingTicketsForHost(mapping.StorageDetailID)
	require.NoError(t, err)
	require.Len(t, tickets, 0)

	require.NoError(t, track.DeregisterHost("10.0.0.1"))
}

func TestIntegrationTicketOrdering(t *testing.T) {
	ledger := newIntegrationLedger(t)

	track := tracker.New(ledger, tracker.WithPid(func() int { return 4242 }))

	mapping, err := track.RegisterHost(tracker.HostInfo{
		Hostname:    "ceph-host-1",
		IP:          "10.0.0.1",
		Region:      "eu-west",
		StorageType: "ceph",
	})
	require.NoError(t, err)

	base := time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC)

	// Filed out of chronological order; the ledger hands them back oldest
	// first.
	for _, entry := range []struct {
		name       string
		trackingID string
		offset     time.Duration
	}{
		{"sdd", "DEF-2", time.Hour},
		{"sde", "DEF-3", 2 * time.Hour},
		{"sdc", "DEF-1", 0},
	} {
		hw := db.Hardware{
			DetailID:   mapping.StorageDetailID,
			DevicePath: "/dev/" + entry.name,
			DeviceName: entry.name,
			State:      db.StateWaitingForReplacement,
		}
		deviceID, err := track.ReconcileDisk(&hw)
		require.NoError(t, err)

		op := db.OperationInfo{
			EntryID:   mapping.EntryID,
			DeviceID:  deviceID,
			StartTime: base.Add(entry.offset),
		}
		require.NoError(t, track.CreateOrUpdateOperation(&op))

		detail := db.OperationDetail{
			OperationID: op.ID,
			Type:        db.OperationWaitingForReplacement,
			Status:      db.StatusInProgress,
			TrackingID:  entry.trackingID,
		}
		require.NoError(t, track.CreateOrUpdateOperationDetail(&detail))
	}

	tickets, err := track.OutstandingTicketsForHost(mapping.StorageDetailID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	require.Equal(t, "DEF-1", tickets[0].TrackingID)
	require.Equal(t, "DEF-2", tickets[1].TrackingID)
	require.Equal(t, "DEF-3", tickets[2].TrackingID)
}

func TestIntegrationStateFallback(t *testing.T) {
	ledger := newIntegrationLedger(t)

	track := tracker.New(ledger, tracker.WithPid(func() int { return 4242 }))

	state, err := track.GetState(404)
	require.NoError(t, err)
	require.Equal(t, db.StateUnscanned, state)

	passed, err := track.GetSmartResult(404)
	require.NoError(t, err)
	require.False(t, passed)

	// A zero device id means the disk was never looked up at all.
	_, err = track.GetState(0)
	require.Error(t, err)
	_, err = track.GetSmartResult(0)
	require.Error(t, err)
}

func newIntegrationLedger(t *testing.T) *db.Ledger {
	t.Helper()

	// A single connection keeps every transaction on the same in-memory
	// database.
	ledger := db.NewLedger(db.WithMaxConns(1))
	require.NoError(t, ledger.Open("sqlite3", ":memory:"))
	t.Cleanup(func() { ledger.Close() })

	raw, err := ledger.DB().Begin()
	require.NoError(t, err)
	_, err = raw.Exec(integrationSchema)
	require.NoError(t, err)
	require.NoError(t, raw.Commit())

	return ledger
}
