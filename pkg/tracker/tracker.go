package tracker

import (
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/spoke-d/filament/internal/clock"
	"github.com/spoke-d/filament/internal/db"
)

// HostInfo describes the host a tracking process runs on, as discovered
// from local configuration and the environment.
type HostInfo struct {
	Hostname    string
	IP          string
	Region      string
	StorageType string
	ArrayName   string
	PoolName    string
}

// HostDetailsMapping ties a registered process to the ledger rows that
// represent its host. All subsequent tracker calls for this host key off
// these ids.
type HostDetailsMapping struct {
	EntryID         int64
	RegionID        int64
	StorageDetailID int64
}

// Tracker is the high-level interface to the disk lifecycle ledger. Each
// method runs in its own transaction; multi-step sequences that must be
// atomic are composed inside a single one.
type Tracker struct {
	ledger db.LedgerTransactioner
	logger log.Logger
	clock  clock.Clock
	pid    func() int
}

// New creates a Tracker over the given ledger.
func New(ledger db.LedgerTransactioner, options ...Option) *Tracker {
	opts := newOptions()
	for _, option := range options {
		option(opts)
	}
	return &Tracker{
		ledger: ledger,
		logger: opts.logger,
		clock:  opts.clock,
		pid:    opts.pid,
	}
}

// RegisterHost records the calling process and its host in the ledger and
// returns the resulting id mapping. The whole registration is one
// transaction; if any resolved id comes back zero the transaction is
// rolled back and an error naming the host is returned.
func (t *Tracker) RegisterHost(info HostInfo) (HostDetailsMapping, error) {
	var mapping HostDetailsMapping
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		entryID, err := tx.ProcessEntryEnsure(int64(t.pid()), info.IP)
		if err != nil {
			return errors.WithStack(err)
		}
		regionID, err := tx.RegionEnsure(info.Region)
		if err != nil {
			return errors.WithStack(err)
		}
		storageID, err := tx.StorageTypeID(info.StorageType)
		if err != nil {
			return errors.WithStack(err)
		}
		detailID, err := tx.StorageDetailEnsure(storageID, regionID, info.Hostname, info.ArrayName, info.PoolName)
		if err != nil {
			return errors.WithStack(err)
		}

		if entryID == 0 || regionID == 0 || detailID == 0 {
			return errors.Errorf("failed to register host %q, some ids resolved to zero", info.Hostname)
		}

		mapping = HostDetailsMapping{
			EntryID:         entryID,
			RegionID:        regionID,
			StorageDetailID: detailID,
		}
		return nil
	})
	if err != nil {
		return HostDetailsMapping{}, errors.WithStack(err)
	}

	level.Debug(t.logger).Log("msg", "registered host",
		"hostname", info.Hostname,
		"entry-id", mapping.EntryID,
		"detail-id", mapping.StorageDetailID,
	)
	return mapping, nil
}

// DeregisterHost removes the calling process from the ledger. Called on
// shutdown; the host's storage detail and hardware rows are left intact.
func (t *Tracker) DeregisterHost(ip string) error {
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.ProcessEntryDelete(int64(t.pid()), ip)
	})
}

// ReconcileDisk reconciles a locally observed disk against the ledger and
// returns its device id, creating the record when the disk is new.
func (t *Tracker) ReconcileDisk(hw *db.Hardware) (int64, error) {
	var deviceID int64
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		id, err := tx.HardwareEnsure(hw)
		if err != nil {
			return errors.WithStack(err)
		}
		deviceID = id
		return nil
	})
	return deviceID, errors.WithStack(err)
}

// CreateOrUpdateOperation inserts a new operation, or refreshes the
// snapshot time of an existing one when op already carries an id. The
// snapshot time is stamped here; the start time only when creating and
// not supplied by the caller.
func (t *Tracker) CreateOrUpdateOperation(op *db.OperationInfo) error {
	now := t.clock.UTC()
	op.SnapshotTime = now

	if op.ID != 0 {
		return t.ledger.Transaction(func(tx *db.LedgerTx) error {
			return tx.OperationUpdate(op)
		})
	}

	if op.StartTime.IsZero() {
		op.StartTime = now
	}
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.OperationAdd(op)
	})
}

// CreateOrUpdateOperationDetail inserts a new operation detail, or
// refreshes an existing one when detail already carries an id.
func (t *Tracker) CreateOrUpdateOperationDetail(detail *db.OperationDetail) error {
	now := t.clock.UTC()
	detail.SnapshotTime = now

	if detail.ID != 0 {
		return t.ledger.Transaction(func(tx *db.LedgerTx) error {
			return tx.OperationDetailUpdate(detail)
		})
	}

	if detail.StartTime.IsZero() {
		detail.StartTime = now
	}
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.OperationDetailAdd(detail)
	})
}

// SaveState persists the lifecycle state for the given device.
func (t *Tracker) SaveState(deviceID int64, state db.DeviceState) error {
	level.Debug(t.logger).Log("msg", "saving state", "device-id", deviceID, "state", state)
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.StateSave(deviceID, state)
	})
}

// GetState retrieves the lifecycle state for the given device, reporting
// devices without a usable record as unscanned.
func (t *Tracker) GetState(deviceID int64) (db.DeviceState, error) {
	state := db.StateUnscanned
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		s, err := tx.State(deviceID)
		if err != nil {
			return errors.WithStack(err)
		}
		state = s
		return nil
	})
	return state, errors.WithStack(err)
}

// SaveSmartResult persists the latest SMART pass/fail result for the
// given device.
func (t *Tracker) SaveSmartResult(deviceID int64, passed bool) error {
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.SmartResultSave(deviceID, passed)
	})
}

// GetSmartResult retrieves whether the last SMART check passed for the
// given device, defaulting to false when no result is recorded.
func (t *Tracker) GetSmartResult(deviceID int64) (bool, error) {
	var passed bool
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		p, err := tx.SmartResult(deviceID)
		if err != nil {
			return errors.WithStack(err)
		}
		passed = p
		return nil
	})
	return passed, errors.WithStack(err)
}

// OutstandingTicketsForHost returns the open repair tickets for the host
// with the given storage detail, oldest first.
func (t *Tracker) OutstandingTicketsForHost(detailID int64) ([]db.RepairTicket, error) {
	var tickets []db.RepairTicket
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		ts, err := tx.OutstandingTickets(detailID)
		if err != nil {
			return errors.WithStack(err)
		}
		tickets = ts
		return nil
	})
	return tickets, errors.WithStack(err)
}

// AllPendingTickets returns the open repair tickets across every host,
// oldest first.
func (t *Tracker) AllPendingTickets() ([]db.PendingTicket, error) {
	var tickets []db.PendingTicket
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		ts, err := tx.AllPendingTickets()
		if err != nil {
			return errors.WithStack(err)
		}
		tickets = ts
		return nil
	})
	return tickets, errors.WithStack(err)
}

// IsHardwareWaitingRepair reports whether the named device on the given
// storage detail is waiting for a replacement disk.
func (t *Tracker) IsHardwareWaitingRepair(detailID int64, deviceName, serialNumber string) (bool, error) {
	var waiting bool
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		w, err := tx.HardwareWaitingRepair(detailID, deviceName, serialNumber)
		if err != nil {
			return errors.WithStack(err)
		}
		waiting = w
		return nil
	})
	return waiting, errors.WithStack(err)
}

// ResolveTicket marks every operation detail carrying the given tracking
// id as complete.
func (t *Tracker) ResolveTicket(trackingID string) error {
	level.Debug(t.logger).Log("msg", "resolving ticket", "tracking-id", trackingID)
	return t.ledger.Transaction(func(tx *db.LedgerTx) error {
		return tx.TicketResolve(trackingID)
	})
}

// DevicesFromLedger returns the disks the ledger currently knows for the
// given storage detail.
func (t *Tracker) DevicesFromLedger(detailID int64) ([]db.Device, error) {
	var devices []db.Device
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		ds, err := tx.DevicesByDetail(detailID)
		if err != nil {
			return errors.WithStack(err)
		}
		devices = ds
		return nil
	})
	return devices, errors.WithStack(err)
}

// RegionID resolves a region id by name.
func (t *Tracker) RegionID(region string) (int64, error) {
	var id int64
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		i, err := tx.RegionID(region)
		if err != nil {
			return errors.WithStack(err)
		}
		id = i
		return nil
	})
	return id, errors.WithStack(err)
}

// StorageID resolves a storage id by type name.
func (t *Tracker) StorageID(storageType string) (int64, error) {
	var id int64
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		i, err := tx.StorageID(storageType)
		if err != nil {
			return errors.WithStack(err)
		}
		id = i
		return nil
	})
	return id, errors.WithStack(err)
}

// StorageDetailID resolves a storage detail id by its natural key.
func (t *Tracker) StorageDetailID(storageID, regionID int64, hostname string) (int64, error) {
	var id int64
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		i, err := tx.StorageDetailID(storageID, regionID, hostname)
		if err != nil {
			return errors.WithStack(err)
		}
		id = i
		return nil
	})
	return id, errors.WithStack(err)
}

// HostnameByDevice resolves the hostname owning the given device id.
func (t *Tracker) HostnameByDevice(deviceID int64) (string, error) {
	var hostname string
	err := t.ledger.Transaction(func(tx *db.LedgerTx) error {
		h, err := tx.HostnameByDevice(deviceID)
		if err != nil {
			return errors.WithStack(err)
		}
		hostname = h
		return nil
	})
	return hostname, errors.WithStack(err)
}
