package db

import (
	"github.com/pkg/errors"
)

// ProcessEntryEnsure resolves or creates the process_manager row for the
// given (pid, ip) pair and returns its entry id. A hit resets the entry
// status to idle rather than duplicating the row, so re-registration after
// a restart converges on the same entry.
func (l *LedgerTx) ProcessEntryEnsure(pid int64, ip string) (int64, error) {
	stmt := "SELECT entry_id FROM process_manager WHERE pid=$1 AND ip=$2"
	ids, err := l.query.SelectIntegers(l.tx, stmt, pid, ip)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) > 0 {
		if _, err := l.tx.Exec(
			"UPDATE process_manager SET status='idle' WHERE pid=$1 AND ip=$2",
			pid, ip,
		); err != nil {
			return 0, errors.WithStack(err)
		}
		return int64(ids[0]), nil
	}

	id, err := l.query.InsertObject(l.tx, "process_manager", "entry_id",
		[]string{"pid", "ip", "status"},
		[]interface{}{pid, ip, "idle"},
	)
	if err != nil {
		// The (pid, ip) pair is unique; a concurrent caller may have won
		// the insert race. Re-read before giving up.
		ids, rerr := l.query.SelectIntegers(l.tx, stmt, pid, ip)
		if rerr == nil && len(ids) > 0 {
			return int64(ids[0]), nil
		}
		return 0, errors.Wrap(err, "failed to register process entry")
	}
	return id, nil
}

// ProcessEntryDelete removes the process_manager row for the given
// (pid, ip) pair. Used on daemon shutdown to deregister the process.
func (l *LedgerTx) ProcessEntryDelete(pid int64, ip string) error {
	_, err := l.tx.Exec("DELETE FROM process_manager WHERE pid=$1 AND ip=$2", pid, ip)
	return errors.WithStack(err)
}

// RegionEnsure resolves or creates the region with the given name and
// returns its id.
func (l *LedgerTx) RegionEnsure(region string) (int64, error) {
	stmt := "SELECT region_id FROM regions WHERE region_name=$1"
	ids, err := l.query.SelectIntegers(l.tx, stmt, region)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) > 0 {
		return int64(ids[0]), nil
	}

	id, err := l.query.InsertObject(l.tx, "regions", "region_id",
		[]string{"region_name"},
		[]interface{}{region},
	)
	if err != nil {
		// Concurrent insert on a brand-new region name; the unique
		// constraint on region_name means re-reading is safe.
		ids, rerr := l.query.SelectIntegers(l.tx, stmt, region)
		if rerr == nil && len(ids) > 0 {
			return int64(ids[0]), nil
		}
		return 0, errors.Wrapf(err, "failed to add region %q", region)
	}
	return id, nil
}

// StorageTypeID resolves the id of the given storage type. Storage types
// are a read-only reference table; an unknown type is an error, never an
// insert.
func (l *LedgerTx) StorageTypeID(storageType string) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT storage_id FROM storage_types WHERE storage_type=$1",
		storageType,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, errors.Wrapf(ErrNoSuchObject, "storage type %q not in database", storageType)
	}
	return int64(ids[0]), nil
}

// StorageDetailEnsure resolves or creates the storage detail row for the
// given (storage, region, hostname) triple. The optional array and pool
// name keys are included in the insert only when present.
func (l *LedgerTx) StorageDetailEnsure(storageID, regionID int64, hostname, arrayName, poolName string) (int64, error) {
	stmt := "SELECT detail_id FROM storage_details WHERE storage_id=$1 AND region_id=$2 AND hostname=$3"
	ids, err := l.query.SelectIntegers(l.tx, stmt, storageID, regionID, hostname)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) > 0 {
		return int64(ids[0]), nil
	}

	columns := []string{"storage_id", "region_id", "hostname"}
	values := []interface{}{storageID, regionID, hostname}
	if arrayName != "" {
		columns = append(columns, "name_key1")
		values = append(values, arrayName)
	}
	if poolName != "" {
		columns = append(columns, "name_key2")
		values = append(values, poolName)
	}

	id, err := l.query.InsertObject(l.tx, "storage_details", "detail_id", columns, values)
	if err != nil {
		ids, rerr := l.query.SelectIntegers(l.tx, stmt, storageID, regionID, hostname)
		if rerr == nil && len(ids) > 0 {
			return int64(ids[0]), nil
		}
		return 0, errors.Wrapf(err, "failed to add storage details for host %q", hostname)
	}
	return id, nil
}
