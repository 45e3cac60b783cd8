package db

import (
	"github.com/pkg/errors"
)

// StateSave persists the lifecycle state for the given device. Exactly one
// row must be affected; anything else means the predicate went wrong, the
// enclosing transaction is failed (and therefore rolled back) rather than
// silently touching multiple hardware rows.
func (l *LedgerTx) StateSave(deviceID int64, state DeviceState) error {
	if deviceID == 0 {
		return errors.Errorf("cannot save state %q, device is not in the database", state)
	}
	result, err := l.tx.Exec(
		"UPDATE hardware SET state=$1 WHERE device_id=$2",
		string(state), deviceID,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n != 1 {
		return errors.Errorf("state update for device %d affected %d rows instead of 1, rolling back", deviceID, n)
	}
	return nil
}

// SmartResultSave persists the latest SMART pass/fail result for the given
// device, guarded by the same row-count check as StateSave.
func (l *LedgerTx) SmartResultSave(deviceID int64, passed bool) error {
	if deviceID == 0 {
		return errors.Errorf("cannot save smart result, device is not in the database")
	}
	result, err := l.tx.Exec(
		"UPDATE hardware SET smart_passed=$1 WHERE device_id=$2",
		passed, deviceID,
	)
	if err != nil {
		return errors.WithStack(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if n != 1 {
		return errors.Errorf("smart result update for device %d affected %d rows instead of 1, rolling back", deviceID, n)
	}
	return nil
}

// State retrieves the lifecycle state stored for the given device. A zero
// device id means the caller never looked the disk up and is an error.
// When the row is missing, or the stored value does not parse, the device
// is reported as unscanned; otherwise only transport failures error.
func (l *LedgerTx) State(deviceID int64) (DeviceState, error) {
	if deviceID == 0 {
		return StateUnscanned, errors.Errorf("cannot get state, device is not in the database")
	}
	states, err := l.query.SelectStrings(l.tx,
		"SELECT state FROM hardware WHERE device_id=$1",
		deviceID,
	)
	if err != nil {
		return StateUnscanned, errors.WithStack(err)
	}
	if len(states) != 1 {
		// No usable record; must be a new disk.
		return StateUnscanned, nil
	}
	return ParseDeviceState(states[0]), nil
}

// SmartResult retrieves whether the last SMART check passed for the given
// device, defaulting to false when no usable record exists. As with State,
// a zero device id is an error.
func (l *LedgerTx) SmartResult(deviceID int64) (bool, error) {
	if deviceID == 0 {
		return false, errors.Errorf("cannot get smart result, device is not in the database")
	}
	var passed []bool
	dest := func(i int) []interface{} {
		passed = append(passed, false)
		return []interface{}{
			&passed[i],
		}
	}
	err := l.query.SelectObjects(l.tx, dest,
		"SELECT smart_passed FROM hardware WHERE device_id=$1 AND smart_passed IS NOT NULL",
		deviceID,
	)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if len(passed) != 1 {
		return false, nil
	}
	return passed[0], nil
}
