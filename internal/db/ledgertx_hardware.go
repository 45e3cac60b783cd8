package db

import (
	"github.com/pkg/errors"
)

// Hardware is the ledger's record for one physical disk, keyed naturally
// by (detail_id, device_path, device_name).
type Hardware struct {
	ID           int64 // Stable database identifier; zero when not yet known
	DetailID     int64
	DevicePath   string
	DeviceName   string
	State        DeviceState
	MountPath    string
	DeviceUUID   string
	SerialNumber string
}

// Device is the (id, name, path) projection of a hardware row.
type Device struct {
	ID   int64
	Name string
	Path string
}

// The id hardware_types deployments seed for the disk type. Used only as a
// fallback when the reference row is missing.
const defaultDiskHardwareType = 2

// HardwareTypeID resolves the reference id for the given hardware type,
// falling back to the conventional disk type id when the reference table
// has no row for it.
func (l *LedgerTx) HardwareTypeID(hardwareType string) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT hardware_id FROM hardware_types WHERE hardware_type=$1",
		hardwareType,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return defaultDiskHardwareType, nil
	}
	return int64(ids[0]), nil
}

// HardwareEnsure reconciles a locally observed disk against the hardware
// table and returns its device id, inserting the row if it is absent.
//
// When the row exists and the caller already believes it knows the device
// id, the two must agree: divergence means two processes are claiming the
// same natural key with different identities, and is reported rather than
// silently overwritten. Calling this twice for the same device converges
// on the same id.
func (l *LedgerTx) HardwareEnsure(hw *Hardware) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT device_id FROM hardware WHERE device_path=$1 AND detail_id=$2 AND device_name=$3",
		hw.DevicePath, hw.DetailID, hw.DeviceName,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	if len(ids) == 0 {
		hardwareType, err := l.HardwareTypeID("disk")
		if err != nil {
			return 0, errors.WithStack(err)
		}

		columns := []string{"detail_id", "device_path", "device_name", "state", "hardware_type"}
		values := []interface{}{hw.DetailID, hw.DevicePath, hw.DeviceName, string(hw.State), hardwareType}
		if hw.MountPath != "" {
			columns = append(columns, "mount_path")
			values = append(values, hw.MountPath)
		}
		if hw.DeviceUUID != "" {
			columns = append(columns, "device_uuid")
			values = append(values, hw.DeviceUUID)
		}
		if hw.SerialNumber != "" {
			columns = append(columns, "serial_number")
			values = append(values, hw.SerialNumber)
		}

		id, err := l.query.InsertObject(l.tx, "hardware", "device_id", columns, values)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to add device %q for storage detail %d",
				hw.DeviceName, hw.DetailID)
		}
		hw.ID = id
		return id, nil
	}

	stored := int64(ids[0])
	if hw.ID == 0 {
		hw.ID = stored
		return stored, nil
	}
	if hw.ID != stored {
		return 0, errors.Errorf("information about device %q for storage detail %d didn't match",
			hw.DeviceName, hw.DetailID)
	}
	return stored, nil
}

// DevicesByDetail returns the disks the ledger currently knows for the
// given storage detail.
func (l *LedgerTx) DevicesByDetail(detailID int64) ([]Device, error) {
	var devices []Device
	dest := func(i int) []interface{} {
		devices = append(devices, Device{})
		return []interface{}{
			&devices[i].ID,
			&devices[i].Name,
			&devices[i].Path,
		}
	}
	stmt := "SELECT device_id, device_name, device_path FROM hardware WHERE detail_id=$1 " +
		"AND hardware_type=(SELECT hardware_id FROM hardware_types WHERE hardware_type='disk')"
	err := l.query.SelectObjects(l.tx, dest, stmt, detailID)
	return devices, errors.Wrap(err, "failed to fetch devices")
}
