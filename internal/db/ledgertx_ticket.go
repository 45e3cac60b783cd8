package db

import (
	"github.com/pkg/errors"
)

// RepairTicket is the externally visible projection of an open operation
// detail with a non-null tracking id, scoped to one host.
type RepairTicket struct {
	TrackingID string
	DeviceName string
	DevicePath string
}

// PendingTicket is the fleet-wide projection; it additionally carries the
// device id so callers can resolve the owning host.
type PendingTicket struct {
	TrackingID string
	DeviceName string
	DevicePath string
	DeviceID   int64
}

const outstandingTicketsStmt = "SELECT tracking_id, device_name, device_path FROM operation_details " +
	"JOIN operations USING (operation_id) JOIN hardware USING (device_id) WHERE " +
	"(status=$1 OR status=$2) AND " +
	"type_id=(SELECT type_id FROM operation_types WHERE op_name=$3) AND " +
	"hardware.state IN ($4, $5) AND " +
	"detail_id=$6 AND " +
	"tracking_id IS NOT NULL ORDER BY operations.start_time"

// OutstandingTickets returns the open repair tickets for the host with the
// given storage detail, oldest first. A ticket is open while its detail is
// pending or in progress and the disk is still waiting for replacement, or
// already reports good pending ticket closure.
func (l *LedgerTx) OutstandingTickets(detailID int64) ([]RepairTicket, error) {
	var tickets []RepairTicket
	dest := func(i int) []interface{} {
		tickets = append(tickets, RepairTicket{})
		return []interface{}{
			&tickets[i].TrackingID,
			&tickets[i].DeviceName,
			&tickets[i].DevicePath,
		}
	}
	err := l.query.SelectObjects(l.tx, dest, outstandingTicketsStmt,
		string(StatusInProgress),
		string(StatusPending),
		string(OperationWaitingForReplacement),
		string(StateWaitingForReplacement),
		string(StateGood),
		detailID,
	)
	return tickets, errors.Wrap(err, "failed to fetch outstanding tickets")
}

const allPendingTicketsStmt = "SELECT tracking_id, device_name, device_path, device_id FROM operation_details " +
	"JOIN operations USING (operation_id) JOIN hardware USING (device_id) WHERE " +
	"(status=$1 OR status=$2) AND " +
	"type_id=(SELECT type_id FROM operation_types WHERE op_name=$3) AND " +
	"hardware.state IN ($4, $5) AND " +
	"tracking_id IS NOT NULL ORDER BY operations.start_time"

// AllPendingTickets returns the open repair tickets across every host,
// oldest first.
func (l *LedgerTx) AllPendingTickets() ([]PendingTicket, error) {
	var tickets []PendingTicket
	dest := func(i int) []interface{} {
		tickets = append(tickets, PendingTicket{})
		return []interface{}{
			&tickets[i].TrackingID,
			&tickets[i].DeviceName,
			&tickets[i].DevicePath,
			&tickets[i].DeviceID,
		}
	}
	err := l.query.SelectObjects(l.tx, dest, allPendingTicketsStmt,
		string(StatusInProgress),
		string(StatusPending),
		string(OperationWaitingForReplacement),
		string(StateWaitingForReplacement),
		string(StateGood),
	)
	return tickets, errors.Wrap(err, "failed to fetch pending tickets")
}

// HardwareWaitingRepair reports whether any operation for the named device
// on the given storage detail is waiting for a replacement disk. When a
// serial number is supplied the check is narrowed to that device uuid.
func (l *LedgerTx) HardwareWaitingRepair(detailID int64, deviceName, serialNumber string) (bool, error) {
	stmt := "SELECT status FROM operation_details " +
		"JOIN operations USING (operation_id) " +
		"JOIN hardware USING (device_id) " +
		"WHERE device_name=$1 AND " +
		"detail_id=$2 AND " +
		"type_id=(SELECT type_id FROM operation_types WHERE op_name=$3) AND " +
		"state=$4"
	args := []interface{}{
		deviceName,
		detailID,
		string(OperationWaitingForReplacement),
		string(StateWaitingForReplacement),
	}
	if serialNumber != "" {
		stmt += " AND device_uuid=$5"
		args = append(args, serialNumber)
	}

	statuses, err := l.query.SelectStrings(l.tx, stmt, args...)
	if err != nil {
		return false, errors.WithStack(err)
	}
	return len(statuses) > 0, nil
}

// TicketResolve sets every operation detail carrying the given tracking id
// to complete. The tracking id must be known; beyond that cardinality is
// not verified, resolving a ticket closes all of its details.
func (l *LedgerTx) TicketResolve(trackingID string) error {
	n, err := l.query.Count(l.tx, "operation_details", "tracking_id=$1", trackingID)
	if err != nil {
		return errors.Wrapf(err, "failed to resolve ticket %q", trackingID)
	}
	if n == 0 {
		return errors.Wrapf(ErrNoSuchObject, "no ticket with tracking id %q", trackingID)
	}
	_, err = l.tx.Exec(
		"UPDATE operation_details SET status=$1 WHERE tracking_id=$2",
		string(StatusComplete), trackingID,
	)
	return errors.Wrapf(err, "failed to resolve ticket %q", trackingID)
}

// RegionID resolves a region id by name, returning ErrNoSuchObject when
// the region is unknown.
func (l *LedgerTx) RegionID(region string) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT region_id FROM regions WHERE region_name=$1",
		region,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, ErrNoSuchObject
	}
	return int64(ids[0]), nil
}

// StorageID resolves a storage id by type name, returning ErrNoSuchObject
// when the storage type is unknown.
func (l *LedgerTx) StorageID(storageType string) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT storage_id FROM storage_types WHERE storage_type=$1",
		storageType,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, ErrNoSuchObject
	}
	return int64(ids[0]), nil
}

// StorageDetailID resolves a storage detail id by its natural key,
// returning ErrNoSuchObject when absent.
func (l *LedgerTx) StorageDetailID(storageID, regionID int64, hostname string) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT detail_id FROM storage_details WHERE storage_id=$1 AND region_id=$2 AND hostname=$3",
		storageID, regionID, hostname,
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, ErrNoSuchObject
	}
	return int64(ids[0]), nil
}

// HostnameByDevice resolves the hostname owning the given device id,
// returning ErrNoSuchObject when the device is unknown.
func (l *LedgerTx) HostnameByDevice(deviceID int64) (string, error) {
	names, err := l.query.SelectStrings(l.tx,
		"SELECT hostname FROM storage_details JOIN hardware USING (detail_id) WHERE device_id=$1",
		deviceID,
	)
	if err != nil {
		return "", errors.WithStack(err)
	}
	if len(names) == 0 {
		return "", ErrNoSuchObject
	}
	return names[0], nil
}
