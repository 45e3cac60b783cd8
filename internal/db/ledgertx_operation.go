package db

import (
	"time"

	"github.com/pkg/errors"
)

// OperationInfo holds information about a single tracked disk-affecting
// action. After creation only the snapshot and done times move; identity
// fields are immutable, keeping the operations table an append-mostly
// audit trail.
type OperationInfo struct {
	ID           int64 // Stable database identifier; zero before creation
	EntryID      int64 // Process entry that owns this operation
	DeviceID     int64
	BehalfOf     string
	Reason       string
	StartTime    time.Time
	SnapshotTime time.Time
	DoneTime     *time.Time
}

// OperationDetail is a ticket-worthy sub-phase of an operation, e.g. an
// evaluation or the wait for a replacement disk.
type OperationDetail struct {
	ID           int64 // Stable database identifier; zero before creation
	OperationID  int64
	Type         OperationType
	Status       OperationStatus
	TrackingID   string
	StartTime    time.Time
	SnapshotTime time.Time
	DoneTime     *time.Time
}

// OperationAdd inserts a new operations row and captures the returned id
// into op. A valid process entry id is mandatory at creation.
func (l *LedgerTx) OperationAdd(op *OperationInfo) error {
	if op.EntryID == 0 {
		return errors.Errorf("a process tracking id is required and is missing")
	}

	columns := []string{"entry_id", "device_id", "start_time", "snapshot_time"}
	values := []interface{}{op.EntryID, op.DeviceID, op.StartTime, op.SnapshotTime}
	if op.BehalfOf != "" {
		columns = append(columns, "behalf_of")
		values = append(values, op.BehalfOf)
	}
	if op.Reason != "" {
		columns = append(columns, "reason")
		values = append(values, op.Reason)
	}

	id, err := l.query.InsertObject(l.tx, "operations", "operation_id", columns, values)
	if err != nil {
		return errors.Wrap(err, "failed to insert operation")
	}
	op.ID = id
	return nil
}

// OperationUpdate updates an existing operations row. Only snapshot_time
// and, when set, done_time are mutable. The update is best-effort: a
// statement that matches no rows is not an error.
func (l *LedgerTx) OperationUpdate(op *OperationInfo) error {
	if op.ID == 0 {
		return errors.Errorf("operation id is required and is missing")
	}

	if op.DoneTime != nil {
		_, err := l.tx.Exec(
			"UPDATE operations SET snapshot_time=$1, done_time=$2 WHERE operation_id=$3",
			op.SnapshotTime, *op.DoneTime, op.ID,
		)
		return errors.WithStack(err)
	}
	_, err := l.tx.Exec(
		"UPDATE operations SET snapshot_time=$1 WHERE operation_id=$2",
		op.SnapshotTime, op.ID,
	)
	return errors.WithStack(err)
}

// OperationTypeID resolves the reference id for the given operation type.
// Resolution must yield exactly one row: zero means the type is unknown,
// more than one means the reference table is corrupt.
func (l *LedgerTx) OperationTypeID(opType OperationType) (int64, error) {
	ids, err := l.query.SelectIntegers(l.tx,
		"SELECT type_id FROM operation_types WHERE op_name=$1",
		string(opType),
	)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	if len(ids) == 0 {
		return 0, errors.Errorf("no record in database for operation %q", opType)
	}
	if len(ids) > 1 {
		return 0, errors.Errorf("more than one record found in database for operation %q", opType)
	}
	return int64(ids[0]), nil
}

// OperationDetailAdd inserts a new operation_details row and captures the
// returned id into detail.
func (l *LedgerTx) OperationDetailAdd(detail *OperationDetail) error {
	typeID, err := l.OperationTypeID(detail.Type)
	if err != nil {
		return errors.WithStack(err)
	}

	columns := []string{"operation_id", "type_id", "status", "start_time", "snapshot_time"}
	values := []interface{}{detail.OperationID, typeID, string(detail.Status), detail.StartTime, detail.SnapshotTime}
	if detail.TrackingID != "" {
		columns = append(columns, "tracking_id")
		values = append(values, detail.TrackingID)
	}
	if detail.DoneTime != nil {
		columns = append(columns, "done_time")
		values = append(values, *detail.DoneTime)
	}

	id, err := l.query.InsertObject(l.tx, "operation_details", "operation_detail_id", columns, values)
	if err != nil {
		return errors.Wrap(err, "failed to insert operation detail")
	}
	detail.ID = id
	return nil
}

// OperationDetailUpdate updates an existing operation_details row. The
// snapshot time and status always move; tracking id and done time only
// when present. Best-effort, as for OperationUpdate.
func (l *LedgerTx) OperationDetailUpdate(detail *OperationDetail) error {
	if detail.ID == 0 {
		return errors.Errorf("operation detail id is required and is missing")
	}

	stmt := "UPDATE operation_details SET snapshot_time=$1, status=$2"
	args := []interface{}{detail.SnapshotTime, string(detail.Status)}
	n := 2
	if detail.TrackingID != "" {
		n++
		stmt += ", tracking_id=" + param(n)
		args = append(args, detail.TrackingID)
	}
	if detail.DoneTime != nil {
		n++
		stmt += ", done_time=" + param(n)
		args = append(args, *detail.DoneTime)
	}
	n++
	stmt += " WHERE operation_detail_id=" + param(n)
	args = append(args, detail.ID)

	_, err := l.tx.Exec(stmt, args...)
	return errors.WithStack(err)
}
