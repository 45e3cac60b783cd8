package db

import (
	"github.com/pkg/errors"
)

// OperationType identifies the kind of a tracked disk-affecting action, or
// of one of its sub-phases.
type OperationType string

const (
	// OperationDiskAdd tracks the addition of a disk to a host.
	OperationDiskAdd OperationType = "diskadd"

	// OperationDiskReplace tracks the replacement of a failed disk.
	OperationDiskReplace OperationType = "diskreplace"

	// OperationDiskRemove tracks the removal of a disk from a host.
	OperationDiskRemove OperationType = "diskremove"

	// OperationWaitingForReplacement tracks the sub-phase where a ticket
	// has been raised and the disk awaits its replacement.
	OperationWaitingForReplacement OperationType = "waiting_for_replacement"

	// OperationEvaluation tracks the diagnostic sub-phase of an operation.
	OperationEvaluation OperationType = "evaluation"
)

// ParseOperationType converts a stored token back to an OperationType.
func ParseOperationType(s string) (OperationType, error) {
	switch t := OperationType(s); t {
	case OperationDiskAdd, OperationDiskReplace, OperationDiskRemove,
		OperationWaitingForReplacement, OperationEvaluation:
		return t, nil
	}
	return "", errors.Errorf("unknown operation type %q", s)
}

// OperationStatus describes the progress of an operation detail. The
// conventional order is pending, in_progress, complete, but the store does
// not enforce transitions.
type OperationStatus string

const (
	// StatusPending indicates the detail has been recorded but not started.
	StatusPending OperationStatus = "pending"

	// StatusInProgress indicates the detail is being worked on.
	StatusInProgress OperationStatus = "in_progress"

	// StatusComplete indicates the detail is finished.
	StatusComplete OperationStatus = "complete"
)

// ParseOperationStatus converts a stored token back to an OperationStatus.
func ParseOperationStatus(s string) (OperationStatus, error) {
	switch t := OperationStatus(s); t {
	case StatusPending, StatusInProgress, StatusComplete:
		return t, nil
	}
	return "", errors.Errorf("unknown operation status %q", s)
}

// DeviceState is the lifecycle state of a disk as recorded in the hardware
// table.
type DeviceState string

const (
	// StateUnscanned is the zero state for a disk the scanner has not yet
	// looked at. It is also the fallback for any stored value that can not
	// be parsed.
	StateUnscanned DeviceState = "unscanned"

	// StateNotMounted marks a disk without a mount point.
	StateNotMounted DeviceState = "not_mounted"

	// StateGood marks a healthy disk.
	StateGood DeviceState = "good"

	// StateFail marks a disk that failed its checks.
	StateFail DeviceState = "fail"

	// StateWaitingForReplacement marks a disk with an open repair ticket.
	StateWaitingForReplacement DeviceState = "waiting_for_replacement"

	// StateReplacedFailed marks a disk whose replacement attempt failed.
	StateReplacedFailed DeviceState = "replaced_failed"

	// StateRepaired marks a disk that has been repaired.
	StateRepaired DeviceState = "repaired"

	// StateMountedForRepair marks a disk mounted for a repair attempt.
	StateMountedForRepair DeviceState = "mounted_for_repair"

	// StateRepairedFailed marks a disk whose repair attempt failed.
	StateRepairedFailed DeviceState = "repaired_failed"
)

// ParseDeviceState converts a stored token to a DeviceState. Unrecognized
// or absent values yield StateUnscanned; a disk the ledger can not place in
// the lifecycle is treated as never scanned, never as an error.
func ParseDeviceState(s string) DeviceState {
	switch t := DeviceState(s); t {
	case StateUnscanned, StateNotMounted, StateGood, StateFail,
		StateWaitingForReplacement, StateReplacedFailed, StateRepaired,
		StateMountedForRepair, StateRepairedFailed:
		return t
	}
	return StateUnscanned
}
