package query_test

import (
	"database/sql"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/db/database"
	"github.com/spoke-d/filament/internal/db/query"
	"github.com/spoke-d/filament/internal/db/query/mocks"
)

func TestTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDB(ctrl)
	mockTx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().Begin().Return(mockTx, nil),
		mockTx.EXPECT().Commit().Return(nil),
	)

	called := false
	err := query.Transaction(mockDB, func(tx database.Tx) error {
		called = true
		return nil
	})
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if !called {
		t.Errorf("expected function to be called")
	}
}

func TestTransactionWithFunctionFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDB(ctrl)
	mockTx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().Begin().Return(mockTx, nil),
		mockTx.EXPECT().Rollback().Return(nil),
	)

	err := query.Transaction(mockDB, func(tx database.Tx) error {
		return errors.New("bad")
	})
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
	if expected, actual := "bad", errors.Cause(err).Error(); expected != actual {
		t.Errorf("expected: %s, actual: %s", expected, actual)
	}
}

func TestTransactionWithBeginFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDB(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().Begin().Return(nil, errors.New("bad")),
	)

	err := query.Transaction(mockDB, func(tx database.Tx) error {
		t.Errorf("expected function not to be called")
		return nil
	})
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestTransactionWithDoneCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDB(ctrl)
	mockTx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().Begin().Return(mockTx, nil),
		mockTx.EXPECT().Commit().Return(sql.ErrTxDone),
	)

	err := query.Transaction(mockDB, func(tx database.Tx) error {
		return nil
	})
	if err != nil {
		t.Errorf("expected err to be nil")
	}
}

func TestTransactionWithRollbackFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB := mocks.NewMockDB(ctrl)
	mockTx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		mockDB.EXPECT().Begin().Return(mockTx, nil),
		mockTx.EXPECT().Rollback().Return(errors.New("worse")),
	)

	err := query.Transaction(mockDB, func(tx database.Tx) error {
		return errors.New("bad")
	})
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}
