package query_test

import (
	"reflect"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/db/query"
	"github.com/spoke-d/filament/internal/db/query/mocks"
)

func TestSelectObjects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT region_id, region_name FROM regions").Return(mockRows, nil),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(Int64ScanMatcher(1), StringScanMatcher("eu-west")).Return(nil),
		mockRows.EXPECT().Next().Return(false),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	type region struct {
		ID   int64
		Name string
	}
	var regions []region
	dest := func(i int) []interface{} {
		regions = append(regions, region{})
		return []interface{}{
			&regions[i].ID,
			&regions[i].Name,
		}
	}

	err := query.SelectObjects(mockTx, dest, "SELECT region_id, region_name FROM regions")
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if expected, actual := []region{{ID: 1, Name: "eu-west"}}, regions; !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected: %v, actual: %v", expected, actual)
	}
}

func TestSelectObjectsWithScanFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT region_id FROM regions").Return(mockRows, nil),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(gomock.Any()).Return(errors.New("bad")),
		mockRows.EXPECT().Close().Return(nil),
	)

	var ids []int64
	dest := func(i int) []interface{} {
		ids = append(ids, 0)
		return []interface{}{
			&ids[i],
		}
	}

	err := query.SelectObjects(mockTx, dest, "SELECT region_id FROM regions")
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestInsertObject(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query(
			"INSERT INTO regions (region_name) VALUES ($1) RETURNING region_id",
			"eu-west",
		).Return(mockRows, nil),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(Int64ScanMatcher(3)).Return(nil),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	id, err := query.InsertObject(mockTx, "regions", "region_id",
		[]string{"region_name"},
		[]interface{}{"eu-west"},
	)
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if expected, actual := int64(3), id; expected != actual {
		t.Errorf("expected: %d, actual: %d", expected, actual)
	}
}

func TestInsertObjectWithOptionalColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query(
			"INSERT INTO storage_details (storage_id, region_id, hostname, name_key1) VALUES ($1, $2, $3, $4) RETURNING detail_id",
			1, 2, "ceph-host-1", "array-0",
		).Return(mockRows, nil),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(Int64ScanMatcher(7)).Return(nil),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	id, err := query.InsertObject(mockTx, "storage_details", "detail_id",
		[]string{"storage_id", "region_id", "hostname", "name_key1"},
		[]interface{}{1, 2, "ceph-host-1", "array-0"},
	)
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if expected, actual := int64(7), id; expected != actual {
		t.Errorf("expected: %d, actual: %d", expected, actual)
	}
}

func TestInsertObjectWithNoColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	_, err := query.InsertObject(mockTx, "regions", "region_id", nil, nil)
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestInsertObjectWithMismatchedColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	_, err := query.InsertObject(mockTx, "regions", "region_id",
		[]string{"region_name"},
		[]interface{}{"eu-west", "us-east"},
	)
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestInsertObjectWithNoReturnedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query(
			"INSERT INTO regions (region_name) VALUES ($1) RETURNING region_id",
			"eu-west",
		).Return(mockRows, nil),
		mockRows.EXPECT().Next().Return(false),
		mockRows.EXPECT().Close().Return(nil),
	)

	_, err := query.InsertObject(mockTx, "regions", "region_id",
		[]string{"region_name"},
		[]interface{}{"eu-west"},
	)
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestParams(t *testing.T) {
	for expected, actual := range map[string]string{
		"($1)":         query.Params(1),
		"($1, $2)":     query.Params(2),
		"($1, $2, $3)": query.Params(3),
	} {
		if expected != actual {
			t.Errorf("expected: %s, actual: %s", expected, actual)
		}
	}
}
