package query_test

import (
	"reflect"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/spoke-d/filament/internal/db/database"
	"github.com/spoke-d/filament/internal/db/query"
	"github.com/spoke-d/filament/internal/db/query/mocks"
)

func TestSelectStrings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)
	mockColumnType := mocks.NewMockColumnType(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT region_name FROM regions").Return(mockRows, nil),
		mockRows.EXPECT().ColumnTypes().Return([]database.ColumnType{mockColumnType}, nil),
		mockColumnType.EXPECT().DatabaseTypeName().Return("TEXT"),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(StringScanMatcher("eu-west")).Return(nil),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(StringScanMatcher("us-east")).Return(nil),
		mockRows.EXPECT().Next().Return(false),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	values, err := query.SelectStrings(mockTx, "SELECT region_name FROM regions")
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if expected, actual := []string{"eu-west", "us-east"}, values; !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected: %v, actual: %v", expected, actual)
	}
}

func TestSelectStringsWithWrongColumnType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)
	mockColumnType := mocks.NewMockColumnType(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT region_id FROM regions").Return(mockRows, nil),
		mockRows.EXPECT().ColumnTypes().Return([]database.ColumnType{mockColumnType}, nil),
		mockColumnType.EXPECT().DatabaseTypeName().Return("INTEGER"),
		mockRows.EXPECT().Close().Return(nil),
	)

	_, err := query.SelectStrings(mockTx, "SELECT region_id FROM regions")
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestSelectStringsWithTooManyColumns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)
	mockColumnType := mocks.NewMockColumnType(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT region_id, region_name FROM regions").Return(mockRows, nil),
		mockRows.EXPECT().ColumnTypes().Return([]database.ColumnType{
			mockColumnType,
			mockColumnType,
		}, nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	_, err := query.SelectStrings(mockTx, "SELECT region_id, region_name FROM regions")
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}

func TestSelectIntegers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)
	mockColumnType := mocks.NewMockColumnType(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT entry_id FROM process_manager WHERE ip=$1", "10.0.0.1").Return(mockRows, nil),
		mockRows.EXPECT().ColumnTypes().Return([]database.ColumnType{mockColumnType}, nil),
		mockColumnType.EXPECT().DatabaseTypeName().Return("INTEGER"),
		mockRows.EXPECT().Next().Return(true),
		mockRows.EXPECT().Scan(IntScanMatcher(4)).Return(nil),
		mockRows.EXPECT().Next().Return(false),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	values, err := query.SelectIntegers(mockTx, "SELECT entry_id FROM process_manager WHERE ip=$1", "10.0.0.1")
	if err != nil {
		t.Errorf("expected err to be nil")
	}
	if expected, actual := []int{4}, values; !reflect.DeepEqual(expected, actual) {
		t.Errorf("expected: %v, actual: %v", expected, actual)
	}
}

func TestSelectIntegersWithDriverTypeAlias(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)
	mockRows := mocks.NewMockRows(ctrl)
	mockColumnType := mocks.NewMockColumnType(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT entry_id FROM process_manager").Return(mockRows, nil),
		mockRows.EXPECT().ColumnTypes().Return([]database.ColumnType{mockColumnType}, nil),
		mockColumnType.EXPECT().DatabaseTypeName().Return("BIGINTEGER"),
		mockRows.EXPECT().Next().Return(false),
		mockRows.EXPECT().Err().Return(nil),
		mockRows.EXPECT().Close().Return(nil),
	)

	_, err := query.SelectIntegers(mockTx, "SELECT entry_id FROM process_manager")
	if err != nil {
		t.Errorf("expected err to be nil")
	}
}

func TestSelectIntegersWithQueryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTx := mocks.NewMockTx(ctrl)

	gomock.InOrder(
		mockTx.EXPECT().Query("SELECT entry_id FROM process_manager").Return(nil, errors.New("bad")),
	)

	_, err := query.SelectIntegers(mockTx, "SELECT entry_id FROM process_manager")
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}
