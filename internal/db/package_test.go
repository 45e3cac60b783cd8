package db_test

import (
	"fmt"
	"reflect"

	"github.com/golang/mock/gomock"
	"github.com/spoke-d/filament/internal/db"
)

//go:generate mockgen -package mocks -destination mocks/db_mock.go github.com/spoke-d/filament/internal/db/database DB,Tx,Rows,ColumnType
//go:generate mockgen -package mocks -destination mocks/query_mock.go github.com/spoke-d/filament/internal/db Query,Transaction
//go:generate mockgen -package mocks -destination mocks/clock_mock.go github.com/spoke-d/filament/internal/clock Clock
//go:generate mockgen -package mocks -destination mocks/result_mock.go database/sql Result

type ticketDestSelectObjectsMatcher struct {
	x []db.RepairTicket
}

func TicketDestSelectObjectsMatcher(v []db.RepairTicket) gomock.Matcher {
	return ticketDestSelectObjectsMatcher{
		x: v,
	}
}

func (m ticketDestSelectObjectsMatcher) Matches(x interface{}) bool {
	ref := reflect.ValueOf(x)
	for i, v := range m.x {
		values := ref.Call([]reflect.Value{
			reflect.ValueOf(i),
		})
		if num := len(values); num != 1 {
			panic(fmt.Sprintf("expected 1 values got %d", num))
		}
		slice := values[0]
		if num := slice.Len(); num != 3 {
			panic(fmt.Sprintf("expected 3 values got %d", num))
		}
		slice.Index(0).Elem().Elem().SetString(v.TrackingID)
		slice.Index(1).Elem().Elem().SetString(v.DeviceName)
		slice.Index(2).Elem().Elem().SetString(v.DevicePath)
	}
	return true
}

func (m ticketDestSelectObjectsMatcher) String() string {
	return fmt.Sprintf("%v", m.x)
}

type pendingTicketDestSelectObjectsMatcher struct {
	x []db.PendingTicket
}

func PendingTicketDestSelectObjectsMatcher(v []db.PendingTicket) gomock.Matcher {
	return pendingTicketDestSelectObjectsMatcher{
		x: v,
	}
}

func (m pendingTicketDestSelectObjectsMatcher) Matches(x interface{}) bool {
	ref := reflect.ValueOf(x)
	for i, v := range m.x {
		values := ref.Call([]reflect.Value{
			reflect.ValueOf(i),
		})
		if num := len(values); num != 1 {
			panic(fmt.Sprintf("expected 1 values got %d", num))
		}
		slice := values[0]
		if num := slice.Len(); num != 4 {
			panic(fmt.Sprintf("expected 4 values got %d", num))
		}
		slice.Index(0).Elem().Elem().SetString(v.TrackingID)
		slice.Index(1).Elem().Elem().SetString(v.DeviceName)
		slice.Index(2).Elem().Elem().SetString(v.DevicePath)
		slice.Index(3).Elem().Elem().SetInt(v.DeviceID)
	}
	return true
}

func (m pendingTicketDestSelectObjectsMatcher) String() string {
	return fmt.Sprintf("%v", m.x)
}

type deviceDestSelectObjectsMatcher struct {
	x []db.Device
}

func DeviceDestSelectObjectsMatcher(v []db.Device) gomock.Matcher {
	return deviceDestSelectObjectsMatcher{
		x: v,
	}
}

func (m deviceDestSelectObjectsMatcher) Matches(x interface{}) bool {
	ref := reflect.ValueOf(x)
	for i, v := range m.x {
		values := ref.Call([]reflect.Value{
			reflect.ValueOf(i),
		})
		if num := len(values); num != 1 {
			panic(fmt.Sprintf("expected 1 values got %d", num))
		}
		slice := values[0]
		if num := slice.Len(); num != 3 {
			panic(fmt.Sprintf("expected 3 values got %d", num))
		}
		slice.Index(0).Elem().Elem().SetInt(v.ID)
		slice.Index(1).Elem().Elem().SetString(v.Name)
		slice.Index(2).Elem().Elem().SetString(v.Path)
	}
	return true
}

func (m deviceDestSelectObjectsMatcher) String() string {
	return fmt.Sprintf("%v", m.x)
}

type boolDestSelectObjectsMatcher struct {
	x []bool
}

func BoolDestSelectObjectsMatcher(v []bool) gomock.Matcher {
	return boolDestSelectObjectsMatcher{
		x: v,
	}
}

func (m boolDestSelectObjectsMatcher) Matches(x interface{}) bool {
	ref := reflect.ValueOf(x)
	for i, v := range m.x {
		values := ref.Call([]reflect.Value{
			reflect.ValueOf(i),
		})
		if num := len(values); num != 1 {
			panic(fmt.Sprintf("expected 1 values got %d", num))
		}
		slice := values[0]
		if num := slice.Len(); num != 1 {
			panic(fmt.Sprintf("expected 1 values got %d", num))
		}
		slice.Index(0).Elem().Elem().SetBool(v)
	}
	return true
}

func (m boolDestSelectObjectsMatcher) String() string {
	return fmt.Sprintf("%v", m.x)
}
