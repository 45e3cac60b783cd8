package json_test

import (
	"strings"
	"testing"

	"github.com/spoke-d/filament/internal/json"
)

func TestRead(t *testing.T) {
	var doc struct {
		Name string `json:"name"`
	}
	err := json.Read(strings.NewReader(`{"name": "sdb"}`), &doc)
	if err != nil {
		t.Errorf("expected err to be nil: %v", err)
	}
	if expected, actual := "sdb", doc.Name; expected != actual {
		t.Errorf("expected: %s, actual: %s", expected, actual)
	}
}

func TestReadWithInvalidDocument(t *testing.T) {
	var doc struct{}
	err := json.Read(strings.NewReader("{"), &doc)
	if err == nil {
		t.Errorf("expected err not to be nil")
	}
}
