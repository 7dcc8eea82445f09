package dto

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewErrorResponse(t *testing.T) {
	tests := []struct {
		name        string
		inner       error
		wantDetails string
		wantError   string
	}{
		{"message only", nil, "", "invalid product id"},
		{"with cause", errors.New(`strconv.ParseInt: parsing "abc": invalid syntax`), `strconv.ParseInt: parsing "abc": invalid syntax`, `invalid product id: strconv.ParseInt: parsing "abc": invalid syntax`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewErrorResponse("invalid product id", tt.inner)
			if resp.ErrorDetails != tt.wantDetails {
				t.Fatalf("details=%q, want %q", resp.ErrorDetails, tt.wantDetails)
			}
			if resp.Error() != tt.wantError {
				t.Fatalf("Error()=%q, want %q", resp.Error(), tt.wantError)
			}
			if resp.Timestamp.Location() != time.UTC || time.Since(resp.Timestamp) > time.Second {
				t.Fatalf("timestamp not a fresh UTC time: %v", resp.Timestamp)
			}
		})
	}
}

func TestErrorResponse_OmitsEmptyDetails(t *testing.T) {
	b, err := json.Marshal(NewErrorResponse("rate limit exceeded", nil))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["error_details"]; ok {
		t.Fatalf("error_details should be omitted: %s", b)
	}
	if raw["message"] != "rate limit exceeded" {
		t.Fatalf("message=%v", raw["message"])
	}
}

func TestErrorResponse_UsableAsError(t *testing.T) {
	var err error = NewErrorResponse("store unavailable", nil)
	var resp ErrorResponse
	if !errors.As(err, &resp) || resp.Message != "store unavailable" {
		t.Fatalf("errors.As failed: %+v", resp)
	}
}
