package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/dealtracker/internal/domain/dto"
	"github.com/guttosm/dealtracker/internal/domain/models"
	"github.com/guttosm/dealtracker/internal/service"
	"github.com/shopspring/decimal"
)

func TestViewHistoryEndpoints_TableDriven(t *testing.T) {
	seen := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	viewed := []models.ViewedProduct{{
		ViewRecord:   models.ViewRecord{ID: 11, UserID: 4, ProductID: 42, ViewedAt: seen},
		CurrentPrice: decimal.NullDecimal{Decimal: decimal.RequireFromString("18.50"), Valid: true},
		Platform:     "Walmart",
	}}

	cases := []struct {
		name   string
		svc    *mockViews
		method string
		path   string
		body   string
		status int
		assert func(t *testing.T, m *mockViews, body []byte)
	}{
		{
			name:   "list",
			svc:    &mockViews{views: viewed},
			method: http.MethodGet, path: "/view-history/4",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockViews, body []byte) {
				var out []dto.ViewedProductResponse
				if err := json.Unmarshal(body, &out); err != nil || len(out) != 1 {
					t.Fatalf("unexpected body %s (%v)", body, err)
				}
				if out[0].HID != 11 || *out[0].CurrentPrice != 18.5 || *out[0].Platform != "Walmart" || m.gotUID != 4 {
					t.Fatalf("unexpected entry: %+v", out[0])
				}
			},
		},
		{
			name:   "list empty is array",
			svc:    &mockViews{},
			method: http.MethodGet, path: "/view-history/4",
			status: http.StatusOK,
			assert: func(t *testing.T, _ *mockViews, body []byte) {
				if string(body) != "[]" {
					t.Fatalf("want [], got %s", body)
				}
			},
		},
		{name: "list bad uid", svc: &mockViews{}, method: http.MethodGet, path: "/view-history/abc", status: http.StatusBadRequest},
		{name: "list store failure", svc: &mockViews{err: errors.New("db down")}, method: http.MethodGet, path: "/view-history/4", status: http.StatusInternalServerError},
		{
			name:   "record",
			svc:    &mockViews{rec: &models.ViewRecord{ID: 12, UserID: 4, ProductID: 0}},
			method: http.MethodPost, path: "/view-history",
			body:   `{"uid":4,"pid":0}`,
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockViews, body []byte) {
				var out dto.ViewRecordResponse
				if err := json.Unmarshal(body, &out); err != nil || !out.Success || out.HID != 12 {
					t.Fatalf("unexpected body %s (%v)", body, err)
				}
				if m.gotUID != 4 || m.gotPID != 0 {
					t.Fatalf("unexpected call uid=%d pid=%d", m.gotUID, m.gotPID)
				}
			},
		},
		{name: "record missing pid", svc: &mockViews{}, method: http.MethodPost, path: "/view-history", body: `{"uid":4}`, status: http.StatusBadRequest},
		{name: "record missing uid", svc: &mockViews{}, method: http.MethodPost, path: "/view-history", body: `{"pid":42}`, status: http.StatusBadRequest},
		{name: "record unknown user", svc: &mockViews{err: service.ErrUserNotFound}, method: http.MethodPost, path: "/view-history", body: `{"uid":9,"pid":42}`, status: http.StatusNotFound},
		{
			name:   "delete",
			svc:    &mockViews{},
			method: http.MethodDelete, path: "/view-history/11",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockViews, _ []byte) {
				if m.gotHID != 11 {
					t.Fatalf("unexpected hid %d", m.gotHID)
				}
			},
		},
		{name: "delete missing", svc: &mockViews{err: service.ErrViewRecordNotFound}, method: http.MethodDelete, path: "/view-history/11", status: http.StatusNotFound},
		{name: "delete hid zero", svc: &mockViews{}, method: http.MethodDelete, path: "/view-history/0", status: http.StatusBadRequest},
		{
			name:   "clear",
			svc:    &mockViews{cleared: 3},
			method: http.MethodDelete, path: "/view-history/user/4",
			status: http.StatusOK,
			assert: func(t *testing.T, m *mockViews, body []byte) {
				var out dto.SuccessResponse
				if err := json.Unmarshal(body, &out); err != nil || out.Message != "Deleted 3 view history records" {
					t.Fatalf("unexpected body %s (%v)", body, err)
				}
				if m.gotUID != 4 || m.gotHID != 0 {
					t.Fatalf("clear must not route to delete: uid=%d hid=%d", m.gotUID, m.gotHID)
				}
			},
		},
		{name: "clear bad uid", svc: &mockViews{}, method: http.MethodDelete, path: "/view-history/user/x", status: http.StatusBadRequest},
		{name: "clear store failure", svc: &mockViews{err: errors.New("db down")}, method: http.MethodDelete, path: "/view-history/user/4", status: http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, NewHandler(nil, nil, nil, tc.svc), tc.method, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, w.Code, w.Body.String())
			}
			if tc.assert != nil {
				tc.assert(t, tc.svc, w.Body.Bytes())
			}
		})
	}
}
