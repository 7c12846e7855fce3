package inventory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"luxe-marketplace/internal/testutil"
)

func TestAPIClient_FetchVehicles(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantIDs []int
		wantErr error
	}{
		{
			name:    "bare array",
			status:  http.StatusOK,
			body:    `[{"id":1,"brand":"BMW","price":"₹72,00,000"},{"id":2,"brand":"Audi"}]`,
			wantIDs: []int{1, 2},
		},
		{
			name:    "vehicles envelope",
			status:  http.StatusOK,
			body:    `{"vehicles":[{"id":7,"brand":"Porsche"}]}`,
			wantIDs: []int{7},
		},
		{
			name:    "data envelope",
			status:  http.StatusOK,
			body:    `{"data":[{"id":3},{"id":4}]}`,
			wantIDs: []int{3, 4},
		},
		{
			name:    "empty object",
			status:  http.StatusOK,
			body:    `{}`,
			wantIDs: []int{},
		},
		{
			name:    "server error",
			status:  http.StatusBadGateway,
			body:    `upstream down`,
			wantErr: ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/vehicles", r.URL.Path)
				assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewAPIClient(srv.URL+"/", "secret", time.Second, testutil.Logger(t))
			got, err := client.FetchVehicles(context.Background())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, testutil.IDs(got))
		})
	}
}

func TestAPIClient_DecodesFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"brand":"BMW","model":"7 Series","year":2022,
			"price":"₹72,00,000","savings":"₹6,00,000","mileage":"12,000 km",
			"fuelType":"Diesel","location":"Mumbai, Maharashtra","condition":"Excellent",
			"features":["Massage Seats"],"isLiked":true,"views":340}]`))
	}))
	defer srv.Close()

	got, err := NewAPIClient(srv.URL, "", 0, testutil.Logger(t)).FetchVehicles(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	v := got[0]
	assert.Equal(t, "7 Series", v.Model)
	assert.Equal(t, "Diesel", v.FuelType)
	assert.Equal(t, []string{"Massage Seats"}, v.Features)
	assert.True(t, v.IsLiked)
	assert.Equal(t, 340, v.Views)
}

func TestAPIClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"not-a-number"}]`))
	}))
	defer srv.Close()

	_, err := NewAPIClient(srv.URL, "", time.Second, testutil.Logger(t)).FetchVehicles(context.Background())
	assert.Error(t, err)
}

func TestAPIClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewAPIClient(srv.URL, "", time.Second, testutil.Logger(t)).FetchVehicles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
