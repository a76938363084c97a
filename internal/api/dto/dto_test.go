package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/garage-service/internal/domain"
	apperrors "github.com/spec-kit/garage-service/pkg/util"
)

func TestValidate_ReportsWireNames(t *testing.T) {
	lon := 200.0
	err := Validate(RegisterRequest{Email: "not-an-email", Password: "123", Longitude: &lon})
	require.True(t, apperrors.IsKind(err, apperrors.CodeValidation))

	details := apperrors.ToDomainError(err).Details
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "must be at least 6", details["password"])
	assert.Contains(t, details, "longitude")

	assert.NoError(t, Validate(RegisterRequest{Email: "a@x.com", Password: "secret1"}))
}

func TestValidate_NestedLocation(t *testing.T) {
	err := Validate(RegisterRequest{
		Email: "a@x.com", Password: "secret1",
		Location: &GeoJSONPoint{Type: "Point", Coordinates: []float64{1}},
	})
	require.Error(t, err)
	assert.Contains(t, apperrors.ToDomainError(err).Details, "location.coordinates")
}

func TestResolveLocation(t *testing.T) {
	lon, lat := 55.3, 25.2
	assert.Nil(t, ResolveLocation(nil, &lon, nil))
	assert.Equal(t, &domain.GeoPoint{Longitude: 55.3, Latitude: 25.2}, ResolveLocation(nil, &lon, &lat))

	geo := &GeoJSONPoint{Type: "Point", Coordinates: []float64{1, 2}}
	assert.Equal(t, &domain.GeoPoint{Longitude: 1, Latitude: 2}, ResolveLocation(geo, &lon, &lat))
}

func TestOperatingHoursRequest_DefaultsPerDay(t *testing.T) {
	var req OperatingHoursRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"monday": {"open": "08:00", "close": "17:00"},
		"saturday": {"isOpen": true, "open": "09:00", "close": "13:00"}
	}`), &req))
	require.NoError(t, Validate(req))

	hours := req.ToDomain()
	assert.Equal(t, domain.DayHours{Open: "08:00", Close: "17:00", IsOpen: true}, hours.Monday)
	assert.Equal(t, domain.DayHours{Open: "09:00", Close: "13:00", IsOpen: true}, hours.Saturday)
	assert.Equal(t, domain.DayHours{IsOpen: true}, hours.Tuesday)
	assert.Equal(t, domain.DayHours{IsOpen: false}, hours.Sunday)

	bad := OperatingHoursRequest{Friday: &DayHoursRequest{Open: "25:99"}}
	assert.Error(t, Validate(bad))
}

func TestSpecialtiesRequest_List(t *testing.T) {
	tests := []struct {
		body string
		want []string
		ok   bool
	}{
		{`{"specialties": ["brakes", "tyres"]}`, []string{"brakes", "tyres"}, true},
		{`{"specialties": []}`, []string{}, true},
		{`{"specialties": "brakes"}`, nil, false},
		{`{"specialties": {"a": 1}}`, nil, false},
		{`{"specialties": [1, 2]}`, nil, false},
		{`{"specialties": null}`, nil, false},
		{`{}`, nil, false},
	}
	for _, tt := range tests {
		var req SpecialtiesRequest
		require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
		got, err := req.List()
		if !tt.ok {
			assert.True(t, apperrors.IsKind(err, apperrors.CodeValidation), tt.body)
			continue
		}
		require.NoError(t, err, tt.body)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewGarageResponse_OmitsCredential(t *testing.T) {
	g := domain.NewGarage(domain.Account{ID: "g1", Email: "g@x.com", PasswordHash: "hash"}, "G", "L", domain.Address{})
	g.Location = &domain.GeoPoint{Longitude: 10, Latitude: 20}

	raw, err := json.Marshal(NewGarageResponse(g))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "hash")
	assert.Contains(t, string(raw), `"coordinates":[10,20]`)
	assert.Contains(t, string(raw), `"role":"garage"`)
}
