package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.BackendAddress)
	assert.Equal(t, GeocoderAdresse, cfg.GeocoderProvider)
	assert.Equal(t, 10.0, cfg.MinDistance)
	assert.True(t, cfg.LocationPermission)
	assert.Empty(t, cfg.KafkaTopic)
	assert.Empty(t, cfg.MinioEndpoint)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"PLACES_BACKEND_ADDRESS":     "http://192.168.1.84:3000",
		"PLACES_NICKNAME":            "alice",
		"PLACES_GEOCODER":            GeocoderNominatim,
		"PLACES_MIN_DISTANCE":        "25.5",
		"PLACES_LOCATION_PERMISSION": "false",
		"KAFKA_BROKER":               "localhost:9092",
		"KAFKA_POSITIONS_TOPIC":      "positions",
		"MINIO_ENDPOINT":             "localhost:9000",
		"MINIO_ACCESS_KEY":           "minio",
		"MINIO_SECRET_KEY":           "minio123",
	}))
	require.NoError(t, err)

	assert.Equal(t, "http://192.168.1.84:3000", cfg.BackendAddress)
	assert.Equal(t, "alice", cfg.Nickname)
	assert.Equal(t, GeocoderNominatim, cfg.GeocoderProvider)
	assert.Equal(t, 25.5, cfg.MinDistance)
	assert.False(t, cfg.LocationPermission)
	assert.Equal(t, "places-client", cfg.KafkaGroupID)
	assert.Equal(t, "places", cfg.MinioBucket)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"backend address not a url", map[string]string{"PLACES_BACKEND_ADDRESS": "not a url"}},
		{"unknown geocoder", map[string]string{"PLACES_GEOCODER": "google"}},
		{"negative distance", map[string]string{"PLACES_MIN_DISTANCE": "-1"}},
		{"unparsable distance", map[string]string{"PLACES_MIN_DISTANCE": "ten"}},
		{"unparsable permission", map[string]string{"PLACES_LOCATION_PERMISSION": "maybe"}},
		{"topic without broker", map[string]string{"KAFKA_POSITIONS_TOPIC": "positions"}},
		{"minio without credentials", map[string]string{"MINIO_ENDPOINT": "localhost:9000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.vars))
			assert.Error(t, err)
		})
	}
}
