// Package env loads the client configuration from the process environment,
// optionally seeded from a .env file.
package env

import (
	"fmt"
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	GeocoderAdresse   = "adresse"
	GeocoderNominatim = "nominatim"
)

type Config struct {
	BackendAddress string `validate:"required,url"`
	Nickname       string

	GeocoderProvider string `validate:"oneof=adresse nominatim"`
	GeocoderURL      string `validate:"omitempty,url"`

	// MinDistance is the watcher threshold in meters.
	MinDistance        float64 `validate:"gte=0"`
	LocationPermission bool

	KafkaBroker  string `validate:"required_with=KafkaTopic"`
	KafkaTopic   string
	KafkaGroupID string

	MinioEndpoint  string
	MinioAccessKey string `validate:"required_with=MinioEndpoint"`
	MinioSecretKey string `validate:"required_with=MinioEndpoint"`
	MinioUseSSL    bool
	MinioBucket    string `validate:"required_with=MinioEndpoint"`

	MetricsAddress string
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadEnv reads a .env file from the working directory into the environment
// if there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}
}

// FromLookup builds and validates a Config, falling back to defaults for
// unset keys.
func FromLookup(lookup LookupFunc) (*Config, error) {
	r := reader{lookup: lookup}
	cfg := &Config{
		BackendAddress:     r.str("PLACES_BACKEND_ADDRESS", "http://localhost:3000"),
		Nickname:           r.str("PLACES_NICKNAME", ""),
		GeocoderProvider:   r.str("PLACES_GEOCODER", GeocoderAdresse),
		GeocoderURL:        r.str("PLACES_GEOCODER_URL", ""),
		MinDistance:        r.float("PLACES_MIN_DISTANCE", 10),
		LocationPermission: r.bool("PLACES_LOCATION_PERMISSION", true),
		KafkaBroker:        r.str("KAFKA_BROKER", ""),
		KafkaTopic:         r.str("KAFKA_POSITIONS_TOPIC", ""),
		KafkaGroupID:       r.str("KAFKA_GROUP_ID", "places-client"),
		MinioEndpoint:      r.str("MINIO_ENDPOINT", ""),
		MinioAccessKey:     r.str("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     r.str("MINIO_SECRET_KEY", ""),
		MinioUseSSL:        r.bool("MINIO_USE_SSL", false),
		MinioBucket:        r.str("MINIO_BUCKET", "places"),
		MetricsAddress:     r.str("PLACES_METRICS_ADDRESS", ""),
	}
	if r.err != nil {
		return nil, r.err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// reader keeps the first parse error so every key can be read in one pass.
type reader struct {
	lookup LookupFunc
	err    error
}

func (r *reader) str(key, def string) string {
	if v, ok := r.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (r *reader) float(key string, def float64) float64 {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	return f
}

func (r *reader) bool(key string, def bool) bool {
	v, ok := r.lookup(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
	return b
}
