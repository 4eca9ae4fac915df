package circuitbreaker

import "time"

// Preset names, accepted in configuration.
const (
	PresetHTTP     = "http"
	PresetUpload   = "upload"
	PresetDatabase = "database"
)

// Presets by risk profile. HTTP is the moderate default; upload tolerates
// fewer failures but waits longer for big payloads; database expects fast,
// frequent calls.
var (
	httpPreset = Settings{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		ResetTimeout:     60 * time.Second,
		OperationTimeout: 30 * time.Second,
	}

	uploadPreset = Settings{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		ResetTimeout:     120 * time.Second,
		OperationTimeout: 60 * time.Second,
	}

	databasePreset = Settings{
		FailureThreshold: 10,
		SuccessThreshold: 2,
		ResetTimeout:     30 * time.Second,
		OperationTimeout: 5 * time.Second,
	}
)

// NewHTTPService creates a breaker tuned for a typical HTTP dependency.
// Any preset value can be overridden by opts.
func NewHTTPService(name string, opts ...Option) (*CircuitBreaker, error) {
	return newWithPreset(name, httpPreset, opts)
}

// NewUploadService creates a breaker tuned for large-payload uploads.
func NewUploadService(name string, opts ...Option) (*CircuitBreaker, error) {
	return newWithPreset(name, uploadPreset, opts)
}

// NewDatabase creates a breaker tuned for fast, frequent database calls.
func NewDatabase(name string, opts ...Option) (*CircuitBreaker, error) {
	return newWithPreset(name, databasePreset, opts)
}

// PresetSettings returns the defaults for a named preset; unknown names get
// the HTTP preset.
func PresetSettings(preset string) Settings {
	switch preset {
	case PresetUpload:
		return uploadPreset
	case PresetDatabase:
		return databasePreset
	default:
		return httpPreset
	}
}

func newWithPreset(name string, preset Settings, opts []Option) (*CircuitBreaker, error) {
	return New(name, append([]Option{WithSettings(preset)}, opts...)...)
}
