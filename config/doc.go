// Package config loads and validates the mediaguard configuration.
//
// Configuration is read from config/config.yaml (or ./config.yaml) via
// viper, with environment variable overrides (SERVER_ADDRESS,
// LOGGING_LEVEL, ...). Every value has a safe default, so the process can
// start with no file at all.
//
// The file declares the admin server address, log level, metric ring
// capacities, alert thresholds and one entry per protected operation:
//
//	server:
//	  address: ":9090"
//	  environment: dev
//	logging:
//	  level: info
//	metrics:
//	  thresholds:
//	    error_rate: 10
//	    latency_p95_ms: 5000
//	    latency_p99_ms: 10000
//	breakers:
//	  - name: media-upload
//	    preset: upload
//	  - name: media-delete
//	    preset: http
//	    failure_threshold: 4
//
// Validation happens at load time with ozzo-validation; a misconfigured
// process refuses to start.
package config
