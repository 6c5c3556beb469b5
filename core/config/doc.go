// Package config provides configuration management for event-sync.
//
// It uses Viper for loading configuration from environment variables and an optional
// .env file (godotenv). Defaults come from the `default` struct tags of each section
// and are registered recursively, so every key can be overridden from the environment
// with dots replaced by underscores (sync.retry.max_attempts -> SYNC_RETRY_MAX_ATTEMPTS).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key, shutdown timeout
//   - Log: level and format
//   - Database: driver (sqlite, mysql) and connection details for the database backend
//   - Storage: S3/MinIO credentials and the report bucket
//   - Sync: batch size and retry policy of the synchronizer
//   - Remote: simulated delay, failure rate and backend selection
//   - Source: event names, occurrences per name, interval and grace period
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Remote.FailureRate)
package config
