// Package config provides centralized configuration management for tabinsight.
// It loads settings from multiple sources, validates them, and exposes a
// type-safe API to the rest of the application.
//
// # Configuration Sources
//
// Configuration is assembled in this order:
//
//	1. A .env file in the working directory, if present (godotenv)
//	2. Environment variables with the TABINSIGHT_ prefix, falling back to struct defaults
//	3. A YAML file (tabinsight.yaml or TABINSIGHT_CONFIG_FILE), overlaying the keys it sets
//
// # Environment Variables
//
//	TABINSIGHT_SERVER_PORT=5000
//	TABINSIGHT_STORAGE_ROOT=/var/lib/tabinsight
//	TABINSIGHT_LOGGING_LEVEL=debug
//	TABINSIGHT_ANALYTICS_SEED=42
//
// # Analytics Constants
//
// AnalyticsConfig holds every threshold the analytics engine depends on:
// the 3-sigma clip factor, the 30-row small-sample warning, the 0.15 missing
// ratio, the 1.5 skew threshold, the 15 distinct-value categorical cap and the
// confidence scorer constants (0.15, 0.3, 45, 0.4/0.6, 99, 98.75). They can
// be overridden for experiments but DefaultAnalytics returns the canonical
// values that clients rely on.
package config
