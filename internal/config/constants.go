package config

// Application constants
const (
	AppName    = "tabinsight"
	AppVersion = "1.2.0"

	// Derived file prefixes
	CleanedPrefix      = "cleaned_"
	StandardizedPrefix = "std_"
	MaskedPrefix       = "masked_"
	UploadPrefix       = "upload_"
	ManualPrefix       = "manual_"

	// ManualOriginalName is reported as the original filename of grid uploads
	ManualOriginalName = "manual_table.csv"

	// API Endpoints
	APIBasePath     = "/api"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
)
