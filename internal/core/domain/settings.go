package domain

// DefaultAPIURL is the RAGFlow endpoint used until the user configures one.
const DefaultAPIURL = "http://127.0.0.1:8000"

// ConnectionSettings hold the mutable backend connection configuration.
// Both fields may change between calls at runtime; the remote client picks
// up changes without being recreated.
type ConnectionSettings struct {
	// APIURL is the RAGFlow base URL, without the /api/v1 suffix.
	APIURL string

	// APIKey is the bearer credential.
	APIKey string
}

// IsConfigured reports whether enough is set to reach the backend.
func (c ConnectionSettings) IsConfigured() bool {
	return c.APIURL != "" && c.APIKey != ""
}

// AppSettings aggregates everything the settings surface manages.
type AppSettings struct {
	Connection ConnectionSettings
	Generation GenerationParams
}

// DefaultAppSettings returns the settings used before any configuration.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Connection: ConnectionSettings{
			APIURL: DefaultAPIURL,
		},
		Generation: DefaultGenerationParams(),
	}
}
