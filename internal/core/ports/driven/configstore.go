package driven

// ConfigStore provides access to application configuration.
// Implementations handle persistence (e.g. TOML files) and type
// conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and whether the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string configuration value.
	// Returns empty string if the key is absent or not a string.
	GetString(key string) string

	// GetInt retrieves an integer configuration value.
	// Returns 0 if the key is absent or not an integer.
	GetInt(key string) int

	// GetBool retrieves a boolean configuration value.
	// Returns false if the key is absent or not a boolean.
	GetBool(key string) bool

	// GetStringSlice retrieves a string slice configuration value.
	// Returns nil if the key is absent or not a slice.
	GetStringSlice(key string) []string

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Save persists the current configuration to storage.
	Save() error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
