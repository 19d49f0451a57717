package contracts

// Configurable is implemented by components that carry a layered configuration.
// The method names are component facing so they do not clash with a
// component's own getters and setters.
type Configurable interface {
	// AddConfig sets a custom value and returns the receiver for chaining.
	AddConfig(key string, value any) Configurable

	// RemoveConfig drops a custom value. It reports false when the key was not
	// customised, even if a default exists for it.
	RemoveConfig(key string) bool

	// GetConfig returns the effective value for key or nil.
	GetConfig(key string) any

	GetFullConfig() map[string]any

	GetCustomConfig() map[string]any

	GetDefaultConfig() map[string]any
}
