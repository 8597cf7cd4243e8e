// Package gemini provides detectors backed by the Gemini generative-content API.
package gemini

const (
	// DefaultBaseURL is the public Generative Language API host.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultAPIVersion is the versioned path segment of the endpoint.
	DefaultAPIVersion = "v1"
	// DefaultModel is the vision-capable model queried for a verdict.
	DefaultModel = "gemini-pro-vision"
)

// Config holds configuration for the Gemini detectors.
// Request timeouts belong to the *http.Client passed to the constructors.
type Config struct {
	BaseURL    string // e.g. "https://generativelanguage.googleapis.com"
	APIVersion string // e.g. "v1"
	Model      string // e.g. "gemini-pro-vision"
}

// withDefaults fills empty fields with the package defaults.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	return c
}
