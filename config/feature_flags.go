package config

import (
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages optional registry behaviours that can be toggled
// without code changes.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	FeatureLoginPreValidate     = "login.pre_validate"    // Checksum check before lookup
	FeatureLoginCache           = "login.cache"           // Redis in front of lookups
	FeatureReserveStoredSerials = "serial.reserve_stored" // Never reissue loaded serials
)

// NewFeatureFlags returns the flags with their default values.
func NewFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{features: make(map[string]*Feature)}
	ff.initializeDefaults()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureLoginPreValidate] = &Feature{
		Name:        FeatureLoginPreValidate,
		Description: "Reject IDs with a wrong check digit before searching records",
	}
	ff.features[FeatureLoginCache] = &Feature{
		Name:        FeatureLoginCache,
		Description: "Cache login lookups in Redis",
	}
	ff.features[FeatureReserveStoredSerials] = &Feature{
		Name:        FeatureReserveStoredSerials,
		Description: "Reserve serials of loaded records in the generator",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature overrides from environment variables.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_LOGIN_PRE_VALIDATE=true
func (ff *FeatureFlags) loadFromEnvironment() {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	for name, feature := range ff.features {
		if val := os.Getenv(featureNameToEnvKey(name)); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "login.pre_validate" -> "FEATURE_LOGIN_PRE_VALIDATE"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled reports whether a feature is on. Unknown features are off.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[name]
	return ok && f.Enabled
}

// EnableFeature turns a feature on.
func (ff *FeatureFlags) EnableFeature(name string) error {
	return ff.toggle(name, true)
}

// DisableFeature turns a feature off.
func (ff *FeatureFlags) DisableFeature(name string) error {
	return ff.toggle(name, false)
}

func (ff *FeatureFlags) toggle(name string, on bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	f, ok := ff.features[name]
	if !ok {
		return ErrFeatureNotFound
	}
	f.Enabled = on
	return nil
}

func (ff *FeatureFlags) set(name string, on bool) {
	_ = ff.toggle(name, on)
}

// Names returns all feature names, sorted.
func (ff *FeatureFlags) Names() []string {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	names := make([]string, 0, len(ff.features))
	for name := range ff.features {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Errors
var (
	ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
