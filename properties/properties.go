// Package properties collects the static user and device properties attached
// to every outgoing event.
package properties

import (
	"os"
	"runtime"
	"strings"
	"sync"

	"telemetry/config"
)

// Property names sent as user_properties on every payload.
const (
	PropAppName          = "app_name"
	PropAppVersion       = "app_version"
	PropPlatform         = "os_platform"
	PropOSVersion        = "os_version"
	PropLocale           = "locale"
	PropScreenResolution = "screen_resolution"
	PropRuntimeVersion   = "runtime_version"
	PropDeviceModel      = "device_model"
	PropInstallSource    = "install_source"
)

// Defaults used when a host fact cannot be determined. Collection never
// fails; each fact degrades independently.
const (
	defaultResolution = "1920x1080"
	defaultLocale     = "en-US"
	defaultModel      = "unknown"
)

// Registry holds the property set, populated once at construction and
// immutable afterwards except through Set.
type Registry struct {
	mu    sync.RWMutex
	props map[string]string
}

// New collects host and application facts into a Registry. Individual
// lookups that fail fall back to fixed defaults.
func New(cfg *config.Config) *Registry {
	r := &Registry{props: make(map[string]string)}

	r.props[PropAppName] = cfg.AppName
	r.props[PropAppVersion] = cfg.AppVersion
	r.props[PropInstallSource] = cfg.InstallSource
	r.props[PropPlatform] = runtime.GOOS
	r.props[PropOSVersion] = osVersion()
	r.props[PropLocale] = locale()
	r.props[PropScreenResolution] = defaultResolution
	r.props[PropRuntimeVersion] = runtimeVersion()
	r.props[PropDeviceModel] = deviceModel()

	return r
}

// Set overrides a property for all subsequent payloads.
func (r *Registry) Set(name, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props[name] = value
}

// Snapshot returns a read-only copy of the property set.
func (r *Registry) Snapshot() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.props))
	for k, v := range r.props {
		out[k] = v
	}
	return out
}

// osVersion reads the kernel release where the platform exposes it.
func osVersion() string {
	if data, err := os.ReadFile("/proc/sys/kernel/osrelease"); err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v
		}
	}
	return runtime.GOOS
}

// locale derives a BCP-47-ish tag from the POSIX locale env vars.
func locale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		// "en_US.UTF-8" -> "en-US"
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return defaultLocale
}

// runtimeVersion reports the runtime as a version triplet, e.g. "1.24.1".
func runtimeVersion() string {
	v := strings.TrimPrefix(runtime.Version(), "go")
	parts := strings.SplitN(v, ".", 4)
	if len(parts) >= 3 {
		return strings.Join(parts[:3], ".")
	}
	return v
}

// deviceModel reads the DMI product name on platforms that expose it.
func deviceModel() string {
	if data, err := os.ReadFile("/sys/devices/virtual/dmi/id/product_name"); err == nil {
		if v := strings.TrimSpace(string(data)); v != "" {
			return v
		}
	}
	return defaultModel
}
