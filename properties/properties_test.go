package properties

import (
	"runtime"
	"strings"
	"testing"

	"telemetry/config"
)

func testConfig() *config.Config {
	return &config.Config{
		AppName:       "Desktop_Studio",
		AppID:         "io.studio.desktop",
		AppVersion:    "1.2.3",
		InstallSource: "direct",
	}
}

func TestNewCollectsFacts(t *testing.T) {
	r := New(testConfig())
	snap := r.Snapshot()

	checks := []struct {
		name string
		want string
	}{
		{PropAppName, "Desktop_Studio"},
		{PropAppVersion, "1.2.3"},
		{PropInstallSource, "direct"},
		{PropPlatform, runtime.GOOS},
	}
	for _, c := range checks {
		if got := snap[c.name]; got != c.want {
			t.Errorf("%s = %q, want %q", c.name, got, c.want)
		}
	}

	// Facts that depend on the host must still be present, defaulted if
	// undeterminable.
	for _, name := range []string{PropOSVersion, PropLocale, PropScreenResolution, PropRuntimeVersion, PropDeviceModel} {
		if snap[name] == "" {
			t.Errorf("%s is empty, want a value or its default", name)
		}
	}
}

func TestRuntimeVersionTriplet(t *testing.T) {
	r := New(testConfig())
	v := r.Snapshot()[PropRuntimeVersion]
	if strings.HasPrefix(v, "go") {
		t.Errorf("runtime version %q should not carry the go prefix", v)
	}
	if parts := strings.Split(v, "."); len(parts) > 3 {
		t.Errorf("runtime version %q has more than three components", v)
	}
}

func TestSetOverride(t *testing.T) {
	r := New(testConfig())
	r.Set(PropScreenResolution, "2560x1440")
	if got := r.Snapshot()[PropScreenResolution]; got != "2560x1440" {
		t.Errorf("override not applied: got %q", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	r := New(testConfig())
	snap := r.Snapshot()
	snap[PropAppName] = "mutated"

	if got := r.Snapshot()[PropAppName]; got != "Desktop_Studio" {
		t.Errorf("mutating a snapshot leaked into the registry: %q", got)
	}
}
