package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	def := Default()
	if cfg.InstanceName != def.InstanceName || cfg.OSCPort != def.OSCPort {
		t.Errorf("Load() missing file = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "instance_name: MyRig\nosc_port: 9100\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.InstanceName != "MyRig" {
		t.Errorf("InstanceName = %q, want MyRig", cfg.InstanceName)
	}
	if cfg.OSCPort != 9100 {
		t.Errorf("OSCPort = %d, want 9100", cfg.OSCPort)
	}
	// Unset fields keep defaults
	if cfg.PeerPrefix != Default().PeerPrefix {
		t.Errorf("PeerPrefix = %q, want default %q", cfg.PeerPrefix, Default().PeerPrefix)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("key: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty instance name", func(c *Config) { c.InstanceName = "" }, true},
		{"negative osc port", func(c *Config) { c.OSCPort = -1 }, true},
		{"osc port too large", func(c *Config) { c.OSCPort = 70000 }, true},
		{"empty peer prefix", func(c *Config) { c.PeerPrefix = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := Default()
	cfg.InstanceName = "RoundTrip"
	cfg.OSCPort = 9123
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if back.InstanceName != "RoundTrip" || back.OSCPort != 9123 {
		t.Errorf("round-trip = %+v", back)
	}
}
