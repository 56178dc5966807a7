package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayusman/emojidraw/internal/shape"
)

// writePlugin creates dir/name/plugin.json for m.
func writePlugin(t *testing.T, dir string, m Manifest) string {
	t.Helper()

	pluginDir := filepath.Join(dir, m.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return pluginDir
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	pluginDir := writePlugin(t, tmpDir, Manifest{
		Name:        "type-emoji",
		Version:     "1.0.0",
		Description: "Types the earned emoji",
		Executable:  "type-emoji",
		Shapes:      []string{"heart", "star"},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	plugin := plugins[0]
	if plugin.Manifest.Name != "type-emoji" {
		t.Errorf("expected plugin name 'type-emoji', got %q", plugin.Manifest.Name)
	}
	if len(plugin.Manifest.Shapes) != 2 {
		t.Errorf("expected 2 shapes, got %d", len(plugin.Manifest.Shapes))
	}
	if plugin.Path != pluginDir {
		t.Errorf("expected path %q, got %q", pluginDir, plugin.Path)
	}
	if plugin.Executable != filepath.Join(pluginDir, "type-emoji") {
		t.Errorf("unexpected executable %q", plugin.Executable)
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	writePlugin(t, tmpDir, Manifest{Name: "good", Executable: "run"})
	writePlugin(t, tmpDir, Manifest{Name: "no-exec"})

	badDir := filepath.Join(tmpDir, "bad-json")
	os.MkdirAll(badDir, 0755)
	os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("{not json"), 0644)

	os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755)
	os.WriteFile(filepath.Join(tmpDir, "stray-file"), []byte("x"), 0644)

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 || plugins[0].Manifest.Name != "good" {
		t.Errorf("expected only 'good' to be discovered, got %d plugins", len(plugins))
	}
}

func TestManager_Discover_NonExistentDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "missing"))
	if err := manager.Discover(); err != nil {
		t.Errorf("Discover() on missing dir should not fail: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no plugins")
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writePlugin(t, tmpDir, Manifest{Name: "confetti", Executable: "run"})

	manager := NewManager(tmpDir)
	manager.Discover()

	p, err := manager.Get("confetti")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Manifest.Name != "confetti" {
		t.Errorf("expected confetti, got %q", p.Manifest.Name)
	}

	if _, err := manager.Get("missing"); err != ErrPluginNotFound {
		t.Errorf("Get(missing) error = %v, want ErrPluginNotFound", err)
	}

	if manager.PluginDir() != tmpDir {
		t.Errorf("PluginDir() = %q, want %q", manager.PluginDir(), tmpDir)
	}
}

func TestManager_ForShape(t *testing.T) {
	tmpDir := t.TempDir()
	writePlugin(t, tmpDir, Manifest{Name: "b-all", Executable: "run"})
	writePlugin(t, tmpDir, Manifest{Name: "a-hearts", Executable: "run", Shapes: []string{"heart"}})

	manager := NewManager(tmpDir)
	manager.Discover()

	tests := []struct {
		label shape.Label
		want  []string
	}{
		{shape.Heart, []string{"a-hearts", "b-all"}},
		{shape.Star, []string{"b-all"}},
		{shape.None, nil},
	}

	for _, tt := range tests {
		got := manager.ForShape(tt.label)
		if len(got) != len(tt.want) {
			t.Errorf("ForShape(%v) returned %d plugins, want %d", tt.label, len(got), len(tt.want))
			continue
		}
		for i, p := range got {
			if p.Manifest.Name != tt.want[i] {
				t.Errorf("ForShape(%v)[%d] = %q, want %q", tt.label, i, p.Manifest.Name, tt.want[i])
			}
		}
	}
}
