package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

func LoadScript(name string) ([]byte, error) {
	return ScriptsFS.ReadFile(cleanScriptPath(name))
}

//go:embed *.yaml
var RoomsFS embed.FS

// Load returns a room file, preferring the on-disk copy under prefabs/ so
// hot reload sees local edits.
func Load(name string) ([]byte, error) {
	clean := cleanRoomPath(name)
	if data, err := os.ReadFile(diskRoomPath(clean)); err == nil {
		return data, nil
	}
	return RoomsFS.ReadFile(clean)
}

func ModTime(name string) (time.Time, bool) {
	info, err := os.Stat(diskRoomPath(cleanRoomPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

func cleanRoomPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if !strings.HasSuffix(s, ".yaml") && !strings.HasSuffix(s, ".yml") {
		s += ".yaml"
	}
	return strings.TrimPrefix(s, "prefabs/")
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}
	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}
	return fmt.Sprintf("scripts/%s", s)
}

func diskRoomPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
