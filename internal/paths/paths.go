package paths

import (
	"os"
	"path/filepath"
)

func home() string {
	h, _ := os.UserHomeDir()
	return h
}

// ConfigDir returns ~/.combobox, or $COMBOBOX_HOME when set.
func ConfigDir() string {
	if dir := os.Getenv("COMBOBOX_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(home(), ".combobox")
}

// ConfigFile returns ~/.combobox/config.yaml.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// LogFile returns ~/.combobox/combobox.log.
func LogFile() string {
	return filepath.Join(ConfigDir(), "combobox.log")
}

// OptionsDir returns ~/.combobox/options, where named option lists live.
func OptionsDir() string {
	return filepath.Join(ConfigDir(), "options")
}

// OptionsFile returns the path of the named option list.
func OptionsFile(name string) string {
	return filepath.Join(OptionsDir(), name+".yaml")
}
