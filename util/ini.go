package util

import (
	"gopkg.in/ini.v1"
)

// Ini loads an ini file and returns the keys of its default section.
func Ini(filename string) (map[string]string, error) {
	cfg, err := ini.Load(filename)
	if err != nil {
		return nil, err
	}
	return cfg.Section("").KeysHash(), nil
}
