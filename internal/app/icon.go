package app

import (
	"bytes"
	_ "embed"
	"fmt"
	"image/png"
	"os"
)

//go:embed assets/icon.png
var defaultIcon []byte

// LoadIcon returns the PNG at path, or the built-in icon when path is empty
func LoadIcon(path string) ([]byte, error) {
	if path == "" {
		return defaultIcon, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("icon %s is not a PNG: %w", path, err)
	}
	return data, nil
}
