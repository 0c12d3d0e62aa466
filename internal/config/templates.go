package config

import (
	"os"

	"github.com/pkg/errors"
)

// WriteTemplate writes the default configuration file to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.Errorf("config already exists: %s", path)
		}
	}
	return errors.Wrap(os.WriteFile(path, []byte(Template), 0o600), "write config template")
}

// Template mirrors Default.
const Template = `[writer]
initial_capacity = 128
# 0 leaves growth bounded only by the format limit
max_capacity = 0

[frame]
max_document_bytes = 16777216

[log]
level = "info"
timestamp = true
no_color = false
bypass = false
`
