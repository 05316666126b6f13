// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package config

import (
	"bytes"
	"os"
	"path/filepath"
	"text/template"

	"github.com/pkg/errors"
)

const defaultConfigTemplateText = `# Sets the log level. Can be one of: trace, debug, info, warn, error, fatal.
log_level = "{{.LogLevel}}"

# Rejects input which is not in canonical form (leading zeros, negative
# zero, unsorted or duplicated dictionary keys).
strict = {{.Strict}}
# Sets the maximum nesting of lists and dictionaries.
max_depth = {{.MaxDepth}}
# Sets the maximum length of a single byte string. 0 means unlimited.
max_string_length = {{.MaxStringLength}}

# Writes JSON output on a single line.
compact = {{.Compact}}
# Decodes byte strings which are not UTF-8 as Windows-1252 text instead
# of hex.
loose_text = {{.LooseText}}
`

var defaultConfigTemplate *template.Template

func GenerateDefaultConfigFile() []byte {
	buf := new(bytes.Buffer)
	if err := defaultConfigTemplate.Execute(buf, DefaultConfig); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteDefaultConfigFile writes the default configuration to path, creating
// its directory as required
func WriteDefaultConfigFile(path string) error {
	path = ExpandHomePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return errors.Wrap(err, "error creating config directory")
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "error opening config file for writing")
	}
	defer f.Close()
	if _, err := f.Write(GenerateDefaultConfigFile()); err != nil {
		return errors.Wrap(err, "error writing config file")
	}
	return nil
}

func init() {
	tmpl := template.New("defaultConfig")
	t, err := tmpl.Parse(defaultConfigTemplateText)
	if err != nil {
		panic(err)
	}
	defaultConfigTemplate = t
}
