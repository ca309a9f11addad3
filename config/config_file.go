package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration file.
type Format int

// The supported configuration encodings.
const (
	TOML Format = iota
	YAML
)

func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "toml"
}

// FormatOf picks the format of a file by its extension, anything that is
// not .yaml or .yml is toml.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// FromString loads a toml configuration from a string. Check Errors or
// IsValid to see if it worked.
func (c *Config) FromString(config string) *Config {
	return c.FromReader(strings.NewReader(config), TOML)
}

// FromFile loads a configuration from a file, the format is chosen by the
// file's extension. An empty filename loads the default file name.
func (c *Config) FromFile(filename string) *Config {
	if len(filename) == 0 {
		filename = defaultConfigFileName
	}

	file, err := os.Open(filename)
	if err != nil {
		c.protect.Lock()
		c.clear()
		c.filename = filename
		c.errors.addError(fmtErrLoad, filename, err)
		c.protect.Unlock()
		return c
	}
	defer file.Close()

	c.FromReader(file, FormatOf(filename))

	c.protect.Lock()
	c.filename = filename
	c.protect.Unlock()
	return c
}

// FromReader loads a configuration from a reader. Previous values are
// cleared first.
func (c *Config) FromReader(reader io.Reader, format Format) *Config {
	c.protect.Lock()
	defer c.protect.Unlock()

	c.clear()

	buf, err := ioutil.ReadAll(reader)
	if err != nil {
		c.errors.addError(fmtErrLoad, format, err)
		return c
	}

	switch format {
	case YAML:
		// An empty document is io.EOF to yaml, that's just no settings.
		err = yaml.NewDecoder(bytes.NewReader(buf)).Decode(c)
		if err == io.EOF {
			err = nil
		}
	default:
		_, err = toml.Decode(string(buf), c)
	}

	if err != nil {
		c.errors.addError(fmtErrLoad, format, err)
	}

	return c
}

// ToWriter writes the configuration out in the given format.
func (c *Config) ToWriter(writer io.Writer, format Format) error {
	c.protect.RLock()
	defer c.protect.RUnlock()

	var err error
	switch format {
	case YAML:
		enc := yaml.NewEncoder(writer)
		if err = enc.Encode(c); err == nil {
			err = enc.Close()
		}
	default:
		err = toml.NewEncoder(writer).Encode(c)
	}

	return errors.Wrapf(err, "config(%v): Failed to write", format)
}
