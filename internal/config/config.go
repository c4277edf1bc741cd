// Package config loads the gamelist configuration file.
//
// The file is YAML. Its raw content is checked against an embedded CUE
// schema before being decoded over the defaults, so a typo in a key or an
// out-of-range value is reported with its position instead of silently
// ignored.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/michaelanot/GameList/internal/cover"
	"github.com/michaelanot/GameList/internal/view"
)

//go:embed schema.cue
var schemaCUE []byte

// AppName names the configuration directory.
const AppName = "gamelist"

// Config is the resolved configuration.
type Config struct {
	Database string `yaml:"database"`
	PageSize int    `yaml:"page_size"`
	Cover    Cover  `yaml:"cover"`
	Export   Export `yaml:"export"`
}

// Cover configures cover lookup and download.
type Cover struct {
	Languages         []string      `yaml:"languages"`
	SummaryURL        string        `yaml:"summary_url"`
	UserAgent         string        `yaml:"user_agent"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxBytes          int64         `yaml:"max_bytes"`
	MaxWidth          int           `yaml:"max_width"`
}

// Export configures the export document.
type Export struct {
	Indent bool `yaml:"indent"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		Database: DefaultDatabasePath(),
		PageSize: view.DefaultPageSize,
		Cover: Cover{
			Languages:         append([]string(nil), cover.DefaultLanguages...),
			SummaryURL:        cover.DefaultSummaryURL,
			UserAgent:         cover.DefaultUserAgent,
			RequestsPerSecond: 5,
			Timeout:           cover.DefaultTimeout,
			MaxBytes:          cover.DefaultMaxBytes,
			MaxWidth:          600,
		},
		Export: Export{Indent: true},
	}
}

// Dir returns $XDG_CONFIG_HOME/gamelist (or the platform equivalent).
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// DefaultPath returns the configuration file looked up when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultDatabasePath returns games.db next to the configuration file, or
// in the working directory when no config dir is available.
func DefaultDatabasePath() string {
	dir, err := Dir()
	if err != nil {
		return "games.db"
	}
	return filepath.Join(dir, "games.db")
}

// Load reads the configuration at path. An empty path selects DefaultPath,
// and a missing default file yields Defaults. A missing file named
// explicitly is an error.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Defaults(), nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return Defaults(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates data against the schema and decodes it over Defaults.
// name is used in error messages.
func Parse(name string, data []byte) (Config, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", name, err)
	}
	if len(root.Content) == 0 {
		return Defaults(), nil
	}
	if err := validateSchema(name, data); err != nil {
		return Config{}, err
	}

	cfg := Defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", name, err)
	}
	return cfg, nil
}

func validateSchema(name string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", name, err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("parse config %s: %w", name, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("invalid config %s: %s", name, describe(err))
	}
	return nil
}

// describe flattens a CUE error list into one line.
func describe(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
