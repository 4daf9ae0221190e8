package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/macropower/shelf/pkg/remote"
	"github.com/macropower/shelf/pkg/rule"
	"github.com/macropower/shelf/pkg/schema"
	"github.com/macropower/shelf/pkg/yaml"
)

const (
	APIVersion = "shelf.macropower.dev/v1"
	Kind       = "Configuration"

	SchemaFile = "config.v1.json"
	SchemaURL  = "https://raw.githubusercontent.com/macropower/shelf/refs/heads/main/pkg/config/" + SchemaFile
)

//go:generate go run ../../internal/schemagen/main.go -o config.v1.json

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// SchemaJSON is the JSON schema for [Config].
	SchemaJSON = mustGenerateSchema()

	// DefaultValidator validates configuration against [SchemaJSON].
	DefaultValidator = schema.MustNewValidator(SchemaURL, SchemaJSON)

	ErrDuplicateRule = errors.New("duplicate rule name")
)

func mustGenerateSchema() []byte {
	b, err := schema.NewGenerator(&Config{}, SchemaURL).Generate()
	if err != nil {
		panic(err)
	}

	return b
}

//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Move holds defaults for the move operation.
	Move *MoveConfig `json:"move,omitempty" jsonschema:"title=Move"`
	// Clean holds defaults for the delete-empty operation.
	Clean *CleanConfig `json:"clean,omitempty" jsonschema:"title=Clean"`
	// Remote configures the remote permission fix.
	Remote *remote.Config `json:"remote,omitempty" jsonschema:"title=Remote"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// Rules are extra rename rules.
	Rules []*RuleConfig `json:"rules,omitempty" jsonschema:"title=Rules"`
}

// RuleConfig is a named rename rule.
type RuleConfig struct {
	// Name identifies the rule in logs.
	Name string `json:"name" jsonschema:"title=Name,minLength=1"`
	// Pattern is a regular expression with at least one capture group.
	Pattern string `json:"pattern" jsonschema:"title=Pattern,minLength=1"`
	// Extract is a CEL expression that computes the suffix. Defaults to the
	// first capture group.
	Extract string `json:"extract,omitempty" jsonschema:"title=Extract Expression"`
}

// Compile builds the [rule.Rule].
func (rc *RuleConfig) Compile() (*rule.Rule, error) {
	var ex rule.Extractor = rule.Group(1)

	if rc.Extract != "" {
		e, err := rule.NewExpression(rc.Extract)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", rc.Name, err)
		}

		ex = e
	}

	return rule.New(rc.Name, rc.Pattern, ex) //nolint:wrapcheck // Includes the rule name.
}

// MoveConfig holds defaults for moving files out of keyword folders.
type MoveConfig struct {
	// CreateTarget creates the target folder when it does not exist.
	CreateTarget bool `json:"createTarget,omitempty" jsonschema:"title=Create Target"`
	// Recursive selects keyword folders at any depth.
	Recursive bool `json:"recursive,omitempty" jsonschema:"title=Recursive"`
}

// CleanConfig holds defaults for deleting empty keyword folders.
type CleanConfig struct {
	// Recursive selects keyword folders at any depth.
	Recursive bool `json:"recursive,omitempty" jsonschema:"title=Recursive"`
	// Cascade treats folders that only contain deletable folders as empty.
	Cascade bool `json:"cascade,omitempty" jsonschema:"title=Cascade"`
}

// NewConfig creates a new [Config] with default values.
func NewConfig() *Config {
	c := &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Move == nil {
		c.Move = &MoveConfig{CreateTarget: true}
	}
	if c.Clean == nil {
		c.Clean = &CleanConfig{Cascade: true}
	}
	if c.Remote == nil {
		c.Remote = remote.DefaultConfig()
	} else {
		c.Remote.EnsureDefaults()
	}
}

// Validate runs checks that can't be represented in the schema.
func (c *Config) Validate() error {
	pb := yaml.NewPathBuilder

	seen := map[string]bool{}
	for i, rc := range c.Rules {
		path := pb().Root().Child("rules").Index(uint(i)) //nolint:gosec // G115: index is non-negative.

		if seen[rc.Name] {
			return &yaml.Error{
				Err:  fmt.Errorf("%w: %q", ErrDuplicateRule, rc.Name),
				Path: path.Child("name").Build(),
			}
		}

		seen[rc.Name] = true

		_, err := rc.Compile()
		if err != nil {
			return &yaml.Error{Err: err, Path: path.Child("pattern").Build()}
		}
	}

	err := c.Remote.Validate()
	if err != nil {
		return &yaml.Error{Err: err, Path: pb().Root().Child("remote").Child("command").Build()}
	}

	return nil
}

// RuleSet compiles the configured rules in order.
func (c *Config) RuleSet() ([]*rule.Rule, error) {
	rules := make([]*rule.Rule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		r, err := rc.Compile()
		if err != nil {
			return nil, err
		}

		rules = append(rules, r)
	}

	return rules, nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if !ok {
		panic("apiVersion property not found in schema")
	}

	apiVersion.Const = APIVersion
	_, _ = jss.Properties.Set("apiVersion", apiVersion)

	kind, ok := jss.Properties.Get("kind")
	if !ok {
		panic("kind property not found in schema")
	}

	kind.Const = Kind
	_, _ = jss.Properties.Set("kind", kind)
}

// ToYAML serializes the configuration.
func (c *Config) ToYAML() ([]byte, error) {
	b, err := yaml.Marshal(*c)
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), defaultConfigYAML...)
}

// WriteDefaultConfig writes the embedded default config.yaml and the JSON
// schema to the specified path. An existing config is kept unless force is
// set, in which case it is renamed to a backup first.
func WriteDefaultConfig(path string, force bool) error {
	configExists := false

	pathInfo, err := os.Stat(path)
	if pathInfo != nil {
		switch {
		case err == nil && pathInfo.Mode().IsRegular():
			configExists = true
		case pathInfo.IsDir():
			return fmt.Errorf("%s: path is a directory", path)
		default:
			return fmt.Errorf("%s: unknown file state", path)
		}
	}

	err = os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	if configExists && force {
		backupFile := fmt.Sprintf("%s.%d.old", filepath.Base(path), time.Now().UnixNano())
		backupPath := filepath.Join(filepath.Dir(path), backupFile)
		slog.Info("backing up existing config file",
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("rename existing config file to backup: %w", err)
		}

		configExists = false
	}

	if !configExists {
		slog.Info("write default configuration",
			slog.String("path", path),
		)

		err = os.WriteFile(path, defaultConfigYAML, 0o600)
		if err != nil {
			return fmt.Errorf("write config file: %w", err)
		}
	} else {
		slog.Debug("configuration file already exists, skipping write",
			slog.String("path", path),
		)
	}

	schemaPath := filepath.Join(filepath.Dir(path), SchemaFile)
	slog.Debug("write JSON schema",
		slog.String("path", schemaPath),
	)

	err = os.WriteFile(schemaPath, SchemaJSON, 0o600)
	if err != nil {
		return fmt.Errorf("write schema file: %w", err)
	}

	return nil
}

// GetPath returns the default config path. It checks $XDG_CONFIG_HOME first,
// then falls back to ~/.config, and finally to a temp directory.
func GetPath() string {
	if xdgHome, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdgHome != "" {
		return filepath.Join(xdgHome, "shelf", "config.yaml")
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", "shelf", "config.yaml")
	}

	tmpConfig := filepath.Join(os.TempDir(), "shelf", "config.yaml")

	slog.Warn("could not determine user config directory, using temp path for config",
		slog.String("path", tmpConfig),
		slog.Any("error", fmt.Errorf("$XDG_CONFIG_HOME is unset, fall back to home directory: %w", err)),
	)

	return tmpConfig
}
