package remote

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"
)

// DefaultCommand recursively opens up permissions on a path over ssh.
const DefaultCommand = "ssh -p {port} {user}@{host} sudo chmod -R 777 {qpath}"

const defaultPort = 22

var (
	ErrEmptyCommand = errors.New("empty command")
	ErrMissingHost  = errors.New("remote host is not set")
	ErrEmptyPath    = errors.New("path is required")
)

// Config describes how to reach the remote host.
type Config struct {
	// Host is the remote host name or address.
	Host string `json:"host,omitempty" jsonschema:"title=Host"`
	// User is the login user on the remote host.
	User string `json:"user,omitempty" jsonschema:"title=User"`
	// Command is the command template. It is split into arguments like a
	// shell would, then the placeholders {host}, {port}, {user}, {path} and
	// {qpath} (the path single-quoted for a remote shell) are substituted in
	// each argument.
	Command string `json:"command,omitempty" jsonschema:"title=Command Template"`
	// Port is the remote ssh port.
	Port int `json:"port,omitempty" jsonschema:"title=Port,minimum=1,maximum=65535"`
}

// DefaultConfig returns a [Config] using ssh on the default port.
func DefaultConfig() *Config {
	c := &Config{}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults fills unset fields.
func (c *Config) EnsureDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if strings.TrimSpace(c.Command) == "" {
		c.Command = DefaultCommand
	}
}

// Validate checks that the command template can be parsed.
func (c *Config) Validate() error {
	args, err := shellwords.Parse(c.Command)
	if err != nil {
		return fmt.Errorf("parse command %q: %w", c.Command, err)
	}
	if len(args) == 0 {
		return ErrEmptyCommand
	}

	return nil
}

// Build returns the command for path.
func (c *Config) Build(path string) (Command, error) {
	if path == "" {
		return Command{}, ErrEmptyPath
	}

	args, err := shellwords.Parse(c.Command)
	if err != nil {
		return Command{}, fmt.Errorf("parse command %q: %w", c.Command, err)
	}
	if len(args) == 0 {
		return Command{}, ErrEmptyCommand
	}
	if c.Host == "" && strings.Contains(c.Command, "{host}") {
		return Command{}, ErrMissingHost
	}

	r := strings.NewReplacer(
		"{host}", c.Host,
		"{port}", strconv.Itoa(c.Port),
		"{user}", c.User,
		"{path}", path,
		"{qpath}", Quote(path),
	)

	for i, a := range args {
		args[i] = r.Replace(a)
	}

	return Command{Command: args[0], Args: args[1:]}, nil
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
