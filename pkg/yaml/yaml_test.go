package yaml_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/yaml"
)

type sample struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items"`
}

func TestMarshalUnmarshal(t *testing.T) {
	t.Parallel()

	b, err := yaml.Marshal(sample{Name: "a", Items: []string{"x", "y"}})
	require.NoError(t, err)
	assert.Equal(t, "name: a\nitems:\n  - x\n  - y\n", string(b))

	var got sample
	require.NoError(t, yaml.Unmarshal(b, &got))
	assert.Equal(t, "a", got.Name)
	assert.Equal(t, []string{"x", "y"}, got.Items)
}

func TestDecode_SyntaxError(t *testing.T) {
	t.Parallel()

	src := []byte("name: a\nitems: [x, y\n")

	var got sample

	err := yaml.Unmarshal(src, &got)
	require.Error(t, err)

	var yamlErr *yaml.Error
	require.ErrorAs(t, err, &yamlErr)
	assert.NotNil(t, yamlErr.Token)
}

func TestError_WithPath(t *testing.T) {
	t.Parallel()

	src := []byte("name: a\nitems:\n  - x\n")
	path := yaml.NewPathBuilder().Root().Child("items").Build()

	ew := yaml.NewErrorWrapper(yaml.WithSource(src), yaml.WithSourceLines(1))
	err := ew.Wrap(&yaml.Error{Err: errors.New("must not be empty")}, yaml.WithPath(path))

	msg := err.Error()
	assert.Contains(t, msg, "[2:1] must not be empty")
	assert.Contains(t, msg, ">   2 | items:")
}

func TestErrorWrapper_PassThrough(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	ew := yaml.NewErrorWrapper()

	require.NoError(t, ew.Wrap(nil))
	assert.Same(t, plain, ew.Wrap(plain))
}
