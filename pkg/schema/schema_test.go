package schema_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/schema"
	"github.com/macropower/shelf/pkg/yaml"
)

const testURL = "https://example.com/test.json"

type item struct {
	// Name of the item.
	Name string `json:"name" jsonschema:"title=Name,minLength=1"`
	Size int    `json:"size,omitempty" jsonschema:"minimum=0"`
}

type doc struct {
	Kind  string  `json:"kind"`
	Items []*item `json:"items,omitempty"`
}

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()

	data, err := schema.NewGenerator(&doc{}, testURL).Generate()
	require.NoError(t, err)

	v, err := schema.NewValidator(testURL, data)
	require.NoError(t, err)

	return v
}

func TestGenerator(t *testing.T) {
	t.Parallel()

	data, err := schema.NewGenerator(&doc{}, testURL).Generate()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, testURL, got["$id"])
	assert.Equal(t, "object", got["type"])
	assert.Contains(t, got["properties"], "items")
	assert.Equal(t, []any{"kind"}, got["required"])
}

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	v := newValidator(t)

	tcs := map[string]struct {
		src      string
		wantPath string
	}{
		"valid": {
			src: "kind: a\nitems:\n  - name: x\n    size: 3\n",
		},
		"missing required": {
			src:      "items: []\n",
			wantPath: "$",
		},
		"nested violation": {
			src:      "kind: a\nitems:\n  - name: x\n  - name: y\n    size: -1\n",
			wantPath: "$.items[1].size",
		},
		"unknown field": {
			src:      "kind: a\nextra: true\n",
			wantPath: "$",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var data any
			require.NoError(t, yaml.Unmarshal([]byte(tc.src), &data))

			err := v.Validate(data)
			if tc.wantPath == "" {
				require.NoError(t, err)

				return
			}

			var yamlErr *yaml.Error
			require.ErrorAs(t, err, &yamlErr)
			require.NotNil(t, yamlErr.Path)
			assert.Equal(t, tc.wantPath, yamlErr.Path.String())
		})
	}
}

func TestNewValidator_Errors(t *testing.T) {
	t.Parallel()

	_, err := schema.NewValidator(testURL, []byte(`{"invalid": json}`))
	require.ErrorContains(t, err, "unmarshal schema")

	_, err = schema.NewValidator(testURL, []byte(`{"type": "invalid_type"}`))
	require.ErrorContains(t, err, "compile schema")

	assert.Panics(t, func() {
		schema.MustNewValidator(testURL, []byte(`{`))
	})
}
