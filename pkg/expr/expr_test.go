package expr_test

import (
	"testing"

	"github.com/google/cel-go/cel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/expr"
)

func newEnv(t *testing.T) *expr.Environment {
	t.Helper()

	env, err := expr.NewEnvironment(
		cel.Variable("groups", cel.ListType(cel.StringType)),
		cel.Variable("name", cel.StringType),
	)
	require.NoError(t, err)

	return env
}

func TestEvalString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		expr string
		want string
		err  bool
	}{
		"group passthrough": {
			expr: "groups[1]",
			want: "07",
		},
		"pad": {
			expr: "pad(groups[1], 3)",
			want: "007",
		},
		"pad shorter width": {
			expr: "pad(groups[1], 1)",
			want: "07",
		},
		"trimZeros": {
			expr: "trimZeros(groups[1])",
			want: "7",
		},
		"string concat": {
			expr: `"E" + groups[1]`,
			want: "E07",
		},
		"int result": {
			expr: "int(groups[1]) + 1",
			want: "8",
		},
		"path functions": {
			expr: "pathExt(name) + pathBase(name)",
			want: ".mkvShow.EP07.mkv",
		},
		"string extension": {
			expr: "name.lowerAscii().substring(0, 4)",
			want: "show",
		},
		"bool result": {
			expr: "name == ''",
			err:  true,
		},
		"pad negative width": {
			expr: "pad(groups[1], -1)",
			err:  true,
		},
	}

	env := newEnv(t)

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			prg, err := env.Compile(tc.expr)
			require.NoError(t, err)

			got, err := expr.EvalString(prg, map[string]any{
				"groups": []string{"EP07", "07"},
				"name":   "Show.EP07.mkv",
			})
			if tc.err {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCompile_Error(t *testing.T) {
	t.Parallel()

	env := newEnv(t)

	_, err := env.Compile("groups[")
	require.Error(t, err)

	_, err = env.Compile("unknown + 1")
	require.Error(t, err)
}

func TestTrimZeros(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", expr.TrimZeros("000"))
	assert.Equal(t, "10", expr.TrimZeros("010"))
	assert.Empty(t, expr.TrimZeros(""))
}
