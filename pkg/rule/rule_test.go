package rule_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/rule"
)

func TestDefaults_Match(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		name     string
		want     string
		wantRule string
		err      error
	}{
		"episode marker": {
			name:     "Show.EP07.mkv",
			want:     "07",
			wantRule: "episode",
		},
		"episode wins over earlier digits": {
			name:     "2024 Show EP12.mp4",
			want:     "12",
			wantRule: "episode",
		},
		"first digit run": {
			name:     "Show S01E05.mkv",
			want:     "01",
			wantRule: "digits",
		},
		"digits in extension": {
			name:     "clip.mp4",
			want:     "4",
			wantRule: "digits",
		},
		"no digits": {
			name: "readme.txt",
			err:  rule.ErrNoMatch,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			res, err := rule.Defaults().Match(tc.name)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Suffix)
			assert.Equal(t, tc.wantRule, res.Rule.Name)
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	t.Run("custom rule is tried first", func(t *testing.T) {
		t.Parallel()

		set, err := rule.Build(`S(\d+)E(\d+)`)
		require.NoError(t, err)
		assert.Equal(t, []string{rule.CustomName, "episode", "digits"}, set.Names())

		res, err := set.Match("Show S02E10.mkv")
		require.NoError(t, err)
		assert.Equal(t, "02", res.Suffix)
		assert.Equal(t, rule.CustomName, res.Rule.Name)
	})

	t.Run("invalid custom falls back to defaults", func(t *testing.T) {
		t.Parallel()

		set, err := rule.Build(`S(\d+`)
		require.ErrorIs(t, err, rule.ErrInvalidPattern)
		assert.Equal(t, []string{"episode", "digits"}, set.Names())

		res, err := set.Match("Show.EP03.mkv")
		require.NoError(t, err)
		assert.Equal(t, "03", res.Suffix)
	})

	t.Run("custom without capture group is rejected", func(t *testing.T) {
		t.Parallel()

		set, err := rule.Build(`Show`)
		require.ErrorIs(t, err, rule.ErrNoCaptureGroup)
		assert.Len(t, set, 2)
	})

	t.Run("blank custom is ignored", func(t *testing.T) {
		t.Parallel()

		set, err := rule.Build("   ")
		require.NoError(t, err)
		assert.Equal(t, []string{"episode", "digits"}, set.Names())
	})

	t.Run("extra rules sit between custom and defaults", func(t *testing.T) {
		t.Parallel()

		extra := rule.MustNew("part", `Part(\d+)`, nil)

		set, err := rule.Build(`X(\d)`, extra)
		require.NoError(t, err)
		assert.Equal(t, []string{rule.CustomName, "part", "episode", "digits"}, set.Names())
	})

	t.Run("defaults are not shared", func(t *testing.T) {
		t.Parallel()

		d := rule.Defaults()
		d[0] = rule.MustNew("other", `(x)`, nil)

		assert.Equal(t, "episode", rule.Defaults()[0].Name)
	})
}

func TestNew_BacktrackingPattern(t *testing.T) {
	t.Parallel()

	// Lookbehind is not supported by RE2.
	r, err := rule.New("lookbehind", `(?<=E)(\d+)`, nil)
	require.NoError(t, err)

	res, err := rule.Set{r}.Match("Show S01E05.mkv")
	require.NoError(t, err)
	assert.Equal(t, "05", res.Suffix)
}

func TestMatch_EmptySuffix(t *testing.T) {
	t.Parallel()

	r := rule.MustNew("optional", `Show(\d*)`, nil)

	_, err := rule.Set{r}.Match("Show.mkv")
	require.ErrorIs(t, err, rule.ErrEmptySuffix)
}

func TestMatch_NormalizesName(t *testing.T) {
	t.Parallel()

	r := rule.MustNew("accent", "\u00e9(\\d+)", nil)

	// "e" followed by a combining acute accent.
	res, err := rule.Set{r}.Match("Café" + "12.txt")
	require.NoError(t, err)
	assert.Equal(t, "12", res.Suffix)
}

func TestExpression(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		pattern string
		expr    string
		file    string
		want    string
	}{
		"pad": {
			pattern: `E(\d+)`,
			expr:    `pad(groups[1], 3)`,
			file:    "Show E7.mkv",
			want:    "007",
		},
		"join groups": {
			pattern: `S(\d+)E(\d+)`,
			expr:    `groups[1] + "x" + groups[2]`,
			file:    "Show S01E05.mkv",
			want:    "01x05",
		},
		"stem and ext": {
			pattern: `(\d+)`,
			expr:    `stem + ext`,
			file:    "Show 3.mkv",
			want:    "Show 3.mkv",
		},
		"int result": {
			pattern: `(\d+)`,
			expr:    `int(groups[1]) * 10`,
			file:    "part 4",
			want:    "40",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ex, err := rule.NewExpression(tc.expr)
			require.NoError(t, err)

			r, err := rule.New(name, tc.pattern, ex)
			require.NoError(t, err)

			res, err := rule.Set{r}.Match(tc.file)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Suffix)
		})
	}
}

func TestExpression_Errors(t *testing.T) {
	t.Parallel()

	_, err := rule.NewExpression("")
	require.Error(t, err)

	_, err = rule.NewExpression("groups[")
	require.Error(t, err)

	ex, err := rule.NewExpression("groups[5]")
	require.NoError(t, err)

	r := rule.MustNew("oob", `(\d+)`, ex)

	_, err = rule.Set{r}.Match("a1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, rule.ErrNoMatch)
}

func TestGroup_OutOfRange(t *testing.T) {
	t.Parallel()

	_, err := rule.Group(3).Extract(rule.Match{Name: "a1", Groups: []string{"1", "1"}})
	require.ErrorIs(t, err, rule.ErrGroupOutOfRange)
}
