package oplog_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/shelf/pkg/oplog"
)

func newSampleLog() *oplog.Log {
	l := oplog.New()
	l.Infof("scanning %s", "/data")
	l.Preview("a.txt -> b.txt", "/data/a.txt", "/data/b.txt")
	l.Skipf("no rule matched: %s", "readme")
	l.Done("moved", "/x", "/y")
	l.Failed("rename c -> d: permission denied", "/c", "/d")
	l.Errorf("bad root")
	l.Item("Season 1")

	return l
}

func TestLog_Lines(t *testing.T) {
	t.Parallel()

	l := newSampleLog()

	assert.Equal(t, []string{
		"[INFO] scanning /data",
		"[PREVIEW] a.txt -> b.txt",
		"[SKIP] no rule matched: readme",
		"[OK] moved",
		"[FAIL] rename c -> d: permission denied",
		"[ERROR] bad root",
		"- Season 1",
	}, l.Lines())
	assert.Equal(t, 7, l.Len())
	assert.Equal(t, 1, l.Count(oplog.KindPreview))
	assert.Equal(t, 0, oplog.New().Count(oplog.KindInfo))
}

func TestLog_Aborted(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		log  func() *oplog.Log
		want bool
	}{
		"empty": {
			log:  oplog.New,
			want: false,
		},
		"error only": {
			log: func() *oplog.Log {
				l := oplog.New()
				l.Errorf("bad root")

				return l
			},
			want: true,
		},
		"error with outcomes": {
			log:  newSampleLog,
			want: false,
		},
		"setup failure": {
			log: func() *oplog.Log {
				l := oplog.New()
				l.Skipf("already there")
				l.Errorf("create target folder /x: permission denied")
				l.Infof("move aborted, nothing changed")

				return l
			},
			want: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.log().Aborted())
		})
	}
}

func TestLog_Append(t *testing.T) {
	t.Parallel()

	a := oplog.New()
	a.Infof("one")

	b := oplog.New()
	b.Infof("two")

	a.Append(b)
	a.Append(nil)

	assert.Equal(t, "[INFO] one\n[INFO] two", a.String())
	assert.Equal(t, 1, b.Len())
}

func TestLog_EntriesIsCopy(t *testing.T) {
	t.Parallel()

	l := oplog.New()
	l.Infof("keep")

	entries := l.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "keep", l.Entries()[0].Message)
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		err := oplog.NewRenderer(oplog.FormatText).Render(&buf, newSampleLog())
		require.NoError(t, err)
		assert.Equal(t, newSampleLog().String()+"\n", buf.String())
	})

	t.Run("styled text keeps message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		r := oplog.NewRenderer(oplog.FormatText, oplog.WithStyles(oplog.DefaultStyles()))
		require.NoError(t, r.Render(&buf, newSampleLog()))
		assert.Contains(t, buf.String(), "a.txt -> b.txt")
		assert.Contains(t, buf.String(), "- Season 1")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, oplog.NewRenderer(oplog.FormatJSON).Render(&buf, newSampleLog()))

		var got []oplog.Entry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 7)
		assert.Equal(t, oplog.KindPreview, got[1].Kind)
		assert.Equal(t, "/data/b.txt", got[1].Target)
	})

	t.Run("empty json is a list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, oplog.NewRenderer(oplog.FormatJSON).Render(&buf, oplog.New()))
		assert.JSONEq(t, `[]`, buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, oplog.NewRenderer(oplog.FormatYAML).Render(&buf, newSampleLog()))
		assert.Contains(t, buf.String(), "kind: PREVIEW")
		assert.Contains(t, buf.String(), "source: /data/a.txt")
	})
}

func TestGetFormat(t *testing.T) {
	t.Parallel()

	f, err := oplog.GetFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, oplog.FormatYAML, f)

	_, err = oplog.GetFormat("csv")
	require.ErrorIs(t, err, oplog.ErrUnknownFormat)
}
