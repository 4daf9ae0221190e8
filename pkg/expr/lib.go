package expr

import (
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/ext"
)

// Upper bound for `pad` widths.
const maxPadWidth = 64

type lib struct{}

func (lib) CompileOptions() []cel.EnvOption {
	return []cel.EnvOption{
		ext.Strings(),
		ext.Lists(),

		// `pathBase` returns the last element of the path.
		// Example: pathBase(name) == "Show.EP07.mkv".
		cel.Function("pathBase",
			cel.Overload("path_base", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(path ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathBase: invalid string value")
					}

					return types.String(filepath.Base(pathValue))
				}),
			),
		),

		// `pathDir` returns all but the last element of the path.
		cel.Function("pathDir",
			cel.Overload("path_dir", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(path ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathDir: invalid string value")
					}

					return types.String(filepath.Dir(pathValue))
				}),
			),
		),

		// `pathExt` returns the file extension of the path.
		// Example: pathExt(name) in [".mkv", ".mp4"].
		cel.Function("pathExt",
			cel.Overload("path_ext", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(path ref.Val) ref.Val {
					pathValue, ok := path.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pathExt: invalid string value")
					}

					return types.String(filepath.Ext(pathValue))
				}),
			),
		),

		// `pad` left-pads a string with zeros to the given width.
		// Example: pad(groups[1], 3) == "007".
		cel.Function("pad",
			cel.Overload("pad_string_int", []*cel.Type{cel.StringType, cel.IntType}, cel.StringType,
				cel.BinaryBinding(func(value, width ref.Val) ref.Val {
					s, ok := value.(types.String).Value().(string)
					if !ok {
						return types.NewErr("pad: invalid string value")
					}

					w, ok := width.(types.Int).Value().(int64)
					if !ok {
						return types.NewErr("pad: invalid width")
					}
					if w < 0 || w > maxPadWidth {
						return types.NewErr("pad: width out of range")
					}

					return types.String(Pad(s, int(w)))
				}),
			),
		),

		// `trimZeros` removes leading zeros, keeping a single "0".
		// Example: trimZeros("007") == "7".
		cel.Function("trimZeros",
			cel.Overload("trim_zeros_string", []*cel.Type{cel.StringType}, cel.StringType,
				cel.UnaryBinding(func(value ref.Val) ref.Val {
					s, ok := value.(types.String).Value().(string)
					if !ok {
						return types.NewErr("trimZeros: invalid string value")
					}

					return types.String(TrimZeros(s))
				}),
			),
		),
	}
}

func (lib) ProgramOptions() []cel.ProgramOption {
	return []cel.ProgramOption{}
}

// Pad left-pads s with zeros until it is at least width runes long.
func Pad(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}

	return strings.Repeat("0", n) + s
}

// TrimZeros removes leading zeros from s. A string of only zeros becomes "0".
func TrimZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" && s != "" {
		return "0"
	}

	return trimmed
}
