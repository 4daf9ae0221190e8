// Package expr provides CEL (Common Expression Language) functionality
// for computing rename suffixes from regular expression matches.
//
// It creates CEL environments with custom functions for:
//   - File path operations (pathBase, pathDir, pathExt)
//   - Number formatting (pad, trimZeros)
//
// The string and list extension libraries from cel-go are always available.
package expr
