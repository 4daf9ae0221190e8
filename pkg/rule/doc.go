// Package rule derives rename suffixes from filenames using an ordered list of
// regular expression rules.
//
// Rules are tried in order and the first rule whose pattern matches the
// filename wins. The winning rule's [Extractor] turns the match into a
// suffix, either by taking a capture group or by evaluating a CEL (Common
// Expression Language) expression over the match.
package rule
