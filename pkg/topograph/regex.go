package topograph

import "regexp"

// compileScopedRegex compiles pattern for matching against node names.
// scope is accepted for symmetry with the rest of the elaborator's
// scoped lookups even though regexp.Regexp itself carries no scope state;
// callers restrict matches to the current scope themselves.
func compileScopedRegex(scope, pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(pattern)
}
