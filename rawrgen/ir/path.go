package ir

import "strings"

// PathSeparator separates module path segments.
const PathSeparator = "::"

// SplitPath splits a module path into its segments.
func SplitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}

// PackageOf returns the package (first segment) of a module path.
func PackageOf(path string) string {
	pkg, _, _ := strings.Cut(path, PathSeparator)
	return pkg
}

// FilePath converts a module path into a slash-separated directory path.
func FilePath(path string) string {
	return strings.Join(SplitPath(path), "/")
}

// RelativePath returns the relative import path from the directory of module
// from to the directory of module to, as used by targets that lay out one
// directory per module.
//
//	RelativePath("a", "a::m::n")       == "./m/n"
//	RelativePath("a::m::n", "a::m")    == ".."
//	RelativePath("a::m", "b::m")       == "../../b/m"
func RelativePath(from, to string) string {
	f := SplitPath(from)
	t := SplitPath(to)

	common := 0
	for common < len(f) && common < len(t) && f[common] == t[common] {
		common++
	}

	ups := len(f) - common
	rest := t[common:]

	if ups == 0 {
		if len(rest) == 0 {
			return "."
		}
		return "./" + strings.Join(rest, "/")
	}

	parts := make([]string, 0, ups+len(rest))
	for range ups {
		parts = append(parts, "..")
	}
	parts = append(parts, rest...)
	return strings.Join(parts, "/")
}
