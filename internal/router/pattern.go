package router

import "strings"

// IsPattern reports whether a path has :param segments.
func IsPattern(path string) bool {
	for _, seg := range splitPath(path) {
		if isParam(seg) {
			return true
		}
	}
	return false
}

// ShapeKey returns the collision key for a normalized path: parameter names are
// erased so "/tags/:id" and "/tags/:tag" collide.
func ShapeKey(path string) string {
	segments := splitPath(path)
	for i, seg := range segments {
		if isParam(seg) {
			segments[i] = ":"
		}
	}
	return "/" + strings.Join(segments, "/")
}

// HasEmptyParam reports whether a path has a bare ":" segment, which ShapeKey
// cannot tell apart from a parameter.
func HasEmptyParam(path string) bool {
	for _, seg := range splitPath(path) {
		if seg == ":" {
			return true
		}
	}
	return false
}

func isParam(seg string) bool {
	return len(seg) > 1 && seg[0] == ':'
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

// matchSegments matches path segments against a pattern.
// A :param matches exactly one non-empty segment.
func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		seg := segments[i]
		if isParam(p) {
			if seg == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = seg
			continue
		}
		if p != seg {
			return nil, false
		}
	}
	return params, true
}
