package zone

import "strings"

// AtMarker is the owner or target token that stands for the current origin.
const AtMarker = "@"

// NormalizeOrigin ensures the origin has a trailing dot.
func NormalizeOrigin(name string) string {
	if name == "" || strings.HasSuffix(name, ".") {
		return name
	}

	return name + "."
}

// IsAbsolute reports whether name is written fully qualified.
func IsAbsolute(name string) bool {
	return strings.HasSuffix(name, ".")
}

// Bare lowercases name and strips the trailing dot. It is the key form used to compare names.
func Bare(name string) string {
	return strings.ToLower(strings.TrimSuffix(name, "."))
}

// InOrigin reports whether name equals origin or is below it.
func InOrigin(name, origin string) bool {
	n, o := Bare(name), Bare(origin)

	return o == "" || n == o || strings.HasSuffix(n, "."+o)
}

// Absolute expands name against origin: "@" becomes the origin, relative names get the origin
// appended and fully-qualified names are returned unchanged.
func Absolute(name, origin string) string {
	origin = NormalizeOrigin(origin)

	switch {
	case name == AtMarker || name == "":
		return origin
	case IsAbsolute(name):
		return name
	case origin == "" || origin == ".":
		return name + "."
	default:
		return name + "." + origin
	}
}

// Relativize returns fqdn relative to origin: "@" for the origin itself, the leading labels for
// names below it, or fqdn unchanged (with its trailing dot) for names outside it.
func Relativize(fqdn, origin string) string {
	fqdn = NormalizeOrigin(fqdn)
	origin = NormalizeOrigin(origin)

	if strings.EqualFold(fqdn, origin) {
		return AtMarker
	}

	suffix := "." + origin
	if len(fqdn) > len(suffix) && strings.EqualFold(fqdn[len(fqdn)-len(suffix):], suffix) {
		return fqdn[:len(fqdn)-len(suffix)]
	}

	return fqdn
}
