package include

import (
	"path/filepath"
	"strings"
)

// KeyType is the DNSSEC key kind of an include file.
type KeyType string

const (
	// KeyNone is any ordinary include file.
	KeyNone KeyType = ""
	// KeyKSK is a key-signing key include, *.ksk.key.
	KeyKSK KeyType = "ksk"
	// KeyZSK is a zone-signing key include, *.zsk.key.
	KeyZSK KeyType = "zsk"
)

// KeyKind classifies path by the DNSSEC key include naming convention.
func KeyKind(path string) KeyType {
	name := strings.ToLower(filepath.Base(path))

	switch {
	case strings.HasSuffix(name, ".ksk.key"):
		return KeyKSK
	case strings.HasSuffix(name, ".zsk.key"):
		return KeyZSK
	}

	return KeyNone
}
