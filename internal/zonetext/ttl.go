package zonetext

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidTTL is returned for TTL tokens that are not a number with an optional unit.
var ErrInvalidTTL = errors.New("invalid ttl")

// ttlRe matches 3600, 1h, 1.5d, 2W.
var ttlRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([smhdwSMHDW]?)$`)

var ttlUnits = map[string]float64{
	"":  1,
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
	"w": 604800,
}

// IsTTL reports whether tok looks like a TTL token.
func IsTTL(tok string) bool {
	return ttlRe.MatchString(tok)
}

// ParseTTL converts a TTL token to seconds. Fractional values are truncated after applying the unit.
func ParseTTL(tok string) (uint32, error) {
	m := ttlRe.FindStringSubmatch(tok)
	if m == nil {
		return 0, errors.Wrapf(ErrInvalidTTL, "%q", tok)
	}

	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidTTL, "%q: %v", tok, err)
	}

	secs := math.Trunc(v * ttlUnits[strings.ToLower(m[2])])
	if secs > math.MaxUint32 {
		return 0, errors.Wrapf(ErrInvalidTTL, "%q overflows 32 bits", tok)
	}

	return uint32(secs), nil
}
