package service

import (
	"fmt"
	"strings"
)

// PointNamer maps zone codes to BAS point names and back. The convention is
// pure data: point = prefix + zone_code + suffix. A zone code containing the
// prefix or suffix text would make Strip ambiguous, so Validate screens each
// code before it is trusted.
type PointNamer struct {
	prefix string
	suffix string
}

func NewPointNamer(prefix, suffix string) PointNamer {
	return PointNamer{prefix: prefix, suffix: suffix}
}

func (p PointNamer) Compose(zoneCode string) string {
	return p.prefix + zoneCode + p.suffix
}

func (p PointNamer) Strip(uname string) string {
	s := strings.TrimPrefix(uname, p.prefix)
	return strings.TrimSuffix(s, p.suffix)
}

// Validate rejects zone codes that carry the prefix or suffix text inside
// them. A point name built from such a code parses two ways, so Strip could
// hand back the wrong code.
func (p PointNamer) Validate(zoneCode string) error {
	if p.prefix != "" && strings.Contains(zoneCode, p.prefix) {
		return fmt.Errorf("zone code %q contains the point-name prefix %q", zoneCode, p.prefix)
	}
	if p.suffix != "" && strings.Contains(zoneCode, p.suffix) {
		return fmt.Errorf("zone code %q contains the point-name suffix %q", zoneCode, p.suffix)
	}
	return nil
}
