package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/zacharyburnett/TypePigeon/pkg/value"
)

// ErrUnknownCRS is returned for identifiers outside the built-in registry.
var ErrUnknownCRS = errors.New("geo: unknown coordinate reference system")

// CRS is a coordinate reference system identified by an EPSG code.
type CRS struct {
	Code int
	Name string
	// Projected is false for geographic (latitude/longitude) systems.
	Projected bool
	wkt       string
}

// FromEPSG returns the system registered under an EPSG code.
func FromEPSG(code int) (*CRS, error) {
	if c, ok := registry[code]; ok {
		return c, nil
	}
	if c, ok := utm(code); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: EPSG:%d", ErrUnknownCRS, code)
}

var (
	epsgPattern  = regexp.MustCompile(`(?i)^(?:\+init=)?(?:epsg:|urn:ogc:def:crs:epsg::|urn:ogc:def:crs:epsg:[0-9.]*:)?\s*([0-9]+)$`)
	wktIDPattern = regexp.MustCompile(`(?i)(?:ID|AUTHORITY)\["EPSG",\s*"?([0-9]+)"?\]\]*\s*$`)
)

// FromString reads "EPSG:4326", "epsg:4326", "4326", OGC URNs, well-known
// text carrying a trailing EPSG ID, or a registered system name.
func FromString(s string) (*CRS, error) {
	s = strings.TrimSpace(s)
	if m := epsgPattern.FindStringSubmatch(s); m != nil {
		code, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCRS, s)
		}
		return FromEPSG(code)
	}
	if m := wktIDPattern.FindStringSubmatch(s); m != nil {
		code, _ := strconv.Atoi(m[1])
		return FromEPSG(code)
	}
	for _, c := range registry {
		if strings.EqualFold(c.Name, s) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCRS, s)
}

// FromJSONDict reads a PROJJSON mapping by its "id" member, falling back to
// its "name".
func FromJSONDict(v any) (*CRS, error) {
	m, ok := value.AsMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a mapping", ErrUnknownCRS, v)
	}
	if id, ok := m.Get("id"); ok {
		if idm, ok := value.AsMap(id); ok {
			auth, _ := idm.Get("authority")
			code, _ := idm.Get("code")
			if a, ok := auth.(string); ok && strings.EqualFold(a, "EPSG") {
				switch c := code.(type) {
				case int:
					return FromEPSG(c)
				case float64:
					return FromEPSG(int(c))
				case string:
					return FromString(c)
				}
			}
		}
	}
	if name, ok := m.Get("name"); ok {
		if s, ok := name.(string); ok {
			return FromString(s)
		}
	}
	return nil, fmt.Errorf("%w: mapping carries no EPSG id", ErrUnknownCRS)
}

// ToEPSG returns the EPSG code, if the system has one.
func (c *CRS) ToEPSG() (int, bool) {
	return c.Code, c.Code != 0
}

// ToWKT returns the WKT2 representation.
func (c *CRS) ToWKT() string {
	return c.wkt
}

// ToJSONDict returns the PROJJSON representation.
func (c *CRS) ToJSONDict() *value.Map {
	kind := "GeographicCRS"
	if c.Projected {
		kind = "ProjectedCRS"
	}
	return value.MapOf(
		"$schema", "https://proj.org/schemas/v0.7/projjson.schema.json",
		"type", kind,
		"name", c.Name,
		"id", value.MapOf("authority", "EPSG", "code", c.Code),
	)
}

// Equal reports whether c and other are the same system.
func (c *CRS) Equal(other *CRS) bool {
	return c != nil && other != nil && c.Code == other.Code
}

func (c *CRS) String() string {
	return "EPSG:" + strconv.Itoa(c.Code)
}
