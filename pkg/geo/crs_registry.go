package geo

import (
	"fmt"
	"strings"
)

const wgs84WKT = `GEOGCRS["WGS 84",ENSEMBLE["World Geodetic System 1984 ensemble",` +
	`MEMBER["World Geodetic System 1984 (Transit)"],MEMBER["World Geodetic System 1984 (G730)"],` +
	`MEMBER["World Geodetic System 1984 (G873)"],MEMBER["World Geodetic System 1984 (G1150)"],` +
	`MEMBER["World Geodetic System 1984 (G1674)"],MEMBER["World Geodetic System 1984 (G1762)"],` +
	`ELLIPSOID["WGS 84",6378137,298.257223563,LENGTHUNIT["metre",1]],ENSEMBLEACCURACY[2.0]],` +
	`PRIMEM["Greenwich",0,ANGLEUNIT["degree",0.0174532925199433]],CS[ellipsoidal,2],` +
	`AXIS["geodetic latitude (Lat)",north,ORDER[1],ANGLEUNIT["degree",0.0174532925199433]],` +
	`AXIS["geodetic longitude (Lon)",east,ORDER[2],ANGLEUNIT["degree",0.0174532925199433]],` +
	`USAGE[SCOPE["Horizontal component of 3D system."],AREA["World."],BBOX[-90,-180,90,180]],ID["EPSG",4326]]`

const (
	degreeUnit = `ANGLEUNIT["degree",0.0174532925199433]`
	metreUnit  = `LENGTHUNIT["metre",1]`
)

type ellipsoid struct {
	name          string
	semiMajor     string
	invFlattening string
}

var (
	wgs84Ellipsoid = ellipsoid{"WGS 84", "6378137", "298.257223563"}
	grs80Ellipsoid = ellipsoid{"GRS 1980", "6378137", "298.257222101"}
)

func (e ellipsoid) wkt() string {
	return fmt.Sprintf(`ELLIPSOID["%s",%s,%s,%s]`, e.name, e.semiMajor, e.invFlattening, metreUnit)
}

func geographicWKT(name, datum string, e ellipsoid, code int, area, bbox string) string {
	return fmt.Sprintf(`GEOGCRS["%s",DATUM["%s",%s],PRIMEM["Greenwich",0,%s],CS[ellipsoidal,2],`+
		`AXIS["geodetic latitude (Lat)",north,ORDER[1],%s],AXIS["geodetic longitude (Lon)",east,ORDER[2],%s],`+
		`USAGE[SCOPE["Geodesy."],AREA["%s"],BBOX[%s]],ID["EPSG",%d]]`,
		name, datum, e.wkt(), degreeUnit, degreeUnit, degreeUnit, area, bbox, code)
}

func baseWGS84() string {
	return `BASEGEOGCRS["WGS 84",DATUM["World Geodetic System 1984",` + wgs84Ellipsoid.wkt() + `],` +
		`PRIMEM["Greenwich",0,` + degreeUnit + `],ID["EPSG",4326]]`
}

func projectedWKT(name, conversion, method string, params [][2]string, code int, area, bbox string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `PROJCRS["%s",%s,CONVERSION["%s",METHOD["%s"]`, name, baseWGS84(), conversion, method)
	for _, p := range params {
		fmt.Fprintf(&sb, `,PARAMETER["%s",%s]`, p[0], p[1])
	}
	fmt.Fprintf(&sb, `],CS[Cartesian,2],AXIS["(E)",east,ORDER[1],%s],AXIS["(N)",north,ORDER[2],%s],`+
		`USAGE[SCOPE["Engineering survey, topographic mapping."],AREA["%s"],BBOX[%s]],ID["EPSG",%d]]`,
		metreUnit, metreUnit, area, bbox, code)
	return sb.String()
}

var registry = map[int]*CRS{
	4326: {Code: 4326, Name: "WGS 84", wkt: wgs84WKT},
	4269: {Code: 4269, Name: "NAD83", wkt: geographicWKT("NAD83", "North American Datum 1983",
		grs80Ellipsoid, 4269, "North America.", "14.92,167.65,86.45,-40.73")},
	4258: {Code: 4258, Name: "ETRS89", wkt: geographicWKT("ETRS89", "European Terrestrial Reference System 1989",
		grs80Ellipsoid, 4258, "Europe - ETRF by country.", "32.88,-16.1,84.73,40.18")},
	3857: {Code: 3857, Name: "WGS 84 / Pseudo-Mercator", Projected: true, wkt: projectedWKT(
		"WGS 84 / Pseudo-Mercator", "Popular Visualisation Pseudo-Mercator", "Popular Visualisation Pseudo Mercator",
		[][2]string{
			{"Latitude of natural origin", "0"},
			{"Longitude of natural origin", "0"},
			{"False easting", "0"},
			{"False northing", "0"},
		}, 3857, "World between 85.06°S and 85.06°N.", "-85.06,-180,85.06,180")},
}

// utm builds the WGS 84 / UTM zone systems, EPSG 32601-32660 (north) and
// 32701-32760 (south).
func utm(code int) (*CRS, bool) {
	var hemisphere string
	var falseNorthing string
	switch {
	case code > 32600 && code <= 32660:
		hemisphere, falseNorthing = "N", "0"
	case code > 32700 && code <= 32760:
		hemisphere, falseNorthing = "S", "10000000"
	default:
		return nil, false
	}
	zone := code % 100
	meridian := zone*6 - 183
	name := fmt.Sprintf("WGS 84 / UTM zone %d%s", zone, hemisphere)
	west, east := meridian-3, meridian+3
	bbox := fmt.Sprintf("0,%d,84,%d", west, east)
	if hemisphere == "S" {
		bbox = fmt.Sprintf("-80,%d,0,%d", west, east)
	}
	return &CRS{
		Code:      code,
		Name:      name,
		Projected: true,
		wkt: projectedWKT(name, fmt.Sprintf("UTM zone %d%s", zone, hemisphere), "Transverse Mercator",
			[][2]string{
				{"Latitude of natural origin", "0"},
				{"Longitude of natural origin", fmt.Sprint(meridian)},
				{"Scale factor at natural origin", "0.9996"},
				{"False easting", "500000"},
				{"False northing", falseNorthing},
			}, code, fmt.Sprintf("Between %d°E and %d°E.", west, east), bbox),
	}, true
}
