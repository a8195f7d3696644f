package testdata

import (
	"github.com/paulmach/orb"
	"math"
	"path/filepath"
	"runtime"
)

// basepath is the root directory of this package.
var basepath string

func init() {
	_, currentFile, _, _ := runtime.Caller(0)
	basepath = filepath.Dir(currentFile)
}

// Path returns the absolute path the given relative file or directory path,
// relative to this testdata/ directory in the user's GOPATH.
// If rel is already absolute, it is returned unmodified.
// Taken from https://github.com/grpc/grpc-go/blob/master/testdata/testdata.go.
func Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}

	return filepath.Join(basepath, rel)
}

// Source_ReachReference is a straight west-east reference axis of 11 vertices, id "axis".
// Source_ReachObserved holds two surveys of the reach, ids "1998" (straight) and "2016" (meandering).
var Source_ReachReference = "./reach_reference.geojson"
var Source_ReachObserved = "./reach_observed.geojson"

// Origin is the anchor of the synthetic reaches, near the Rio Grande at Albuquerque.
var Origin = orb.Point{-106.68, 35.05}

const earthRadius = 6378137.0

// Offset returns the point dx meters east and dy meters north of origin,
// inverting the local spherical projection.
func Offset(origin orb.Point, dx, dy float64) orb.Point {
	north := 2 * math.Pi * earthRadius / 360
	east := north * math.Cos(origin.Lat()*math.Pi/180)
	return orb.Point{origin.Lon() + dx/east, origin.Lat() + dy/north}
}

// Straight returns n points spaced meters apart running east from origin.
func Straight(origin orb.Point, n int, spacing float64) orb.LineString {
	ls := make(orb.LineString, n)
	for i := range ls {
		ls[i] = Offset(origin, float64(i)*spacing, 0)
	}
	return ls
}

// Meander returns n points spaced meters apart eastward from origin,
// displaced north by a sine of the given amplitude and wavelength (in points).
func Meander(origin orb.Point, n int, spacing, amplitude float64, wavelength int) orb.LineString {
	ls := make(orb.LineString, n)
	for i := range ls {
		dy := amplitude * math.Sin(2*math.Pi*float64(i)/float64(wavelength))
		ls[i] = Offset(origin, float64(i)*spacing, dy)
	}
	return ls
}
