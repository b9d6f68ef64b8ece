// Package geo answers "is this point on land?" against a set of polygons
// loaded once at startup, and samples random land coordinates from it.
package geo

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// LandSet is an immutable collection of closed planar regions. It is built
// once and only queried afterwards.
type LandSet struct {
	regions []orb.Geometry
}

// NewLandSet builds a LandSet from Polygon and MultiPolygon geometries.
// Anything else is rejected, as is an empty set: sampling against no land
// can never terminate.
func NewLandSet(geometries ...orb.Geometry) (*LandSet, error) {
	ls := &LandSet{}
	for _, g := range geometries {
		switch g.(type) {
		case orb.Polygon, orb.MultiPolygon:
			ls.regions = append(ls.regions, g)
		default:
			return nil, fmt.Errorf("unsupported geometry type %v in land set", g.GeoJSONType())
		}
	}
	if len(ls.regions) == 0 {
		return nil, fmt.Errorf("land set contains no polygons")
	}
	return ls, nil
}

// LoadLandSet reads a GeoJSON FeatureCollection of land polygons. Features
// with non-polygonal geometry are skipped.
func LoadLandSet(path string) (*LandSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read land polygon file: %v", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("malformed land polygon file %v: %v", path, err)
	}
	var geometries []orb.Geometry
	for _, feature := range fc.Features {
		switch feature.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
			geometries = append(geometries, feature.Geometry)
		}
	}
	ls, err := NewLandSet(geometries...)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", path, err)
	}
	return ls, nil
}

// Contains reports whether pt lies inside any polygon of the set.
func (ls *LandSet) Contains(pt orb.Point) bool {
	for _, region := range ls.regions {
		switch g := region.(type) {
		case orb.Polygon:
			if planar.PolygonContains(g, pt) {
				return true
			}
		case orb.MultiPolygon:
			if planar.MultiPolygonContains(g, pt) {
				return true
			}
		}
	}
	return false
}

// Regions returns how many polygonal regions are loaded.
func (ls *LandSet) Regions() int {
	return len(ls.regions)
}

// Sampler produces random coordinates constrained to a LandSet.
type Sampler struct {
	land *LandSet
	rnd  *rand.Rand
}

func NewSampler(land *LandSet, rnd *rand.Rand) *Sampler {
	return &Sampler{land: land, rnd: rnd}
}

// Sample draws (lon, lat) uniformly from the full coordinate ranges and
// rejects until the point falls on land. There is no iteration cap, so a
// land set covering a vanishing fraction of the globe makes this slow in
// proportion; NewLandSet refusing empty sets removes the never-terminating
// case.
func (s *Sampler) Sample() orb.Point {
	for {
		lon := s.rnd.Float64()*360 - 180
		lat := s.rnd.Float64()*180 - 90
		pt := orb.Point{lon, lat}
		if s.land.Contains(pt) {
			return pt
		}
	}
}
