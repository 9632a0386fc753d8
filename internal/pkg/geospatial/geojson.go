package geospatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// PointFeature builds a GeoJSON point feature. GeoJSON orders coordinates
// as [lon, lat].
func PointFeature(id string, lat, lon float64, props map[string]interface{}) *geojson.Feature {
	return &geojson.Feature{
		ID:         id,
		Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}),
		Properties: props,
	}
}

// FeatureCollection wraps features and sets the collection bbox so map
// widgets can fit the view without scanning the points.
func FeatureCollection(features ...*geojson.Feature) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: features}
	if len(features) == 0 {
		fc.Features = []*geojson.Feature{}
		return fc
	}
	bounds := geom.NewBounds(geom.XY)
	for _, f := range features {
		if f.Geometry != nil {
			bounds.Extend(f.Geometry)
		}
	}
	fc.BBox = bounds
	return fc
}
