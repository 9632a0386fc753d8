package geospatial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFeatureCollectionJSON(t *testing.T) {
	fc := FeatureCollection(
		PointFeature("c-1", 4.6, -74.08, map[string]interface{}{"name": "Bogotá"}),
		PointFeature("c-2", 6.25, -75.57, nil),
	)

	data, err := json.Marshal(fc)
	require.NoError(t, err)

	var decoded struct {
		Type     string    `json:"type"`
		BBox     []float64 `json:"bbox"`
		Features []struct {
			ID       string `json:"id"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	require.Equal(t, "FeatureCollection", decoded.Type)
	require.Len(t, decoded.Features, 2)
	require.Equal(t, "c-1", decoded.Features[0].ID)
	require.Equal(t, "Point", decoded.Features[0].Geometry.Type)
	require.Equal(t, []float64{-74.08, 4.6}, decoded.Features[0].Geometry.Coordinates)
	require.Equal(t, "Bogotá", decoded.Features[0].Properties["name"])
	require.Equal(t, []float64{-75.57, 4.6, -74.08, 6.25}, decoded.BBox)
}

func TestFeatureCollectionEmpty(t *testing.T) {
	data, err := json.Marshal(FeatureCollection())
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(data))
}
