package geo

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(v MapView) []string {
	var out []string
	for _, m := range v.Markers {
		out = append(out, m.Name)
	}
	return out
}

func TestBuildMap_FiltersToPresentRegions(t *testing.T) {
	view := BuildMap(DefaultCatalog(), []string{"Africa", "Europe", "Global", "Atlantis"}, "Global", DefaultOptions())

	assert.Equal(t, []string{"Global", "Europe", "Africa"}, names(view))
}

func TestBuildMap_HighlightsSelected(t *testing.T) {
	present := []string{"Africa", "Europe", "Global"}
	opts := DefaultOptions()

	first := BuildMap(DefaultCatalog(), present, "Global", opts)
	second := BuildMap(DefaultCatalog(), present, "Europe", opts)

	for _, v := range []struct {
		view   MapView
		active string
	}{{first, "Global"}, {second, "Europe"}} {
		count := 0
		for _, m := range v.view.Markers {
			if m.Active {
				count++
				assert.Equal(t, v.active, m.Name)
				assert.Equal(t, opts.ActiveRadius, m.Radius)
			} else {
				assert.Equal(t, opts.Radius, m.Radius)
			}
		}
		assert.Equal(t, 1, count)
	}
}

func TestBuildMap_Links(t *testing.T) {
	view := BuildMap(DefaultCatalog(), []string{"North America"}, "", DefaultOptions())

	require.Len(t, view.Markers, 1)
	assert.Equal(t, "/ui/region?region=North+America", view.Markers[0].Href)
	assert.False(t, view.Markers[0].Active)
}

func TestBuildMap_GeoMode(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = ModeGeo

	view := BuildMap(DefaultCatalog(), []string{"Global", "Europe"}, "Europe", opts)
	require.Len(t, view.Markers, 2)

	// Global has no coordinates and keeps its dot position.
	assert.Equal(t, 400.0, view.Markers[0].X)
	x, y := Equirectangular{Width: 800, Height: 400}.Project(15, 50)
	assert.InDelta(t, x, view.Markers[1].X, 1e-9)
	assert.InDelta(t, y, view.Markers[1].Y, 1e-9)
}

func TestEquirectangular(t *testing.T) {
	p := Equirectangular{Width: 800, Height: 400}

	x, y := p.Project(-180, 90)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)

	x, y = p.Project(0, 0)
	assert.Equal(t, 400.0, x)
	assert.Equal(t, 200.0, y)
}

func TestWriteSVG(t *testing.T) {
	view := BuildMap(DefaultCatalog(), []string{"Global", "Europe"}, "Europe", DefaultOptions())

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, view))
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Equal(t, 1, strings.Count(out, `class="map-dot active"`))
	assert.Contains(t, out, `href="/ui/region?region=Europe"`)
}

const boundaries = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"name": "Square"},
     "geometry": {"type": "Polygon", "coordinates": [[[0,0],[90,0],[90,45],[0,0]]]}},
    {"type": "Feature", "properties": {"ADMIN": "Islands"},
     "geometry": {"type": "MultiPolygon", "coordinates": [[[[0,0],[1,1],[0,0]]],[[[10,10],[11,11],[10,10]]]]}},
    {"type": "Feature", "properties": {"name": "Point"},
     "geometry": {"type": "Point", "coordinates": [0,0]}}
  ]
}`

func TestParseOutlines(t *testing.T) {
	outlines, err := ParseOutlines(strings.NewReader(boundaries), Equirectangular{Width: 360, Height: 180})
	require.NoError(t, err)
	require.Len(t, outlines, 2)

	assert.Equal(t, "Square", outlines[0].Name)
	assert.Equal(t, "M180.00,90.00L270.00,90.00L270.00,45.00L180.00,90.00Z", outlines[0].Path)
	assert.Equal(t, "Islands", outlines[1].Name)
	assert.Equal(t, 2, strings.Count(outlines[1].Path, "Z"))
}

func TestParseOutlines_Invalid(t *testing.T) {
	_, err := ParseOutlines(strings.NewReader(`{"type":"Feature"}`), Equirectangular{Width: 1, Height: 1})
	assert.Error(t, err)

	_, err = ParseOutlines(strings.NewReader(`not json`), Equirectangular{Width: 1, Height: 1})
	assert.Error(t, err)
}

type fetcherFunc func(ctx context.Context, url string) (io.ReadCloser, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (io.ReadCloser, error) { return f(ctx, url) }

func TestLoadOutlines(t *testing.T) {
	ok := fetcherFunc(func(_ context.Context, url string) (io.ReadCloser, error) {
		assert.Equal(t, "https://example.test/world.geojson", url)
		return io.NopCloser(strings.NewReader(boundaries)), nil
	})
	outlines, err := LoadOutlines(context.Background(), ok, "https://example.test/world.geojson", Equirectangular{Width: 360, Height: 180})
	require.NoError(t, err)
	assert.Len(t, outlines, 2)

	boom := errors.New("boom")
	failing := fetcherFunc(func(context.Context, string) (io.ReadCloser, error) { return nil, boom })
	_, err = LoadOutlines(context.Background(), failing, "https://example.test/world.geojson", Equirectangular{})
	assert.ErrorIs(t, err, boom)
}

type stubGeocoder map[string][2]float64

func (s stubGeocoder) Locate(region string) (float64, float64, error) {
	c, ok := s[region]
	if !ok {
		return 0, 0, errors.New("not found")
	}
	return c[0], c[1], nil
}

func TestComplete(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := stubGeocoder{"Arctic": {0, 80}}

	catalog := Complete(DefaultCatalog(), []string{"Global", "Arctic", "Atlantis"}, g, Equirectangular{Width: 800, Height: 400}, logger)

	assert.Len(t, catalog, len(DefaultCatalog())+1)
	m, ok := catalog.Lookup("Arctic")
	require.True(t, ok)
	assert.True(t, m.HasCoordinates())
	assert.InDelta(t, 400, m.X, 1e-9)
	assert.InDelta(t, 400.0/18, m.Y, 1e-9)

	_, ok = catalog.Lookup("Atlantis")
	assert.False(t, ok)

	assert.Equal(t, DefaultCatalog(), Complete(DefaultCatalog(), []string{"Arctic"}, nil, Equirectangular{}, logger))
}
