package geo

// Marker is one clickable region on the map. X and Y are dot-map positions;
// Lon and Lat, when set, place the marker under the geographic projection.
type Marker struct {
	Name string   `yaml:"name" json:"name"`
	X    float64  `yaml:"x" json:"x"`
	Y    float64  `yaml:"y" json:"y"`
	Lon  *float64 `yaml:"lon,omitempty" json:"lon,omitempty"`
	Lat  *float64 `yaml:"lat,omitempty" json:"lat,omitempty"`
}

// HasCoordinates reports whether the marker can be projected.
func (m Marker) HasCoordinates() bool {
	return m.Lon != nil && m.Lat != nil
}

// Catalog is the ordered list of known region markers. It may list regions
// the dataset does not contain.
type Catalog []Marker

// Lookup finds the marker for a region.
func (c Catalog) Lookup(name string) (Marker, bool) {
	for _, m := range c {
		if m.Name == name {
			return m, true
		}
	}
	return Marker{}, false
}

// DefaultCatalog returns the dot-map positions of the standard regions.
func DefaultCatalog() Catalog {
	return Catalog{
		{Name: "Global", X: 400, Y: 200},
		{Name: "North America", X: 240, Y: 155, Lon: f(-100), Lat: f(45)},
		{Name: "South America", X: 290, Y: 275, Lon: f(-60), Lat: f(-15)},
		{Name: "Europe", X: 415, Y: 140, Lon: f(15), Lat: f(50)},
		{Name: "Africa", X: 435, Y: 235, Lon: f(20), Lat: f(5)},
		{Name: "East Asia", X: 540, Y: 185, Lon: f(115), Lat: f(35)},
		{Name: "South Asia", X: 510, Y: 245, Lon: f(78), Lat: f(20)},
		{Name: "Oceania", X: 620, Y: 305, Lon: f(140), Lat: f(-25)},
	}
}

func f(v float64) *float64 { return &v }
