package geo

// Equirectangular maps longitude and latitude linearly onto a width by height
// viewport, with (-180, 90) at the top-left corner.
type Equirectangular struct {
	Width  float64
	Height float64
}

// Project returns the viewport position of lon, lat in degrees.
func (p Equirectangular) Project(lon, lat float64) (x, y float64) {
	x = (lon + 180) / 360 * p.Width
	y = (90 - lat) / 180 * p.Height
	return x, y
}
