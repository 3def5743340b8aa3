package geo

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteSVG draws the map. Each marker links to its region selection.
func WriteSVG(w io.Writer, v MapView) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="region-map-svg" viewBox="0 0 %s %s" font-family="sans-serif" font-size="11">`+"\n",
		num(v.Width), num(v.Height))

	if len(v.Outlines) > 0 {
		b.WriteString(`<g class="map-outlines">` + "\n")
		for _, o := range v.Outlines {
			fmt.Fprintf(&b, `<path class="map-outline" d="%s" fill="#e8eef2" stroke="#9aa5ad" stroke-width="0.5"><title>%s</title></path>`+"\n",
				o.Path, html.EscapeString(o.Name))
		}
		b.WriteString("</g>\n")
	}

	b.WriteString(`<g class="map-dots">` + "\n")
	for _, m := range v.Markers {
		class := "map-dot"
		if m.Active {
			class += " active"
		}
		fmt.Fprintf(&b, `<a href="%s"><circle class="%s" cx="%s" cy="%s" r="%s"/><text class="map-label" x="%s" y="%s">%s</text></a>`+"\n",
			html.EscapeString(m.Href), class, num(m.X), num(m.Y), num(m.Radius),
			num(m.X+m.Radius+3), num(m.Y+3), html.EscapeString(m.Name))
	}
	b.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}
