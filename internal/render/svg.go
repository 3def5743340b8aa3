package render

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

// WriteSVG writes scene as a standalone SVG document. The output depends only
// on the scene, so equal scenes produce identical bytes.
func WriteSVG(w io.Writer, scene *Scene) error {
	var b strings.Builder
	l := scene.Layout

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" id="%s" class="chart" viewBox="0 0 %s %s" width="%s" height="%s" font-family="sans-serif" font-size="10">`,
		html.EscapeString(scene.Target), num(l.Width), num(l.Height), num(l.Width), num(l.Height))
	b.WriteString("\n")

	if scene.Empty {
		if p := scene.Placeholder; p != nil {
			fmt.Fprintf(&b, `<text class="placeholder" x="%s" y="%s" text-anchor="%s" fill="#666">%s</text>`+"\n",
				num(p.X), num(p.Y), p.Anchor, html.EscapeString(p.Body))
		}
		b.WriteString("</svg>\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if scene.Animate {
		b.WriteString("<style>@keyframes draw-in { to { stroke-dashoffset: 0; } } .series.animated { animation: draw-in 1.5s ease-out forwards; }</style>\n")
	}

	if r := scene.Window; r != nil {
		fmt.Fprintf(&b, `<rect class="recent-window" x="%s" y="%s" width="%s" height="%s" fill="#f4a261" fill-opacity="0.12"/>`+"\n",
			num(r.X), num(r.Y), num(r.Width), num(r.Height))
	}

	writeAxes(&b, scene)

	for _, line := range scene.Lines {
		if len(line.Points) == 0 {
			continue
		}
		var d strings.Builder
		for i, p := range line.Points {
			if i == 0 {
				d.WriteString("M")
			} else {
				d.WriteString("L")
			}
			d.WriteString(num(p.X) + "," + num(p.Y))
		}
		class := "series series-" + string(line.Scenario)
		style := ""
		if scene.Animate {
			class += " animated"
			style = fmt.Sprintf(` stroke-dasharray="%s" stroke-dashoffset="%s"`, num(line.Length), num(line.Length))
		}
		fmt.Fprintf(&b, `<path class="%s" d="%s" fill="none" stroke="%s" stroke-width="2"%s/>`+"\n",
			html.EscapeString(class), d.String(), line.Color, style)
	}

	for _, m := range scene.Markers {
		fmt.Fprintf(&b, `<circle class="point point-%s" cx="%s" cy="%s" r="%s" fill="%s"><title>%s</title></circle>`+"\n",
			html.EscapeString(string(m.Scenario)), num(m.Center.X), num(m.Center.Y), num(m.Radius), m.Color, html.EscapeString(m.Tooltip))
	}

	if len(scene.Legend) > 0 {
		b.WriteString(`<g class="legend">` + "\n")
		for i, item := range scene.Legend {
			x := l.Margin.Left + float64(i%2)*150
			y := 8 + float64(i/2)*12
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="8" height="8" fill="%s"/><text x="%s" y="%s" font-size="9">%s</text>`+"\n",
				num(x), num(y), item.Color, num(x+11), num(y+7), html.EscapeString(item.Label))
		}
		b.WriteString("</g>\n")
	}

	b.WriteString("</svg>\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeAxes(b *strings.Builder, scene *Scene) {
	l := scene.Layout
	bottom := l.Height - l.Margin.Bottom
	right := l.Width - l.Margin.Right

	fmt.Fprintf(b, `<g class="axis axis-x"><line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/>`,
		num(l.Margin.Left), num(bottom), num(right), num(bottom))
	for _, t := range scene.XTicks {
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/><text x="%s" y="%s" text-anchor="middle">%s</text>`,
			num(t.Pos), num(bottom), num(t.Pos), num(bottom+6), num(t.Pos), num(bottom+17), html.EscapeString(t.Label))
	}
	b.WriteString("</g>\n")

	fmt.Fprintf(b, `<g class="axis axis-y"><line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/>`,
		num(l.Margin.Left), num(l.Margin.Top), num(l.Margin.Left), num(bottom))
	for _, t := range scene.YTicks {
		fmt.Fprintf(b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#333"/><text x="%s" y="%s" text-anchor="end">%s</text>`,
			num(l.Margin.Left-6), num(t.Pos), num(l.Margin.Left), num(t.Pos), num(l.Margin.Left-9), num(t.Pos+3), html.EscapeString(t.Label))
	}
	b.WriteString("</g>\n")

	for _, t := range []*Text{scene.XTitle, scene.YTitle} {
		if t == nil {
			continue
		}
		transform := ""
		if t.Rotate != 0 {
			transform = fmt.Sprintf(` transform="rotate(%s)"`, num(t.Rotate))
		}
		fmt.Fprintf(b, `<text class="axis-title" x="%s" y="%s" text-anchor="%s"%s>%s</text>`+"\n",
			num(t.X), num(t.Y), t.Anchor, transform, html.EscapeString(t.Body))
	}
}
