package httpapi

import (
	"bytes"
	"embed"
	"html/template"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/dashboard"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

//go:embed templates/index.html
var templates embed.FS

var page = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"percent": func(f float64) string { return strconv.FormatFloat(f*100, 'f', 1, 64) },
}).ParseFS(templates, "templates/index.html"))

type tabView struct {
	Metric climate.Metric
	Label  string
	Active bool
}

type pillView struct {
	Scenario climate.Scenario
	Label    string
	Color    string
	Active   bool
}

type pageData struct {
	Tab    climate.Metric
	Tabs   []tabView
	Pills  []pillView
	Result dashboard.RenderResult
	Chart  template.HTML
	Map    template.HTML
	Year   int
}

// RegisterPages wires the server-rendered dashboard and its form endpoints.
// Every /ui endpoint dispatches one event and redirects back to the page.
func RegisterPages(app *fiber.App, svc Dashboard) {
	app.Get("/", func(c *fiber.Ctx) error {
		res := svc.Snapshot()
		res.Rejected = c.Query("rejected") == "1"
		data, err := buildPage(res, tab(c))
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := page.Execute(&buf, data); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(buf.Bytes())
	})

	ui := app.Group("/ui")

	selectRegion := func(c *fiber.Ctx) error {
		region := c.Query("region")
		if region == "" {
			region = c.FormValue("region")
		}
		if err := validate.Var(region, "required"); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "region is required")
		}
		return dispatchAndRedirect(c, svc, selection.RegionSelected{Region: region})
	}
	ui.Get("/region", selectRegion)
	ui.Post("/region", selectRegion)

	ui.Post("/scenarios/:scenario/toggle", func(c *fiber.Ctx) error {
		return dispatchAndRedirect(c, svc, selection.ScenarioToggled{Scenario: climate.Scenario(c.Params("scenario"))})
	})

	ui.Post("/year", func(c *fiber.Ctx) error {
		year, err := strconv.Atoi(c.FormValue("year"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "year must be an integer")
		}
		if err := checkYear(svc.Snapshot(), year); err != nil {
			return err
		}
		return dispatchAndRedirect(c, svc, selection.YearCutoffSet{Year: year})
	})

	ui.Post("/year/clear", func(c *fiber.Ctx) error {
		return dispatchAndRedirect(c, svc, selection.YearCutoffSet{})
	})

	ui.Post("/steps/:index", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "step index must be an integer")
		}
		if _, err := svc.EnterStep(c.UserContext(), index); err != nil {
			return mapError(err)
		}
		return redirectHome(c)
	})

	ui.Post("/autoplay/start", func(c *fiber.Ctx) error {
		if _, err := svc.StartAutoplay(); err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return redirectHome(c)
	})

	ui.Post("/autoplay/stop", func(c *fiber.Ctx) error {
		svc.StopAutoplay()
		return redirectHome(c)
	})
}

func dispatchAndRedirect(c *fiber.Ctx, svc Dashboard, ev selection.Event) error {
	res, err := svc.Dispatch(c.UserContext(), ev)
	if err != nil {
		return mapError(err)
	}
	if res.Rejected {
		return c.Redirect(homeURL(c)+"&rejected=1", fiber.StatusSeeOther)
	}
	return redirectHome(c)
}

func redirectHome(c *fiber.Ctx) error {
	return c.Redirect(homeURL(c), fiber.StatusSeeOther)
}

func homeURL(c *fiber.Ctx) string {
	return "/?tab=" + url.QueryEscape(string(tab(c)))
}

func tab(c *fiber.Ctx) climate.Metric {
	if m, ok := climate.ParseMetric(c.Query("tab")); ok {
		return m
	}
	return climate.MetricTemperature
}

func buildPage(res dashboard.RenderResult, active climate.Metric) (pageData, error) {
	data := pageData{Tab: active, Result: res, Year: res.State.YearCutoff}
	if data.Year == 0 {
		data.Year = res.YearMax
	}

	for _, m := range climate.Metrics {
		data.Tabs = append(data.Tabs, tabView{Metric: m, Label: m.AxisLabel(), Active: m == active})
	}
	for _, sc := range res.Scenarios {
		data.Pills = append(data.Pills, pillView{
			Scenario: sc,
			Label:    sc.Label(),
			Color:    render.ScenarioColor(sc),
			Active:   res.State.IsActive(sc),
		})
	}

	if chart, ok := res.Chart(active); ok {
		var buf bytes.Buffer
		if err := render.WriteSVG(&buf, chart.Scene); err != nil {
			return data, err
		}
		data.Chart = template.HTML(buf.String())
	}

	var buf bytes.Buffer
	if err := geo.WriteSVG(&buf, res.Map); err != nil {
		return data, err
	}
	data.Map = template.HTML(buf.String())
	return data, nil
}
