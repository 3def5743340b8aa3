package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/climate-scenario-dashboard/internal/climate"
	"github.com/i474232898/climate-scenario-dashboard/internal/dashboard"
	"github.com/i474232898/climate-scenario-dashboard/internal/geo"
	"github.com/i474232898/climate-scenario-dashboard/internal/narrative"
	"github.com/i474232898/climate-scenario-dashboard/internal/render"
	"github.com/i474232898/climate-scenario-dashboard/internal/selection"
)

var validate = validator.New()

// Dashboard is the selection pipeline served over HTTP.
type Dashboard interface {
	Snapshot() dashboard.RenderResult
	Dispatch(ctx context.Context, ev selection.Event) (dashboard.RenderResult, error)
	EnterStep(ctx context.Context, index int) (dashboard.RenderResult, error)
	Scroll(ctx context.Context, tops []float64, scrollY, viewport float64) (dashboard.RenderResult, error)
	StartAutoplay() (dashboard.RenderResult, error)
	StopAutoplay() dashboard.RenderResult
	ChartConfig(m climate.Metric) render.ChartConfig
}

// RegisterRoutes wires the JSON API into the Fiber app.
func RegisterRoutes(app *fiber.App, svc Dashboard) {
	v1 := app.Group("/api/v1")

	v1.Get("/dashboard", func(c *fiber.Ctx) error {
		return c.JSON(svc.Snapshot())
	})

	v1.Get("/regions", func(c *fiber.Ctx) error {
		snap := svc.Snapshot()
		return c.JSON(fiber.Map{
			"regions":  snap.Regions,
			"selected": snap.State.Region,
		})
	})

	v1.Post("/selection/region", func(c *fiber.Ctx) error {
		var req regionRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		return dispatch(c, svc, selection.RegionSelected{Region: req.Region})
	})

	v1.Post("/selection/scenarios/:scenario/toggle", func(c *fiber.Ctx) error {
		return dispatch(c, svc, selection.ScenarioToggled{Scenario: climate.Scenario(c.Params("scenario"))})
	})

	v1.Put("/selection/scenarios", func(c *fiber.Ctx) error {
		var req scenariosRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		return dispatch(c, svc, selection.ScenariosSet{Scenarios: req.scenarios()})
	})

	v1.Put("/selection/year", func(c *fiber.Ctx) error {
		var req yearRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := checkYear(svc.Snapshot(), req.Year); err != nil {
			return err
		}
		return dispatch(c, svc, selection.YearCutoffSet{Year: req.Year})
	})

	v1.Delete("/selection/year", func(c *fiber.Ctx) error {
		return dispatch(c, svc, selection.YearCutoffSet{})
	})

	v1.Post("/narrative/steps/:index/enter", func(c *fiber.Ctx) error {
		index, err := strconv.Atoi(c.Params("index"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "step index must be an integer")
		}
		res, err := svc.EnterStep(c.UserContext(), index)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(res)
	})

	v1.Post("/narrative/scroll", func(c *fiber.Ctx) error {
		var req scrollRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		res, err := svc.Scroll(c.UserContext(), req.Tops, req.ScrollY, req.Viewport)
		if err != nil {
			return mapError(err)
		}
		return c.JSON(res)
	})

	v1.Post("/autoplay/start", func(c *fiber.Ctx) error {
		res, err := svc.StartAutoplay()
		if err != nil {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		return c.JSON(res)
	})

	v1.Post("/autoplay/stop", func(c *fiber.Ctx) error {
		return c.JSON(svc.StopAutoplay())
	})

	v1.Get("/charts/:metric", func(c *fiber.Ctx) error {
		m, ok := climate.ParseMetric(c.Params("metric"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("unknown metric %q", c.Params("metric")))
		}
		return writeChart(c, svc.ChartConfig(m), c.Query("format", "svg"))
	})

	v1.Get("/map", func(c *fiber.Ctx) error {
		view := svc.Snapshot().Map
		if c.Query("format") == "json" {
			return c.JSON(view)
		}
		var buf bytes.Buffer
		if err := geo.WriteSVG(&buf, view); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.Send(buf.Bytes())
	})

	v1.Get("/impact", func(c *fiber.Ctx) error {
		return c.JSON(svc.Snapshot().Impact)
	})
}

func writeChart(c *fiber.Ctx, cfg render.ChartConfig, format string) error {
	var buf bytes.Buffer
	switch format {
	case "svg":
		if err := render.WriteSVG(&buf, render.RenderChart(cfg)); err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
	case "json":
		return c.JSON(render.RenderChart(cfg))
	case "png":
		if err := render.WritePNG(&buf, cfg); err != nil {
			return mapError(err)
		}
		c.Set(fiber.HeaderContentType, "image/png")
	case "html":
		if err := render.WriteInteractive(&buf, cfg); err != nil {
			return mapError(err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "format must be one of svg, png, html, json")
	}
	return c.Send(buf.Bytes())
}

func dispatch(c *fiber.Ctx, svc Dashboard, ev selection.Event) error {
	res, err := svc.Dispatch(c.UserContext(), ev)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(res)
}

// mapError converts domain errors to HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, dashboard.ErrUnknownRegion),
		errors.Is(err, selection.ErrUnknownScenario),
		errors.Is(err, narrative.ErrNoSuchStep),
		errors.Is(err, render.ErrEmptySelection):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, selection.ErrEmptyActiveSet):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		return err
	}
}

func checkYear(snap dashboard.RenderResult, year int) error {
	if year < snap.YearMin || year > snap.YearMax {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("year must be between %d and %d", snap.YearMin, snap.YearMax))
	}
	return nil
}

func bindJSON(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

type regionRequest struct {
	Region string `json:"region" form:"region" validate:"required"`
}

type scenariosRequest struct {
	Scenarios []string `json:"scenarios" validate:"required,min=1,dive,required"`
}

func (r scenariosRequest) scenarios() []climate.Scenario {
	out := make([]climate.Scenario, 0, len(r.Scenarios))
	for _, s := range r.Scenarios {
		out = append(out, climate.Scenario(s))
	}
	return out
}

type yearRequest struct {
	Year int `json:"year" form:"year" validate:"required,gt=0"`
}

type scrollRequest struct {
	Tops     []float64 `json:"tops" validate:"required,min=1"`
	ScrollY  float64   `json:"scrollY" validate:"gte=0"`
	Viewport float64   `json:"viewport" validate:"required,gt=0"`
}
