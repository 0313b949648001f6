package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"nightlife-server/models"
)

const (
	matchingSeries = "Matching"
	dimmedSeries   = "Filtered out"
	matchingColor  = "#f44336"
	dimmedColor    = "#9e9e9e"
)

// PlotVenueMarkers renders the markers as a scatter over a geo map, one
// series for venues passing the filters and one for the rest.
func PlotVenueMarkers(w io.Writer, title string, markers []models.Marker) error {
	var matching, dimmed []opts.GeoData
	for _, m := range markers {
		point := opts.GeoData{Name: m.VenueName, Value: []float64{m.Lng, m.Lat}}
		if m.Matches {
			matching = append(matching, point)
		} else {
			dimmed = append(dimmed, point)
		}
	}

	geo := charts.NewGeo()
	geo.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "700px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d matching, %d filtered out", len(matching), len(dimmed)),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    "world",
			Silent: opts.Bool(true),
		}),
	)

	geo.AddSeries(matchingSeries, types.ChartScatter, matching,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: matchingColor}),
		charts.WithLabelOpts(opts.Label{
			Show:      opts.Bool(true),
			Formatter: "{b}",
		}),
	)
	geo.AddSeries(dimmedSeries, types.ChartScatter, dimmed,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: dimmedColor}),
	)

	if err := geo.Render(w); err != nil {
		return fmt.Errorf("failed to render marker map: %w", err)
	}
	return nil
}
