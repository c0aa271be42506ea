// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runchart renders the benchmark report charts.
//
// Every chart is drawn on its own plot and its own image canvas,
// written out, and released; there is no shared figure state between
// charts. Cells with no underlying data are skipped entirely, never
// drawn as zero-height placeholders.
package runchart

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/mcc-bench/hashreport/runproc"
	"github.com/mcc-bench/hashreport/sizeunit"
)

const (
	chartDPI    = 150
	chartWidth  = 18 * vg.Centimeter
	chartHeight = 11 * vg.Centimeter
	// colorBarFrac is the share of the canvas handed to the color
	// scale legend of a gradient chart.
	colorBarFrac = 0.18
)

var barWidth = vg.Points(16)

// Grouped builds a clustered bar chart from p: one cluster per thread
// count, one bar per table size within the cluster, each drawn bar
// annotated with its integer value.
func Grouped(p *runproc.Pivot, title, yLabel string) *plot.Plot {
	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Number of Threads"
	pl.Y.Label.Text = yLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	bars := &groupedBars{pivot: p, width: barWidth}
	for j := range p.Cols {
		bars.colors = append(bars.colors, plotutil.Color(j))
	}
	pl.Add(bars)

	for j, ts := range p.Cols {
		pl.Legend.Add("Table "+sizeunit.Format(ts), swatch{bars.colors[j]})
	}
	pl.Legend.Top = true

	pl.NominalX(threadLabels(p.Index)...)
	pl.Y.Min = 0
	return pl
}

// Gradient builds a single-series bar chart of s with bars colored on
// a continuous color map scaled to the series' value range. The
// second plot is the color scale legend; render both with SavePNG.
func Gradient(s runproc.Series, title, yLabel string) (*plot.Plot, *plot.Plot) {
	cmap := moreland.Kindlmann()
	min, max := stats.Bounds(s.Values)
	if !(max > min) {
		// Degenerate range. Keep the map well-defined.
		max = min + 1
	}
	cmap.SetMin(min)
	cmap.SetMax(max)

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = "Number of Threads"
	pl.Y.Label.Text = yLabel

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	pl.Add(grid)

	pl.Add(&gradientBars{
		values: s.Values,
		cmap:   cmap,
		width:  2 * barWidth,
	})
	pl.NominalX(threadLabels(s.Threads)...)
	pl.Y.Min = 0

	bar := plot.New()
	bar.Title.Text = " " // keeps the scale aligned with the chart title row
	bar.Add(&plotter.ColorBar{ColorMap: cmap, Vertical: true})
	bar.HideX()
	bar.Y.Label.Text = yLabel
	return pl, bar
}

func threadLabels(threads []int64) []string {
	names := make([]string, len(threads))
	for i, th := range threads {
		names[i] = strconv.FormatInt(th, 10)
	}
	return names
}

// SavePNG renders pl onto a fresh image canvas and writes it to path.
// If side is non-nil it is drawn into a narrow band at the right edge
// (used for color scale legends).
func SavePNG(pl, side *plot.Plot, path string) error {
	can := vgimg.NewWith(
		vgimg.UseWH(chartWidth, chartHeight),
		vgimg.UseDPI(chartDPI),
		vgimg.UseBackgroundColor(color.White))
	dc := draw.New(vgimg.PngCanvas{Canvas: can})

	if side == nil {
		pl.Draw(dc)
	} else {
		sideW := vg.Length(colorBarFrac) * chartWidth
		pl.Draw(draw.Crop(dc, 0, -sideW, 0, 0))
		side.Draw(draw.Crop(dc, chartWidth-sideW, 0, 0, 0))
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := (vgimg.PngCanvas{Canvas: can}).WriteTo(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// groupedBars draws the cells of a Pivot as clustered bars. NaN cells
// are skipped: no bar, no annotation. X data coordinates are the
// cluster indices 0..len(Index)-1, matching NominalX.
type groupedBars struct {
	pivot  *runproc.Pivot
	width  vg.Length
	colors []color.Color
}

func (b *groupedBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	n := len(b.pivot.Cols)

	sty := plt.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom

	for i := range b.pivot.Index {
		x := trX(float64(i))
		for j := range b.pivot.Cols {
			v := b.pivot.Cells[i][j]
			if math.IsNaN(v) {
				continue
			}
			cx := x + b.width*vg.Length(float64(j)-float64(n)/2+0.5)
			y0 := trY(math.Max(plt.Y.Min, 0))
			y := trY(v)

			pts := []vg.Point{
				{X: cx - b.width/2, Y: y0},
				{X: cx - b.width/2, Y: y},
				{X: cx + b.width/2, Y: y},
				{X: cx + b.width/2, Y: y0},
			}
			c.FillPolygon(b.colors[j%len(b.colors)], c.ClipPolygonY(pts))

			if c.ContainsY(y) {
				c.FillText(sty, vg.Point{X: cx, Y: y + vg.Points(2)}, fmt.Sprintf("%.0f", v))
			}
		}
	}
}

func (b *groupedBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(b.pivot.Index))-0.5
	ymin, ymax = 0, math.Inf(-1)
	for _, row := range b.pivot.Cells {
		for _, v := range row {
			if !math.IsNaN(v) && v > ymax {
				ymax = v
			}
		}
	}
	if math.IsInf(ymax, -1) {
		ymax = 1
	}
	// Headroom for the bar annotations.
	return xmin, xmax, ymin, ymax * 1.1
}

// gradientBars draws one bar per value, each filled with the color
// the map assigns to its value.
type gradientBars struct {
	values []float64
	cmap   palette.ColorMap
	width  vg.Length
}

func (b *gradientBars) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	sty := plt.X.Tick.Label
	sty.XAlign = draw.XCenter
	sty.YAlign = draw.YBottom

	edge := draw.LineStyle{Color: color.Black, Width: vg.Points(0.5)}

	for i, v := range b.values {
		if math.IsNaN(v) {
			continue
		}
		clr, err := b.cmap.At(v)
		if err != nil {
			clr = color.Gray{0x80}
		}
		x := trX(float64(i))
		y0 := trY(math.Max(plt.Y.Min, 0))
		y := trY(v)

		pts := []vg.Point{
			{X: x - b.width/2, Y: y0},
			{X: x - b.width/2, Y: y},
			{X: x + b.width/2, Y: y},
			{X: x + b.width/2, Y: y0},
		}
		c.FillPolygon(clr, c.ClipPolygonY(pts))
		c.StrokeLines(edge, c.ClipLinesY(append(pts, pts[0]))...)

		if c.ContainsY(y) {
			c.FillText(sty, vg.Point{X: x, Y: y + vg.Points(2)}, fmt.Sprintf("%.0f", v))
		}
	}
}

func (b *gradientBars) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(b.values))-0.5
	ymin, ymax = 0, math.Inf(-1)
	for _, v := range b.values {
		if !math.IsNaN(v) && v > ymax {
			ymax = v
		}
	}
	if math.IsInf(ymax, -1) {
		ymax = 1
	}
	return xmin, xmax, ymin, ymax * 1.1
}

// swatch is a legend thumbnail: a filled rectangle in a series color.
type swatch struct {
	color.Color
}

func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.Color, pts)
}
