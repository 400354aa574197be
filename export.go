package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"blockdiag/diagram"
)

var errNothingToExport = errors.New("nothing to export")

var (
	connectionColor = color.RGBA{0, 100, 0, 255}
	portFill        = color.White
)

const exportPadding = 40.0

// exportPNG draws the whole graph at canvas scale, independent of the
// terminal viewport.
func exportPNG(g *diagram.Graph, filename string) error {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return errNothingToExport
	}
	conns := g.Connections()

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	grow := func(p diagram.Point) {
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}
	for _, n := range nodes {
		grow(n.Position)
		grow(n.Position.Add(diagram.Point{X: n.Width, Y: n.Height}))
	}
	for _, c := range conns {
		for _, p := range c.Path.Flatten(curveSegments) {
			grow(p)
		}
	}

	offset := diagram.Point{X: exportPadding - minX, Y: exportPadding - minY}
	imageWidth := int(math.Ceil(maxX-minX+2*exportPadding))
	imageHeight := int(math.Ceil(maxY-minY+2*exportPadding))

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    11,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	for _, c := range conns {
		drawConnectionPNG(dc, c, offset)
	}
	for _, n := range nodes {
		drawBlockPNG(dc, n, offset)
	}

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save %s: %w", filename, err)
	}
	return nil
}

func drawConnectionPNG(dc *gg.Context, c diagram.Connection, offset diagram.Point) {
	s := c.Path.Start.Add(offset)
	ctl := c.Path.Control.Add(offset)
	e := c.Path.End.Add(offset)

	dc.SetLineWidth(2)
	dc.SetColor(connectionColor)
	dc.MoveTo(s.X, s.Y)
	dc.QuadraticTo(ctl.X, ctl.Y, e.X, e.Y)
	dc.Stroke()

	// arrow head just outside the middle of the curve, pointing along it
	tip := c.Path.At(0.55).Add(offset)
	tail := c.Path.At(0.5).Add(offset)
	drawArrowPNG(dc, tail, tip)

	anchor := c.Path.LabelAnchor().Add(offset)
	dc.SetColor(color.Black)
	dc.DrawStringAnchored(c.Label, anchor.X, anchor.Y-8, 0.5, 0.5)
}

func drawArrowPNG(dc *gg.Context, from, to diagram.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const size, spread = 10.0, 0.5
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-size*dx+size*dy*spread, to.Y-size*dy-size*dx*spread)
	dc.LineTo(to.X-size*dx-size*dy*spread, to.Y-size*dy+size*dx*spread)
	dc.ClosePath()
	dc.SetColor(connectionColor)
	dc.Fill()
}

func drawBlockPNG(dc *gg.Context, n diagram.Node, offset diagram.Point) {
	p := n.Position.Add(offset)

	dc.DrawRectangle(p.X, p.Y, n.Width, n.Height)
	dc.SetColor(n.Type.Color())
	dc.FillPreserve()
	dc.SetColor(color.Black)
	dc.SetLineWidth(1)
	dc.Stroke()

	for _, port := range n.PortLayout {
		dc.DrawRectangle(p.X+port.X, p.Y+port.Y, port.W, port.H)
		dc.SetColor(portFill)
		dc.FillPreserve()
		dc.SetColor(color.Black)
		dc.Stroke()

		cx, cy := p.X+port.X+port.W/2, p.Y+port.Y+port.H/2
		switch port.Side {
		case diagram.SideTop:
			dc.DrawStringAnchored(port.Label, cx, cy+port.H, 0.5, 0.5)
		case diagram.SideBottom:
			dc.DrawStringAnchored(port.Label, cx, cy-port.H, 0.5, 0.5)
		case diagram.SideLeft:
			dc.DrawStringAnchored(port.Label, cx+port.W, cy, 0, 0.5)
		case diagram.SideRight:
			dc.DrawStringAnchored(port.Label, cx-port.W, cy, 1, 0.5)
		}
	}

	c := n.Center().Add(offset)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(n.Label, c.X, c.Y, 0.5, 0.5)
}

// exportVisualTXT writes the visible canvas as plain text, without the cursor
// or connection preview.
func (m *model) exportVisualTXT(filename string) error {
	if m.graph.NodeCount() == 0 {
		return errNothingToExport
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	width, height := m.canvasSize()
	if m.width == 0 {
		width = 80
	}
	if m.height == 0 {
		height = 24
	}

	for _, line := range m.renderCanvas(width, height, false) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}
