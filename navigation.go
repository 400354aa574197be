package main

import (
	"math"

	"blockdiag/diagram"
)

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	dx, dy := direction(key)
	m.cursorX += dx * speed
	m.cursorY += dy * speed
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 4
	default:
		return 1
	}
}

func isNavKey(key string) bool {
	dx, dy := direction(key)
	return dx != 0 || dy != 0
}

func direction(key string) (int, int) {
	switch key {
	case "h", "left", "H", "shift+left":
		return -1, 0
	case "l", "right", "L", "shift+right":
		return 1, 0
	case "k", "up", "K", "shift+up":
		return 0, -1
	case "j", "down", "J", "shift+down":
		return 0, 1
	}
	return 0, 0
}

func (m *model) canvasSize() (int, int) {
	w := m.width - tablePanelWidth
	if w < 1 {
		w = 1
	}
	h := m.height - 1 // status line
	if h < 1 {
		h = 1
	}
	return w, h
}

func (m *model) ensureCursorInBounds() {
	w, h := m.canvasSize()
	m.cursorX = max(0, min(m.cursorX, w-1))
	m.cursorY = max(0, min(m.cursorY, h-1))
}

// cellToWorld maps a screen cell to the canvas point at its center.
func (m *model) cellToWorld(x, y int) diagram.Point {
	return diagram.Point{
		X: (float64(x+m.panX) + 0.5) * m.config.CellWidth,
		Y: (float64(y+m.panY) + 0.5) * m.config.CellHeight,
	}
}

// cellOrigin maps a screen cell to the canvas point at its top-left corner.
func (m *model) cellOrigin(x, y int) diagram.Point {
	return diagram.Point{
		X: float64(x+m.panX) * m.config.CellWidth,
		Y: float64(y+m.panY) * m.config.CellHeight,
	}
}

func (m *model) cursorWorld() diagram.Point {
	return m.cellToWorld(m.cursorX, m.cursorY)
}

// snap rounds a canvas point to the nearest cell corner.
func (m *model) snap(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: math.Round(p.X/m.config.CellWidth) * m.config.CellWidth,
		Y: math.Round(p.Y/m.config.CellHeight) * m.config.CellHeight,
	}
}

func (m *model) nodeUnderCursor() (diagram.Node, bool) {
	return m.graph.NodeAt(m.cursorWorld())
}
