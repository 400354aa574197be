package main

import (
	"path/filepath"
	"strings"

	"blockdiag/controller"
	"blockdiag/diagram"
)

func (s *statusMessage) fromReport(r controller.Report) {
	s.text = r.Message
	s.isError = r.Level != controller.LevelInfo
}

func (s *statusMessage) clear() {
	s.text = ""
	s.isError = false
}

func (m *model) setError(msg string) {
	m.status.text = msg
	m.status.isError = true
}

func (m *model) setSuccess(msg string) {
	m.status.text = msg
	m.status.isError = false
}

// highlights collects what the canvas should emphasize from the controller.
func (m *model) highlights() highlight {
	hl := highlight{nodes: map[int]bool{}, conns: map[int]bool{}}
	for _, e := range m.ctl.Selection() {
		switch e.Kind {
		case controller.EntityNode:
			hl.nodes[e.ID] = true
		case controller.EntityConnection:
			hl.conns[e.ID] = true
		}
	}
	if m.mode == ModeTable {
		if id, ok := m.selectedConnection(); ok {
			hl.conns[id] = true
		}
	}
	if src, ok := m.ctl.Source(); ok {
		hl.source = src
	}
	return hl
}

func (m *model) viewport(width, height int) viewport {
	return viewport{
		width:  width,
		height: height,
		cellW:  m.config.CellWidth,
		cellH:  m.config.CellHeight,
		panX:   m.panX,
		panY:   m.panY,
	}
}

// selectedNodeLabel names the single selected block for the status line.
func (m *model) selectedNodeLabel() string {
	sel := m.ctl.Selection()
	if len(sel) != 1 || sel[0].Kind != controller.EntityNode {
		return ""
	}
	n, ok := m.graph.Node(sel[0].ID)
	if !ok {
		return ""
	}
	return n.Label
}

func (m *model) nodeLabel(id int) string {
	if n, ok := m.graph.Node(id); ok {
		return n.Label
	}
	return ""
}

// withExtension appends ext unless filename already ends with it.
func withExtension(filename, ext string) string {
	if strings.EqualFold(filepath.Ext(filename), ext) {
		return filename
	}
	return filename + ext
}

func clampPoint(p diagram.Point) diagram.Point {
	return diagram.Point{X: max(p.X, 0), Y: max(p.Y, 0)}
}
