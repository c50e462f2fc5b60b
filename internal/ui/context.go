package ui

import (
	"sync"

	"github.com/zhubert/nelson/internal/logger"
)

// ViewContext holds centralized layout calculations.
// All size calculations should go through this to avoid duplication.
type ViewContext struct {
	// Terminal dimensions
	TerminalWidth  int
	TerminalHeight int

	// Calculated dimensions
	HeaderHeight  int
	FooterHeight  int
	ContentHeight int
	SidebarWidth  int
	ChatWidth     int

	sidebarHidden bool

	mu sync.Mutex
}

var (
	ctx     *ViewContext
	ctxOnce sync.Once
)

// GetViewContext returns the singleton ViewContext instance
func GetViewContext() *ViewContext {
	ctxOnce.Do(func() {
		ctx = &ViewContext{
			HeaderHeight: HeaderHeight,
			FooterHeight: FooterHeight,
		}
		logger.WithComponent("ui").Debug("ViewContext initialized")
	})
	return ctx
}

// UpdateTerminalSize recalculates all dimensions when the terminal is
// resized.
func (v *ViewContext) UpdateTerminalSize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	if height < MinTerminalHeight {
		height = MinTerminalHeight
	}

	v.TerminalWidth = width
	v.TerminalHeight = height
	v.recalculate()
}

// SetSidebarHidden gives the chat panel the full width when the sidebar is
// closed.
func (v *ViewContext) SetSidebarHidden(hidden bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sidebarHidden = hidden
	v.recalculate()
}

func (v *ViewContext) recalculate() {
	v.HeaderHeight = HeaderHeight
	v.FooterHeight = FooterHeight
	v.ContentHeight = v.TerminalHeight - v.HeaderHeight - v.FooterHeight

	if v.sidebarHidden {
		v.SidebarWidth = 0
	} else {
		v.SidebarWidth = max(v.TerminalWidth/SidebarWidthRatio, MinSidebarWidth)
	}
	v.ChatWidth = v.TerminalWidth - v.SidebarWidth

	logger.WithComponent("ui").Debug("layout updated",
		"width", v.TerminalWidth,
		"height", v.TerminalHeight,
		"contentHeight", v.ContentHeight,
		"sidebarWidth", v.SidebarWidth,
		"chatWidth", v.ChatWidth,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func (v *ViewContext) InnerWidth(panelWidth int) int {
	return panelWidth - BorderSize
}

// InnerHeight returns the usable height inside a panel with borders
func (v *ViewContext) InnerHeight(panelHeight int) int {
	return panelHeight - BorderSize
}
