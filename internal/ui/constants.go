package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// SidebarWidthRatio is the denominator for sidebar width (1/3 of total width)
	SidebarWidthRatio = 3

	// MinSidebarWidth keeps the tab strip readable on narrow terminals
	MinSidebarWidth = 30

	// TextareaHeight is the number of lines for the chat composer
	TextareaHeight = 3

	// TextareaBorderHeight is the border size around the composer
	TextareaBorderHeight = 2

	// InputPaddingWidth is the horizontal padding inside the composer
	InputPaddingWidth = 2

	// InputTotalHeight is the total height of the composer (textarea + borders)
	InputTotalHeight = TextareaHeight + TextareaBorderHeight

	// DefaultWrapWidth is used when the viewport width is unknown
	DefaultWrapWidth = 80

	// MinTerminalWidth and MinTerminalHeight clamp layout math
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// Modal dimensions
const (
	ModalWidth          = 60
	ModalInputCharLimit = 256
	ModalInputWidth     = 50
	AuthFormWidth       = 44
)

// Font-size wrap widths. The terminal cannot change glyph size, so the
// font-size setting narrows or widens the reading column instead.
const (
	WrapWidthSmall  = 100
	WrapWidthMedium = 80
	WrapWidthLarge  = 64
)

// Timing
const (
	DefaultFlashDuration = 3 * time.Second
	SpinnerInterval      = 120 * time.Millisecond
	SplashFrameInterval  = 80 * time.Millisecond
)
