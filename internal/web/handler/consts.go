// Package handler holds shared constants and the common handler contract
// for the web layer.
package handler

const (
	// BaseLayout is the default path for layout templates.
	BaseLayout = "layouts/base"

	// RootPath is the root path the route group.
	RootPath = "/"

	// RouterRootPath is the root path within a route group.
	RouterRootPath = "/"

	// ErrNilACDMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDMsg = "app, cfg or db is nil"

	// ErrNilRCDMsg is used if router or cfg or db var pointer is nil.
	ErrNilRCDMsg = "router, cfg or db is nil"
)
