package input

// CursorHint is the pointer cursor the host should show.
type CursorHint string

const (
	CursorDefault   CursorHint = "default"
	CursorCrosshair CursorHint = "crosshair"
	CursorGrab      CursorHint = "grab"
	CursorGrabbing  CursorHint = "grabbing"
	CursorPointer   CursorHint = "pointer"
)
