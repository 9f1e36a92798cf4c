package uigl

// Interaction is the mouse cursor the toolkit asks for.
type Interaction uint8

// Mouse interactions.
const (
	InteractionIdle Interaction = iota
	InteractionPointer
	InteractionGrab
	InteractionText
	InteractionCrosshair
	InteractionWorking
	InteractionGrabbing
	InteractionResizingHorizontally
	InteractionResizingVertically
)

var interactionNames = [...]string{
	InteractionIdle:                 "idle",
	InteractionPointer:              "pointer",
	InteractionGrab:                 "grab",
	InteractionText:                 "text",
	InteractionCrosshair:            "crosshair",
	InteractionWorking:              "working",
	InteractionGrabbing:             "grabbing",
	InteractionResizingHorizontally: "resizing-horizontally",
	InteractionResizingVertically:   "resizing-vertically",
}

// String returns the interaction name.
func (i Interaction) String() string {
	if int(i) < len(interactionNames) {
		return interactionNames[i]
	}
	return "unknown"
}

// Output is what the toolkit produces for one frame.
type Output struct {
	Primitive   Primitive
	Interaction Interaction
}
