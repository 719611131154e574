package node

import "context"

// Action is the side effect a node performs when activated.
// Actions run outside the engine lock; a long-running action must honor ctx.
type Action func(ctx context.Context) error

// BehaviorKind is the abstract response to a pointer interaction.
type BehaviorKind string

const (
	// DoNothing ignores the interaction.
	DoNothing BehaviorKind = "doNothing"
	// Expand opens the node's child ring.
	Expand BehaviorKind = "expand"
	// Execute runs the node's action and closes the menu.
	Execute BehaviorKind = "execute"
	// ExecuteKeepOpen runs the node's action and keeps the menu open.
	ExecuteKeepOpen BehaviorKind = "executeKeepOpen"
)

// Behavior couples a behavior kind with the action it runs.
// Action is only consulted for Execute and ExecuteKeepOpen.
type Behavior struct {
	Kind   BehaviorKind
	Action Action
}

// Handlers maps pointer interactions to behaviors. The zero value resolves
// every interaction to DoNothing.
type Handlers struct {
	Left          Behavior // left click
	Right         Behavior // right click
	Middle        Behavior // middle click
	BoundaryCross Behavior // pointer crossed the slice's outer boundary
}

// For returns the behavior registered for the given button.
func (h Handlers) For(b Button) Behavior {
	switch b {
	case ButtonRight:
		return h.Right
	case ButtonMiddle:
		return h.Middle
	case ButtonBoundary:
		return h.BoundaryCross
	default:
		return h.Left
	}
}

// Button identifies which pointer interaction occurred.
type Button string

const (
	ButtonLeft     Button = "left"
	ButtonRight    Button = "right"
	ButtonMiddle   Button = "middle"
	ButtonBoundary Button = "boundary"
)

// ExpandOnLeft is the handler bundle branch nodes typically carry.
func ExpandOnLeft() Handlers {
	return Handlers{Left: Behavior{Kind: Expand}}
}

// ExecuteOnLeft is the handler bundle leaf nodes typically carry.
func ExecuteOnLeft(a Action) Handlers {
	return Handlers{Left: Behavior{Kind: Execute, Action: a}}
}
