package core

// ControlInput is the immutable set of control flags applied for one step.
// Left and Right together cancel each other.
type ControlInput struct {
	Thrust bool
	Left   bool
	Right  bool
}

// Torque returns +1 for left, -1 for right and 0 when neither or both are set.
func (c ControlInput) Torque() int {
	switch {
	case c.Left && !c.Right:
		return 1
	case c.Right && !c.Left:
		return -1
	default:
		return 0
	}
}

// AnyTorque reports whether either torque flag is set.
// Fuel is burned for torque even when both flags cancel.
func (c ControlInput) AnyTorque() bool {
	return c.Left || c.Right
}

// Action is one of the fixed discrete choices an automated controller can make.
type Action int

const (
	ActionNothing Action = iota
	ActionThrust
	ActionLeft
	ActionRight
	ActionThrustLeft
	ActionThrustRight
)

// NumActions is the size of the discrete action set.
const NumActions = 6

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNothing:
		return "Nothing"
	case ActionThrust:
		return "Thrust"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionThrustLeft:
		return "ThrustLeft"
	case ActionThrustRight:
		return "ThrustRight"
	default:
		return "Unknown"
	}
}

// Valid reports whether a is inside the discrete action set.
func (a Action) Valid() bool {
	return a >= ActionNothing && a < NumActions
}

// Input maps the action to its control flags. Unknown actions map to no input.
func (a Action) Input() ControlInput {
	switch a {
	case ActionThrust:
		return ControlInput{Thrust: true}
	case ActionLeft:
		return ControlInput{Left: true}
	case ActionRight:
		return ControlInput{Right: true}
	case ActionThrustLeft:
		return ControlInput{Thrust: true, Left: true}
	case ActionThrustRight:
		return ControlInput{Thrust: true, Right: true}
	default:
		return ControlInput{}
	}
}
