package input

import "gones/internal/state"

// Serialize registers the controller's button latch and shift-register
// read position with ar under the given namespace.
func (c *Controller) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Scalar(ar, "buttons", &c.buttons)
		state.Scalar(ar, "shift_register", &c.shiftRegister)
		state.Bool(ar, "strobe", &c.strobe)
		state.Scalar(ar, "button_snapshot", &c.buttonSnapshot)
		state.Scalar(ar, "bit_position", &c.bitPosition)
	})
}

// Serialize registers both controllers with ar under the given namespace
// (e.g. "nes.input").
func (is *InputState) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		is.Controller1.Serialize(ar, "controller1")
		is.Controller2.Serialize(ar, "controller2")
	})
}
