package cpu

import "gones/internal/state"

// Serialize registers the CPU's registers, flags, and pending-interrupt
// latches with ar under the given namespace (e.g. "nes.cpu").
func (c *CPU) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Scalar(ar, "a", &c.A)
		state.Scalar(ar, "x", &c.X)
		state.Scalar(ar, "y", &c.Y)
		state.Scalar(ar, "sp", &c.SP)
		state.Scalar(ar, "pc", &c.PC)

		state.Bool(ar, "flag_c", &c.C)
		state.Bool(ar, "flag_z", &c.Z)
		state.Bool(ar, "flag_i", &c.I)
		state.Bool(ar, "flag_d", &c.D)
		state.Bool(ar, "flag_b", &c.B)
		state.Bool(ar, "flag_v", &c.V)
		state.Bool(ar, "flag_n", &c.N)

		state.Scalar(ar, "cycles", &c.cycles)
		state.Bool(ar, "nmi_pending", &c.nmiPending)
		state.Bool(ar, "irq_pending", &c.irqPending)
		state.Bool(ar, "nmi_previous", &c.nmiPrevious)
		state.Bool(ar, "interrupt_delay", &c.interruptDelay)
	})
}
