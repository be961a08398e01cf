package apu

import "gones/internal/state"

func (p *PulseChannel) serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Scalar(ar, "duty_cycle", &p.dutyCycle)
		state.Bool(ar, "envelope_loop", &p.envelopeLoop)
		state.Bool(ar, "envelope_disable", &p.envelopeDisable)
		state.Scalar(ar, "volume", &p.volume)

		state.Bool(ar, "sweep_enable", &p.sweepEnable)
		state.Scalar(ar, "sweep_period", &p.sweepPeriod)
		state.Bool(ar, "sweep_negate", &p.sweepNegate)
		state.Scalar(ar, "sweep_shift", &p.sweepShift)
		state.Bool(ar, "sweep_reload", &p.sweepReload)
		state.Scalar(ar, "sweep_counter", &p.sweepCounter)

		state.Scalar(ar, "timer", &p.timer)
		state.Scalar(ar, "timer_counter", &p.timerCounter)

		state.Scalar(ar, "length_counter", &p.lengthCounter)
		state.Bool(ar, "length_halt", &p.lengthHalt)

		state.Bool(ar, "envelope_start", &p.envelopeStart)
		state.Scalar(ar, "envelope_counter", &p.envelopeCounter)
		state.Scalar(ar, "envelope_divider", &p.envelopeDivider)

		state.Scalar(ar, "duty_index", &p.dutyIndex)
		state.Scalar(ar, "output", &p.output)
		state.Scalar(ar, "sequencer_pos", &p.sequencerPos)
	})
}

func (t *TriangleChannel) serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Bool(ar, "length_counter_halt", &t.lengthCounterHalt)
		state.Scalar(ar, "linear_counter_load", &t.linearCounterLoad)

		state.Scalar(ar, "timer", &t.timer)
		state.Scalar(ar, "timer_counter", &t.timerCounter)

		state.Scalar(ar, "length_counter", &t.lengthCounter)

		state.Scalar(ar, "linear_counter", &t.linearCounter)
		state.Bool(ar, "linear_counter_reload", &t.linearCounterReload)

		state.Scalar(ar, "sequencer_pos", &t.sequencerPos)
		state.Scalar(ar, "output", &t.output)
	})
}

func (n *NoiseChannel) serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Bool(ar, "envelope_loop", &n.envelopeLoop)
		state.Bool(ar, "envelope_disable", &n.envelopeDisable)
		state.Scalar(ar, "volume", &n.volume)

		state.Bool(ar, "mode", &n.mode)
		state.Scalar(ar, "period_index", &n.periodIndex)
		state.Scalar(ar, "timer_counter", &n.timerCounter)

		state.Scalar(ar, "length_counter", &n.lengthCounter)
		state.Bool(ar, "length_halt", &n.lengthHalt)

		state.Bool(ar, "envelope_start", &n.envelopeStart)
		state.Scalar(ar, "envelope_counter", &n.envelopeCounter)
		state.Scalar(ar, "envelope_divider", &n.envelopeDivider)

		state.Scalar(ar, "shift_register", &n.shiftRegister)
		state.Scalar(ar, "output", &n.output)
	})
}

func (d *DMCChannel) serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Scalar(ar, "sample_address", &d.sampleAddress)
		state.Scalar(ar, "sample_length", &d.sampleLength)
		state.Scalar(ar, "bytes_remaining", &d.bytesRemaining)
	})
}

// Serialize registers every channel plus the shared frame sequencer and
// channel-enable latches with ar under the given namespace (e.g. "nes.apu").
// The pending sample buffer is host audio plumbing, not NES state, and is
// not archived.
func (a *APU) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		a.pulse1.serialize(ar, "pulse1")
		a.pulse2.serialize(ar, "pulse2")
		a.triangle.serialize(ar, "triangle")
		a.noise.serialize(ar, "noise")
		a.dmc.serialize(ar, "dmc")

		state.Scalar(ar, "frame_counter", &a.frameCounter)
		state.Bool(ar, "frame_mode", &a.frameMode)
		state.Bool(ar, "frame_irq_enable", &a.frameIRQEnable)
		state.Scalar(ar, "frame_counter_step", &a.frameCounterStep)
		state.Bool(ar, "frame_irq_flag", &a.frameIRQFlag)

		for i := range a.channelEnable {
			state.Bool(ar, channelEnableName(i), &a.channelEnable[i])
		}

		state.Scalar(ar, "cycles", &a.cycles)
	})
}

func channelEnableName(i int) string {
	names := [5]string{"enable_pulse1", "enable_pulse2", "enable_triangle", "enable_noise", "enable_dmc"}
	return names[i]
}
