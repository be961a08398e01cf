package bus

import "gones/internal/state"

// Serialize registers every component's state with ar under name, as a
// single top-level entry point. Timing counters that are purely host-side
// bookkeeping (totalCycles, frameCount, the execution log) are not
// archived; cpuCycles/ppuCycles are, since the mapper and frame-sequencer
// timing depend on where in the clock the machine was stopped.
func (b *Bus) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		b.CPU.Serialize(ar, "cpu")
		b.PPU.Serialize(ar, "ppu")
		b.APU.Serialize(ar, "apu")
		b.Memory.Serialize(ar, "memory")
		b.Input.Serialize(ar, "input")
		if b.cart != nil {
			b.cart.Serialize(ar, "cartridge")
		}

		state.Scalar(ar, "cpu_cycles", &b.cpuCycles)
		state.Scalar(ar, "ppu_cycles", &b.ppuCycles)
		state.Bool(ar, "nmi_pending", &b.nmiPending)
		state.Scalar(ar, "dma_suspend_cycles", &b.dmaSuspendCycles)
		state.Bool(ar, "dma_in_progress", &b.dmaInProgress)
	})
}

// SaveState writes the machine's full state to filename.
func (b *Bus) SaveState(filename string) error {
	return state.Save(b, "nes", filename)
}

// LoadState restores the machine's full state from filename.
func (b *Bus) LoadState(filename string) error {
	return state.Load(b, "nes", filename)
}
