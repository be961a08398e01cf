package cartridge

import "gones/internal/state"

// Serialize registers the bank map's window assignments. bankSize and
// bankCount are derived from the loaded ROM at load time rather than
// archived, so only the mutable window table needs to round-trip.
func (bm *BankMap) Serialize(ar *state.Archive, name string) {
	state.Slice(ar, name, bm.windows)
}

// Serialize registers the cartridge's battery-backed PRG-RAM and nametable
// VRAM, then delegates to the active mapper for its own bank/IRQ state.
func (c *Cartridge) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Bytes(ar, "prgram", c.PRGRAM)
		state.Bytes(ar, "nametables", c.nametables[:])
		if c.chrIsRAM {
			state.Bytes(ar, "chrram", c.CHRROM)
		}
		if serializer, ok := c.mapper.(mapperState); ok {
			serializer.serializeMapper(ar)
		}
	})
}

// mapperState is implemented by mappers with bank-switch or IRQ registers
// that must survive a save/load round trip.
type mapperState interface {
	serializeMapper(ar *state.Archive)
}
