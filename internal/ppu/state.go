package ppu

import "gones/internal/state"

// Serialize registers the PPU's scroll/render pipeline state with ar. The
// frame buffer itself is not archived: it is fully reconstructed from the
// first post-load frame's rendering.
func (p *PPU) Serialize(ar *state.Archive, name string) {
	ar.Namespace(name, func() {
		state.Scalar(ar, "ctrl", &p.ppuCtrl)
		state.Scalar(ar, "mask", &p.ppuMask)
		state.Scalar(ar, "status", &p.ppuStatus)
		state.Scalar(ar, "oam_addr", &p.oamAddr)

		state.Scalar(ar, "v", &p.v)
		state.Scalar(ar, "t", &p.t)
		state.Scalar(ar, "x", &p.x)
		state.Bool(ar, "w", &p.w)

		state.Scalar(ar, "read_buffer", &p.readBuffer)

		state.Scalar(ar, "scanline", &p.scanline)
		state.Scalar(ar, "cycle", &p.cycle)
		state.Scalar(ar, "frame", &p.frame)
		state.Bool(ar, "odd_frame", &p.oddFrame)

		state.Bytes(ar, "oam", p.oam[:])
		state.Bytes(ar, "secondary_oam", p.secondaryOAM[:])
		state.Scalar(ar, "sprite_count", &p.spriteCount)
		state.Bool(ar, "sprite_zero_on_scanline", &p.spriteZeroOnScanline)

		state.Bytes(ar, "sprite_pattern_lo", p.spritePatternLo[:])
		state.Bytes(ar, "sprite_pattern_hi", p.spritePatternHi[:])
		state.Bytes(ar, "sprite_attr", p.spriteAttr[:])
		state.Bytes(ar, "sprite_x", p.spriteX[:])
		for i := range p.spriteIsZero {
			state.Bool(ar, sliceName("sprite_is_zero", i), &p.spriteIsZero[i])
		}

		state.Scalar(ar, "bg_pattern_lo", &p.bgPatternLo)
		state.Scalar(ar, "bg_pattern_hi", &p.bgPatternHi)
		state.Scalar(ar, "bg_attr_lo", &p.bgAttrLo)
		state.Scalar(ar, "bg_attr_hi", &p.bgAttrHi)

		state.Scalar(ar, "next_tile_id", &p.nextTileID)
		state.Scalar(ar, "next_attr", &p.nextAttr)
		state.Scalar(ar, "next_pattern_lo", &p.nextPatternLo)
		state.Scalar(ar, "next_pattern_hi", &p.nextPatternHi)

		p.memory.Serialize(ar, "memory")
	})
}

func sliceName(base string, i int) string {
	const digits = "0123456789"
	if i < 10 {
		return base + "_" + string(digits[i])
	}
	return base + "_" + string(digits[i/10]) + string(digits[i%10])
}
