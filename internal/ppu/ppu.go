// Package ppu implements the Picture Processing Unit for the NES.
package ppu

import (
	"gones/internal/memory"
)

// PPU represents the NES Picture Processing Unit (2C02).
type PPU struct {
	// CPU-visible registers
	ppuCtrl   uint8
	ppuMask   uint8
	ppuStatus uint8
	oamAddr   uint8

	// Loopy scroll registers: v is the current VRAM address, t the
	// temporary address latched by $2005/$2006 writes, x the fine X
	// scroll, w the shared write-toggle for both registers.
	v uint16
	t uint16
	x uint8
	w bool

	readBuffer uint8

	memory *memory.PPUMemory

	scanline int // 0-239 visible, 240 post-render, 241-260 vblank, 261 pre-render
	cycle    int // 0-340
	frame    uint64
	oddFrame bool

	oam [256]uint8

	secondaryOAM  [8 * 4]uint8
	spriteCount   int
	spriteZeroOnScanline bool

	// Per-sprite shift registers, loaded during cycles 257-320 for the
	// *next* scanline's 8 active sprites.
	spritePatternLo [8]uint8
	spritePatternHi [8]uint8
	spriteAttr      [8]uint8
	spriteX         [8]uint8
	spriteIsZero    [8]bool

	// Background tile pipeline: a 16-bit shift register per plane, fed
	// one byte at a time from the latches below every 8 cycles.
	bgPatternLo uint16
	bgPatternHi uint16
	bgAttrLo    uint16
	bgAttrHi    uint16

	nextTileID   uint8
	nextAttr     uint8
	nextPatternLo uint8
	nextPatternHi uint8

	frameBuffer [256 * 240]uint32

	nmiCallback           func()
	frameCompleteCallback func()
}

// New creates a new PPU instance.
func New() *PPU {
	p := &PPU{
		scanline: 261, // power up into the pre-render line
	}
	return p
}

// Reset returns the PPU to its post-power-up state.
func (p *PPU) Reset() {
	p.ppuCtrl = 0
	p.ppuMask = 0
	p.ppuStatus = 0xA0
	p.oamAddr = 0

	p.v, p.t = 0, 0
	p.x = 0
	p.w = false
	p.readBuffer = 0

	p.scanline = 261
	p.cycle = 0
	p.frame = 0
	p.oddFrame = false

	p.spriteCount = 0
	p.bgPatternLo, p.bgPatternHi = 0, 0
	p.bgAttrLo, p.bgAttrHi = 0, 0

	for i := range p.oam {
		p.oam[i] = 0xFF
	}
	for i := range p.frameBuffer {
		p.frameBuffer[i] = 0
	}
}

// SetMemory sets the PPU memory interface.
func (p *PPU) SetMemory(m *memory.PPUMemory) { p.memory = m }

// SetNMICallback sets the function invoked when the PPU asserts NMI.
func (p *PPU) SetNMICallback(callback func()) { p.nmiCallback = callback }

// SetFrameCompleteCallback sets the function invoked at the start of a new frame.
func (p *PPU) SetFrameCompleteCallback(callback func()) { p.frameCompleteCallback = callback }

// GetFrameBuffer returns the last-rendered frame as packed 0x00RRGGBB pixels.
func (p *PPU) GetFrameBuffer() *[256 * 240]uint32 { return &p.frameBuffer }

// GetFrameCount returns the number of frames completed since reset.
func (p *PPU) GetFrameCount() uint64 { return p.frame }

// SetFrameCount forces the frame counter, used when a host resynchronizes
// its own counter against the PPU's (e.g. after a state load).
func (p *PPU) SetFrameCount(frame uint64) { p.frame = frame }

// IsFrameReady reports whether the PPU just landed on the first dot of a
// new frame (cycle 0, scanline 0).
func (p *PPU) IsFrameReady() bool { return p.cycle == 0 && p.scanline == 0 }

func (p *PPU) renderingEnabled() bool { return p.ppuMask&0x18 != 0 }
func (p *PPU) showBackground() bool   { return p.ppuMask&0x08 != 0 }
func (p *PPU) showSprites() bool      { return p.ppuMask&0x10 != 0 }

// ReadRegister reads from a PPU register (CPU $2000-$2007, mirrored every 8).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		status := p.ppuStatus
		p.ppuStatus &= 0x7F // clear VBlank flag
		p.w = false
		return status
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readPPUData()
	default:
		return p.ppuStatus & 0x1F
	}
}

// WriteRegister writes to a PPU register (CPU $2000-$2007, mirrored every 8).
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		p.ppuCtrl = value
		p.t = (p.t & 0xF3FF) | ((uint16(value) & 0x03) << 10)
	case 0x2001:
		p.ppuMask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		p.writeScroll(value)
	case 0x2006:
		p.writeAddr(value)
	case 0x2007:
		p.writePPUData(value)
	}
}

func (p *PPU) writeScroll(value uint8) {
	if !p.w {
		p.x = value & 0x07
		p.t = (p.t & 0xFFE0) | (uint16(value) >> 3)
	} else {
		p.t = (p.t & 0xFC1F) | ((uint16(value) >> 3) << 5)
		p.t = (p.t & 0x8FFF) | ((uint16(value) & 0x07) << 12)
	}
	p.w = !p.w
}

func (p *PPU) writeAddr(value uint8) {
	if !p.w {
		p.t = (p.t & 0x00FF) | ((uint16(value) & 0x3F) << 8)
	} else {
		p.t = (p.t & 0xFF00) | uint16(value)
		p.v = p.t
	}
	p.w = !p.w
}

func (p *PPU) addressIncrement() uint16 {
	if p.ppuCtrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readPPUData() uint8 {
	addr := p.v & 0x3FFF
	data := p.readBuffer
	p.readBuffer = p.memory.Read(addr)
	if addr >= 0x3F00 {
		data = p.readBuffer
	}
	p.v += p.addressIncrement()
	return data
}

func (p *PPU) writePPUData(value uint8) {
	p.memory.Write(p.v&0x3FFF, value)
	p.v += p.addressIncrement()
}

// WriteOAM writes to OAM directly, used by the bus for $4014 DMA.
func (p *PPU) WriteOAM(address uint8, value uint8) { p.oam[address] = value }

// --- loopy v/t helpers, grounded on the 15-bit decomposition yyy NN YYYYY XXXXX ---

func (p *PPU) incrementScrollX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

func (p *PPU) incrementScrollY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyScrollX() {
	p.v = (p.v &^ 0x041F) | (p.t & 0x041F)
}

func (p *PPU) copyScrollY() {
	p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0)
}

// --- background tile pipeline ---

func (p *PPU) fetchNametableByte() {
	p.nextTileID = p.memory.Read(0x2000 | (p.v & 0x0FFF))
}

func (p *PPU) fetchAttributeByte() {
	addr := 0x23C0 | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
	attr := p.memory.Read(addr)
	shift := ((p.v >> 4) & 0x04) | (p.v & 0x02)
	p.nextAttr = (attr >> shift) & 0x03
}

func (p *PPU) fetchPatternLow() {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0)
	if p.ppuCtrl&0x10 != 0 {
		base = 0x1000
	}
	p.nextPatternLo = p.memory.Read(base + uint16(p.nextTileID)*16 + fineY)
}

func (p *PPU) fetchPatternHigh() {
	fineY := (p.v >> 12) & 0x07
	base := uint16(0)
	if p.ppuCtrl&0x10 != 0 {
		base = 0x1000
	}
	p.nextPatternHi = p.memory.Read(base + uint16(p.nextTileID)*16 + 8 + fineY)
}

func (p *PPU) loadBackgroundShifters() {
	p.bgPatternLo = (p.bgPatternLo & 0xFF00) | uint16(p.nextPatternLo)
	p.bgPatternHi = (p.bgPatternHi & 0xFF00) | uint16(p.nextPatternHi)
	lo, hi := uint16(0), uint16(0)
	if p.nextAttr&0x01 != 0 {
		lo = 0x00FF
	}
	if p.nextAttr&0x02 != 0 {
		hi = 0x00FF
	}
	p.bgAttrLo = (p.bgAttrLo & 0xFF00) | lo
	p.bgAttrHi = (p.bgAttrHi & 0xFF00) | hi
}

func (p *PPU) shiftBackground() {
	p.bgPatternLo <<= 1
	p.bgPatternHi <<= 1
	p.bgAttrLo <<= 1
	p.bgAttrHi <<= 1
}

func (p *PPU) shiftSprites() {
	for i := 0; i < p.spriteCount; i++ {
		if p.spriteX[i] > 0 {
			p.spriteX[i]--
		} else {
			p.spritePatternLo[i] <<= 1
			p.spritePatternHi[i] <<= 1
		}
	}
}

// --- sprite evaluation (cycles 1-64 clear, 65-256 evaluate, 257-320 fetch) ---

func (p *PPU) clearSecondaryOAM() {
	for i := range p.secondaryOAM {
		p.secondaryOAM[i] = 0xFF
	}
}

// evaluateSpritesForScanline scans primary OAM for sprites visible on the
// scanline about to be rendered, capping at 8 and raising the overflow
// flag if a 9th is found (without replicating the hardware's buggy
// diagonal-scan overflow detection).
func (p *PPU) evaluateSpritesForScanline(scanline int) {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}

	found := 0
	p.spriteZeroOnScanline = false
	for i := 0; i < 64; i++ {
		y := int(p.oam[i*4])
		diff := scanline - y
		if diff < 0 || diff >= height {
			continue
		}
		if found < 8 {
			copy(p.secondaryOAM[found*4:found*4+4], p.oam[i*4:i*4+4])
			if i == 0 {
				p.spriteZeroOnScanline = true
			}
			found++
		} else {
			p.ppuStatus |= 0x20
			break
		}
	}
	p.spriteCount = found
}

func flipByte(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r = (r << 1) | (b & 1)
		b >>= 1
	}
	return r
}

// loadSpriteShifters fetches pattern data for the sprites found during
// evaluation, to be rendered on the upcoming scanline.
func (p *PPU) loadSpriteShifters(scanline int) {
	height := 8
	if p.ppuCtrl&0x20 != 0 {
		height = 16
	}
	spriteBase := uint16(0)
	if p.ppuCtrl&0x08 != 0 {
		spriteBase = 0x1000
	}

	for i := 0; i < p.spriteCount; i++ {
		y := int(p.secondaryOAM[i*4])
		tile := p.secondaryOAM[i*4+1]
		attr := p.secondaryOAM[i*4+2]
		x := p.secondaryOAM[i*4+3]

		row := scanline - y
		flipV := attr&0x80 != 0
		flipH := attr&0x40 != 0

		var patternAddr uint16
		if height == 16 {
			if flipV {
				row = 15 - row
			}
			table := uint16(tile&0x01) * 0x1000
			cell := uint16(tile &^ 0x01)
			if row >= 8 {
				cell++
				row -= 8
			}
			patternAddr = table + cell*16 + uint16(row)
		} else {
			if flipV {
				row = 7 - row
			}
			patternAddr = spriteBase + uint16(tile)*16 + uint16(row)
		}

		lo := p.memory.Read(patternAddr)
		hi := p.memory.Read(patternAddr + 8)
		if flipH {
			lo = flipByte(lo)
			hi = flipByte(hi)
		}

		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
		p.spriteAttr[i] = attr
		p.spriteX[i] = x
		p.spriteIsZero[i] = p.spriteZeroOnScanline && i == 0
	}
}

// --- pixel compositing ---

type pixel struct {
	value      uint8
	palette    uint8
	priority   bool
	isSpriteZero bool
}

func (p *PPU) backgroundPixel() pixel {
	shift := uint16(15 - p.x)
	lo := (p.bgPatternLo >> shift) & 1
	hi := (p.bgPatternHi >> shift) & 1
	palLo := (p.bgAttrLo >> shift) & 1
	palHi := (p.bgAttrHi >> shift) & 1
	return pixel{
		value:   uint8(hi<<1 | lo),
		palette: uint8(palHi<<1 | palLo),
	}
}

func (p *PPU) spritePixel() pixel {
	for i := 0; i < p.spriteCount; i++ {
		if p.spriteX[i] != 0 {
			continue
		}
		lo := (p.spritePatternLo[i] >> 7) & 1
		hi := (p.spritePatternHi[i] >> 7) & 1
		val := hi<<1 | lo
		if val == 0 {
			continue
		}
		return pixel{
			value:        val,
			palette:      4 + p.spriteAttr[i]&0x03,
			priority:     p.spriteAttr[i]&0x20 != 0,
			isSpriteZero: p.spriteIsZero[i],
		}
	}
	return pixel{}
}

func composite(bg, fg pixel) pixel {
	switch {
	case bg.value == 0 && fg.value == 0:
		return pixel{}
	case bg.value > 0 && fg.value == 0:
		return bg
	case bg.value == 0 && fg.value > 0:
		return fg
	default:
		if !fg.priority {
			return fg
		}
		return bg
	}
}

func (p *PPU) paletteColor(pal, value uint8) uint32 {
	addr := 0x3F00 + uint16(pal)*4 + uint16(value)
	idx := p.memory.Read(addr) & 0x3F
	return palette2C02[idx]
}

func (p *PPU) renderPixel(x, y int) {
	var bg, fg pixel
	bgShown, fgShown := false, false
	if p.showBackground() {
		bg = p.backgroundPixel()
		bgShown = true
	}
	if p.showSprites() {
		fg = p.spritePixel()
		fgShown = true
	}

	hitCandidateBG, hitCandidateFG := bg.value, fg.value

	if x < 8 && p.ppuMask&0x02 == 0 {
		bg = pixel{}
	}
	if x < 8 && p.ppuMask&0x04 == 0 {
		fg = pixel{}
	}

	final := composite(bg, fg)
	p.frameBuffer[y*256+x] = p.paletteColor(final.palette, final.value)

	if fg.isSpriteZero && bgShown && fgShown &&
		hitCandidateBG != 0 && hitCandidateFG != 0 &&
		x != 255 && p.ppuStatus&0x40 == 0 {
		p.ppuStatus |= 0x40
	}
}

// Step advances the PPU by one PPU clock (one dot).
func (p *PPU) Step() {
	rendering := p.renderingEnabled()

	if (p.scanline >= 0 && p.scanline <= 239) || p.scanline == 261 {
		if (p.cycle >= 1 && p.cycle <= 256) || (p.cycle >= 321 && p.cycle <= 337) {
			switch p.cycle % 8 {
			case 1:
				p.loadBackgroundShifters()
				p.fetchNametableByte()
			case 3:
				p.fetchAttributeByte()
			case 5:
				p.fetchPatternLow()
			case 7:
				p.fetchPatternHigh()
			case 0:
				if rendering {
					p.incrementScrollX()
				}
			}
		}

		if p.cycle == 256 && rendering {
			p.incrementScrollY()
		}
		if p.cycle == 257 {
			p.loadBackgroundShifters()
			if rendering {
				p.copyScrollX()
			}
		}
		if p.cycle >= 280 && p.cycle <= 304 && p.scanline == 261 && rendering {
			p.copyScrollY()
		}

		if p.cycle >= 1 && p.cycle <= 64 && p.scanline != 261 && p.cycle == 1 {
			p.clearSecondaryOAM()
		}
		if p.cycle == 65 && p.scanline != 261 {
			p.evaluateSpritesForScanline(p.scanline + 1)
		}
		if p.cycle == 257 && p.scanline != 261 {
			p.loadSpriteShifters(p.scanline + 1)
		}
	}

	if p.scanline == 241 && p.cycle == 1 {
		p.ppuStatus |= 0x80
		if p.ppuCtrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}

	if p.scanline == 261 && p.cycle == 1 {
		p.ppuStatus &^= 0xE0 // clear VBlank, sprite overflow, sprite 0 hit
	}

	if p.scanline >= 0 && p.scanline <= 239 && p.cycle >= 1 && p.cycle <= 256 {
		p.renderPixel(p.cycle-1, p.scanline)
		if p.showBackground() {
			p.shiftBackground()
		}
		if p.showSprites() {
			p.shiftSprites()
		}
	}

	p.advanceDot()
}

func (p *PPU) advanceDot() {
	if p.cycle == 339 && p.scanline == 261 && p.oddFrame && p.renderingEnabled() {
		p.cycle = 0
		p.scanline = 0
		p.frame++
		p.oddFrame = !p.oddFrame
		if p.frameCompleteCallback != nil {
			p.frameCompleteCallback()
		}
		return
	}
	p.cycle++
	if p.cycle > 340 {
		p.cycle = 0
		p.scanline++
		if p.scanline > 261 {
			p.scanline = 0
			p.frame++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}
}

// Cycle and Scanline expose the PPU's current dot position, used by the
// cartridge's mapper IRQ hooks (mapper 4's scanline counter).
func (p *PPU) Cycle() int    { return p.cycle }
func (p *PPU) Scanline() int { return p.scanline }
