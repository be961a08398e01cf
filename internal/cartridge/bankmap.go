package cartridge

// BankMap is a generic window->bank translation table, parameterized by a
// fixed bank size and a fixed window count. Mappers hold one BankMap per
// address space they bank-switch (PRG, CHR, ...).
type BankMap struct {
	bankSize  int
	windows   []int
	bankCount int
}

// NewBankMap creates a bank map with the given bank size (bytes) and
// window count. Windows start out identity-mapped (window i -> bank i).
func NewBankMap(bankSize, windowCount int) *BankMap {
	bm := &BankMap{
		bankSize:  bankSize,
		windows:   make([]int, windowCount),
		bankCount: 1,
	}
	for i := range bm.windows {
		bm.windows[i] = i
	}
	return bm
}

// Resize recomputes the bank count from a physical capacity in bytes.
func (bm *BankMap) Resize(capacity int) {
	if capacity > 0 {
		bm.bankCount = capacity / bm.bankSize
	} else {
		bm.bankCount = 1
	}
	if bm.bankCount == 0 {
		bm.bankCount = 1
	}
}

// Select assigns a physical bank to a window. Negative indices count from
// the end of the ROM (-1 = last bank); non-negative indices wrap modulo
// the bank count, which mirrors small ROMs into larger window spans.
func (bm *BankMap) Select(window, bank int) {
	if bank < 0 {
		bm.windows[window] = bm.bankCount + bank
	} else {
		bm.windows[window] = bank % bm.bankCount
	}
}

// Bank returns the physical bank currently assigned to a window.
func (bm *BankMap) Bank(window int) int {
	if window < 0 || window >= len(bm.windows) {
		return 0
	}
	return bm.windows[window]
}

// Map translates a local address (relative to the start of the banked
// region) into a physical offset. The result is always within
// [0, bankCount*bankSize), regardless of how windows were selected.
func (bm *BankMap) Map(addr int) int {
	offset := addr % bm.bankSize
	window := addr / bm.bankSize
	base := bm.windows[window] * bm.bankSize
	return base + offset
}
