package bus

// Test helper methods for bus testing

// SetFrameBufferForTesting sets a frame buffer for testing purposes
func (b *Bus) SetFrameBufferForTesting(frameBuffer [256 * 240]uint32) {
	if b.PPU != nil {
		b.PPU.SetFrameBufferForTesting(frameBuffer)
	}
}

// StepWithError executes one emulation step and returns any error (exposed
// for testing). The bus's core Step() never fails, so this always returns
// nil; it exists to match the error-returning step signature some tests use.
func (b *Bus) StepWithError() error {
	b.Step()
	return nil
}