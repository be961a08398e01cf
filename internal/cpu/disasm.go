package cpu

import "fmt"

// Cycles returns the total CPU cycle count since reset.
func (cpu *CPU) Cycles() uint64 { return cpu.cycles }

// Instruction returns the instruction table entry for an opcode, or nil if
// the opcode has no decoding (not every opcode 0-255 has a table entry).
func (cpu *CPU) Instruction(opcode uint8) *Instruction {
	return cpu.instructions[opcode]
}

// operandBytes returns the 1 or 2 bytes following an instruction's opcode,
// without advancing PC or incurring bus side effects beyond the plain read.
func (cpu *CPU) operandBytes(pc uint16, instr *Instruction) []uint8 {
	if instr == nil || instr.Bytes <= 1 {
		return nil
	}
	out := make([]uint8, instr.Bytes-1)
	for i := range out {
		out[i] = cpu.memory.Read(pc + 1 + uint16(i))
	}
	return out
}

// formatOperand renders an instruction's operand bytes the way nestest's own
// log does: immediate/zero-page/absolute values in $hex, indexed forms with
// their index register, and relative branches resolved to an absolute target
// address rather than the raw signed displacement.
func (cpu *CPU) formatOperand(pc uint16, instr *Instruction, operands []uint8) string {
	switch instr.Mode {
	case Implied:
		return ""
	case Accumulator:
		return "A"
	case Immediate:
		return fmt.Sprintf("#$%02X", operands[0])
	case ZeroPage:
		return fmt.Sprintf("$%02X", operands[0])
	case ZeroPageX:
		return fmt.Sprintf("$%02X,X", operands[0])
	case ZeroPageY:
		return fmt.Sprintf("$%02X,Y", operands[0])
	case Relative:
		offset := int8(operands[0])
		target := uint16(int32(pc) + 2 + int32(offset))
		return fmt.Sprintf("$%04X", target)
	case Absolute:
		addr := uint16(operands[0]) | uint16(operands[1])<<8
		return fmt.Sprintf("$%04X", addr)
	case AbsoluteX:
		addr := uint16(operands[0]) | uint16(operands[1])<<8
		return fmt.Sprintf("$%04X,X", addr)
	case AbsoluteY:
		addr := uint16(operands[0]) | uint16(operands[1])<<8
		return fmt.Sprintf("$%04X,Y", addr)
	case Indirect:
		addr := uint16(operands[0]) | uint16(operands[1])<<8
		return fmt.Sprintf("($%04X)", addr)
	case IndexedIndirect:
		return fmt.Sprintf("($%02X,X)", operands[0])
	case IndirectIndexed:
		return fmt.Sprintf("($%02X),Y", operands[0])
	default:
		return ""
	}
}

// TraceLine formats the instruction about to execute at the current PC in
// the nestest log format: address, raw bytes, mnemonic and operand, then
// register state, PPU dot position, and cycle count. It performs no mutation
// and is safe to call before Step. ppuScanline/ppuCycle are the PPU's current
// scanline (0-261) and dot (0-340), as seen by a bus driving CPU and PPU in
// lockstep.
func (cpu *CPU) TraceLine(ppuScanline, ppuCycle int) string {
	pc := cpu.PC
	opcode := cpu.memory.Read(pc)
	instr := cpu.instructions[opcode]

	name := "???"
	operand := ""
	operands := cpu.operandBytes(pc, instr)
	if instr != nil {
		name = instr.Name
		operand = cpu.formatOperand(pc, instr, operands)
	}

	hex := fmt.Sprintf("%02X", opcode)
	for _, b := range operands {
		hex += fmt.Sprintf(" %02X", b)
	}

	asm := name
	if operand != "" {
		asm = name + " " + operand
	}

	return fmt.Sprintf("%04X  %-9s %-32s A:%02X X:%02X Y:%02X P:%02X SP:%02X PPU:%3d,%3d CYC:%d",
		pc, hex, asm, cpu.A, cpu.X, cpu.Y, cpu.GetStatusByte(), cpu.SP, ppuScanline, ppuCycle, cpu.cycles)
}
