package state

import (
	"fmt"
	"os"
)

// Serializable is implemented by every component that has archivable state:
// the CPU, PPU, APU, memory, cartridge/mapper, and controllers. Serialize
// registers the component's fields with the archive under name, typically
// by wrapping its body in ar.Namespace(name, func() { ... }).
type Serializable interface {
	Serialize(ar *Archive, name string)
}

// Save writes root's full state tree to filename in the dotted-namespace
// hex archive format.
func Save(root Serializable, name, filename string) error {
	ar := NewArchive()
	root.Serialize(ar, name)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("state: create %s: %w", filename, err)
	}
	defer f.Close()

	if err := ar.Write(f); err != nil {
		return fmt.Errorf("state: write %s: %w", filename, err)
	}
	return nil
}

// Load reads filename back into root. Fields registered by root that are
// absent from the file are left unchanged; fields present in the file but
// no longer registered are ignored.
func Load(root Serializable, name, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("state: open %s: %w", filename, err)
	}
	defer f.Close()

	ar := NewArchive()
	root.Serialize(ar, name)

	if err := ar.Read(f); err != nil {
		return fmt.Errorf("state: read %s: %w", filename, err)
	}
	return nil
}
