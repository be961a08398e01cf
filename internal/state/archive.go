// Package state implements the dotted-namespace, hex-encoded save-state
// archive: a flat text format where every piece of emulator state is
// registered under a name like "nes.cpu.a" or "nes.ppu.oam" and written as
// whitespace-separated hex tokens.
package state

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Archive collects named properties in registration order and can write
// them out as (or load them back from) the text archive format.
type Archive struct {
	props      map[string]property
	order      []string
	namespaces []string
}

// NewArchive creates an empty archive.
func NewArchive() *Archive {
	return &Archive{props: make(map[string]property)}
}

func (ar *Archive) qualify(name string) string {
	if len(ar.namespaces) == 0 {
		return name
	}
	return strings.Join(ar.namespaces, ".") + "." + name
}

func (ar *Archive) register(name string, prop property) {
	qualified := ar.qualify(name)
	if _, exists := ar.props[qualified]; exists {
		panic("state: duplicate property name " + qualified)
	}
	ar.props[qualified] = prop
	ar.order = append(ar.order, qualified)
}

// EnterNamespace pushes a namespace component; subsequent registrations are
// qualified under it until the matching LeaveNamespace.
func (ar *Archive) EnterNamespace(name string) {
	ar.namespaces = append(ar.namespaces, name)
}

// LeaveNamespace pops the innermost namespace pushed by EnterNamespace.
func (ar *Archive) LeaveNamespace() {
	if len(ar.namespaces) == 0 {
		return
	}
	ar.namespaces = ar.namespaces[:len(ar.namespaces)-1]
}

// Namespace runs fn with name pushed onto the namespace stack, always
// popping it afterwards even if fn panics.
func (ar *Archive) Namespace(name string, fn func()) {
	ar.EnterNamespace(name)
	defer ar.LeaveNamespace()
	fn()
}

// Scalar registers a single integer- or enum-like field for serialization.
func Scalar[T Integer](ar *Archive, name string, ptr *T) {
	ar.register(name, &scalarProperty[T]{ptr: ptr})
}

// Bool registers a single boolean flag for serialization.
func Bool(ar *Archive, name string, ptr *bool) {
	ar.register(name, &boolProperty{ptr: ptr})
}

// Bytes registers a byte slice (typically a fixed array passed as data[:])
// for serialization, one hex byte per element.
func Bytes(ar *Archive, name string, data []uint8) {
	ar.register(name, &bytesProperty{data: data})
}

// Slice registers a slice of wider integers (e.g. mapper bank window
// tables), one hex token per element.
func Slice[T Integer](ar *Archive, name string, data []T) {
	ar.register(name, &sliceProperty[T]{data: data})
}

// Write renders the archive in registration order, one "name value..." line
// per property, wrapping wide arrays at 16 values per line.
func (ar *Archive) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, name := range ar.order {
		prop := ar.props[name]
		n := prop.count()
		if n == 1 {
			if _, err := fmt.Fprintf(bw, "%-20s %s\n", name, prop.toString(0)); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintf(bw, "%-20s\n", name); err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			sep := " "
			if i%16 == 15 || i == n-1 {
				sep = "\n"
			} else if i%16 == 7 {
				sep = "  "
			}
			if _, err := fmt.Fprintf(bw, "%s%s", prop.toString(i), sep); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// Read populates every registered property from the archive text format.
// Names present in the stream but not registered (e.g. from a newer or
// older version of this repo) are skipped; names registered but absent in
// the stream keep their current in-memory value.
func (ar *Archive) Read(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		name := scanner.Text()
		prop, ok := ar.props[name]
		if !ok {
			// Unknown name: consume and discard one token worth of values
			// only when we can't tell the count, so fall back to a single
			// token (matches the archive's "name value" common case).
			if scanner.Scan() {
				continue
			}
			break
		}

		for i := 0; i < prop.count(); i++ {
			if !scanner.Scan() {
				return fmt.Errorf("state: truncated archive while reading %q", name)
			}
			if err := prop.fromString(scanner.Text(), i); err != nil {
				return err
			}
		}
	}
	return scanner.Err()
}

// Names returns the registered property names sorted by name, for
// diagnostics and tests.
func (ar *Archive) Names() []string {
	out := append([]string(nil), ar.order...)
	sort.Strings(out)
	return out
}
