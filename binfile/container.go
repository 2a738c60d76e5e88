// Package binfile decodes the binary container formats produced by the
// circom toolchain: the r1cs circuit definition and the wtns per-step
// witness. Both formats share the same framing, a magic and version followed
// by a sequence of (type, size)-headed sections; the section index is built
// in a single forward scan and bodies are decoded afterwards by seeking to
// the recorded offsets. All inputs are untrusted: every malformation is
// reported as an error, never a panic.
package binfile

import (
	"encoding/binary"
	"fmt"
	"io"
)

type section struct {
	offset int64
	size   uint64
}

type container struct {
	r           io.ReadSeeker
	version     uint32
	numSections uint32
	sections    map[uint32]section
}

func readU32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func readU64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// openContainer validates the magic and version, then scans the declared
// sections once, recording each body's offset and size. Duplicate section
// types are rejected: a duplicate only appears in a corrupt or adversarial
// file, and keeping the last occurrence would make the parse depend on file
// order.
func openContainer(r io.ReadSeeker, magic [4]byte, minVersion, maxVersion uint32) (*container, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, fmt.Errorf("%w: reading magic: %v", ErrMalformedContainer, err)
	}
	if m != magic {
		return nil, fmt.Errorf("%w: bad magic %x", ErrMalformedContainer, m)
	}

	version, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading version: %v", ErrMalformedContainer, err)
	}
	if version < minVersion || version > maxVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrMalformedContainer, version)
	}

	numSections, err := readU32(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading section count: %v", ErrMalformedContainer, err)
	}

	c := &container{
		r:           r,
		version:     version,
		numSections: numSections,
		sections:    make(map[uint32]section, numSections),
	}
	for i := uint32(0); i < numSections; i++ {
		typ, err := readU32(r)
		if err != nil {
			return nil, fmt.Errorf("%w: stream ends at section %d of %d", ErrMalformedContainer, i, numSections)
		}
		size, err := readU64(r)
		if err != nil {
			return nil, fmt.Errorf("%w: stream ends at section %d of %d", ErrMalformedContainer, i, numSections)
		}
		offset, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		if _, dup := c.sections[typ]; dup {
			return nil, fmt.Errorf("%w: duplicate section type %d", ErrMalformedContainer, typ)
		}
		if size > uint64(end-offset) {
			return nil, fmt.Errorf("%w: section type %d overruns the stream", ErrMalformedContainer, typ)
		}
		c.sections[typ] = section{offset: offset, size: size}
		if _, err := r.Seek(int64(size), io.SeekCurrent); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// sectionReader seeks to a section body and returns a reader limited to its
// declared size.
func (c *container) sectionReader(typ uint32) (*io.LimitedReader, uint64, error) {
	s, ok := c.sections[typ]
	if !ok {
		return nil, 0, fmt.Errorf("%w: missing section type %d", ErrMalformedContainer, typ)
	}
	if _, err := c.r.Seek(s.offset, io.SeekStart); err != nil {
		return nil, 0, err
	}
	return &io.LimitedReader{R: c.r, N: int64(s.size)}, s.size, nil
}

// truncated maps a short read inside a declared section body onto the
// section-level error class.
func truncated(err error, what string) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return fmt.Errorf("%w: %s", ErrTruncatedSection, what)
	}
	return err
}
