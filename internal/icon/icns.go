package icon

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// containerMagic opens every ICNS file.
	containerMagic = "icns"
	// tocType is the table-of-contents entry written before the renditions.
	tocType = "TOC "
	// headerSize is the size of the file header and of each entry header.
	headerSize = 8
	// typeSize is the length of an OSType code.
	typeSize = 4
)

var (
	errBadMagic        = errors.New("not an icns container")
	errLengthMismatch  = errors.New("container length does not match header")
	errTruncatedEntry  = errors.New("truncated icns entry")
	errTOCMismatch     = errors.New("table of contents does not match entries")
	errInvalidTypeCode = errors.New("icns type code must be four bytes")
)

// Entry is one element of an ICNS container.
type Entry struct {
	// Type is the four-character OSType, e.g. "ic10".
	Type string
	// Data is the payload; for the rendition types used here, a PNG stream.
	Data []byte
}

// Encode packs entries into an ICNS container.
// Layout (all integers big-endian uint32):
//
//	"icns" | total length
//	"TOC " | 8 + 8*len(entries) | (type | entry length)...
//	type   | 8 + len(data)      | data               (for each entry, in order)
func Encode(entries []Entry) ([]byte, error) {
	tocLength := headerSize + headerSize*len(entries)
	total := headerSize + tocLength

	for _, e := range entries {
		if len(e.Type) != typeSize {
			return nil, fmt.Errorf("%q: %w", e.Type, errInvalidTypeCode)
		}

		total += headerSize + len(e.Data)
	}

	buf := bytes.NewBuffer(make([]byte, 0, total))

	writeHeader(buf, containerMagic, total)
	writeHeader(buf, tocType, tocLength)

	for _, e := range entries {
		writeHeader(buf, e.Type, headerSize+len(e.Data))
	}

	for _, e := range entries {
		writeHeader(buf, e.Type, headerSize+len(e.Data))
		buf.Write(e.Data)
	}

	return buf.Bytes(), nil
}

// Decode parses an ICNS container and returns its entries without the table of contents.
// When a table of contents is present it must agree with the entries that follow it.
func Decode(data []byte) ([]Entry, error) {
	if len(data) < headerSize || string(data[:typeSize]) != containerMagic {
		return nil, errBadMagic
	}

	if int(binary.BigEndian.Uint32(data[typeSize:headerSize])) != len(data) {
		return nil, errLengthMismatch
	}

	var (
		entries []Entry
		toc     []tocEntry
	)

	for offset := headerSize; offset < len(data); {
		if len(data)-offset < headerSize {
			return nil, errTruncatedEntry
		}

		kind := string(data[offset : offset+typeSize])
		length := int(binary.BigEndian.Uint32(data[offset+typeSize : offset+headerSize]))

		if length < headerSize || offset+length > len(data) {
			return nil, fmt.Errorf("%s at %d: %w", kind, offset, errTruncatedEntry)
		}

		payload := data[offset+headerSize : offset+length]
		offset += length

		if kind == tocType {
			toc = parseTOC(payload)
			continue
		}

		entries = append(entries, Entry{Type: kind, Data: payload})
	}

	if toc != nil && !tocMatches(toc, entries) {
		return nil, errTOCMismatch
	}

	return entries, nil
}

func writeHeader(buf *bytes.Buffer, kind string, length int) {
	var size [4]byte

	binary.BigEndian.PutUint32(size[:], uint32(length)) //nolint:gosec // Lengths are bounded by rendition sizes.

	buf.WriteString(kind)
	buf.Write(size[:])
}

// tocEntry is one (type, entry length) pair of the table of contents.
type tocEntry struct {
	kind   string
	length int
}

func parseTOC(payload []byte) []tocEntry {
	toc := make([]tocEntry, 0, len(payload)/headerSize)

	for i := 0; i+headerSize <= len(payload); i += headerSize {
		toc = append(toc, tocEntry{
			kind:   string(payload[i : i+typeSize]),
			length: int(binary.BigEndian.Uint32(payload[i+typeSize : i+headerSize])),
		})
	}

	return toc
}

func tocMatches(toc []tocEntry, entries []Entry) bool {
	if len(toc) != len(entries) {
		return false
	}

	for i := range toc {
		if toc[i].kind != entries[i].Type || toc[i].length != headerSize+len(entries[i].Data) {
			return false
		}
	}

	return true
}
