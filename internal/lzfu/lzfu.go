// Package lzfu decompresses the compressed RTF format mail stores use to keep
// rich text message bodies.
package lzfu

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	headerSize = 16
	dictSize   = 4096

	// maxExpansion bounds the output of one input byte: a two byte
	// reference expands to at most 17 bytes.
	maxExpansion = 9

	magicCompressed   = 0x75465a4c // "LZFu"
	magicUncompressed = 0x414c454d // "MELA"
)

// prebuf is the initial content of the dictionary.
const prebuf = "{\\rtf1\\ansi\\mac\\deff0\\deftab720{\\fonttbl;}" +
	"{\\f0\\fnil \\froman \\fswiss \\fmodern \\fscript " +
	"\\fdecor MS Sans SerifSymbolArialTimes New RomanCourier" +
	"{\\colortbl\\red0\\green0\\blue0\r\n\\par " +
	"\\pard\\plain\\f0\\fs20\\b\\i\\u\\tab\\tx"

// Errors returned by Decompress.
var (
	// ErrShortHeader is returned when the input cannot hold a header.
	ErrShortHeader = errors.New("compressed rtf header is truncated")

	// ErrUnknownMagic is returned when the header names neither the
	// compressed nor the uncompressed form.
	ErrUnknownMagic = errors.New("compressed rtf has unknown magic")
)

// Header is the fixed header at the start of a compressed RTF stream.
type Header struct {
	CompressedSize uint32
	RawSize        uint32
	Magic          uint32
	CRC            uint32
}

// ParseHeader reads the header from the first bytes of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < headerSize {
		return Header{}, ErrShortHeader
	}

	return Header{
		CompressedSize: binary.LittleEndian.Uint32(data[0:]),
		RawSize:        binary.LittleEndian.Uint32(data[4:]),
		Magic:          binary.LittleEndian.Uint32(data[8:]),
		CRC:            binary.LittleEndian.Uint32(data[12:]),
	}, nil
}

// Decompress returns the RTF text held in data. A stream that ends early
// yields whatever was decoded before the end.
func Decompress(data []byte) ([]byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	in := data[headerSize:]
	switch h.Magic {
	case magicUncompressed:
		if int(h.RawSize) < len(in) {
			in = in[:h.RawSize]
		}
		return append([]byte(nil), in...), nil
	case magicCompressed:
	default:
		return nil, fmt.Errorf("%w: %#08x", ErrUnknownMagic, h.Magic)
	}

	var dict [dictSize]byte
	copy(dict[:], prebuf)
	wpos := len(prebuf)

	// RawSize comes from the stream and is not trusted for the allocation.
	out := make([]byte, 0, min(int(h.RawSize), maxExpansion*len(in)))
	put := func(b byte) {
		out = append(out, b)
		dict[wpos] = b
		wpos = (wpos + 1) % dictSize
	}

	ix := 0
	for ix < len(in) && len(out) < int(h.RawSize) {
		ctrl := in[ix]
		ix++

		for bit := 0; bit < 8 && ix < len(in); bit++ {
			if ctrl&(1<<bit) == 0 {
				put(in[ix])
				ix++
				continue
			}

			if ix+1 >= len(in) {
				return out, nil
			}

			ref := binary.BigEndian.Uint16(in[ix:])
			ix += 2

			off := int(ref >> 4)
			n := int(ref&0x0f) + 2
			if off == wpos {
				return out, nil
			}

			for i := 0; i < n; i++ {
				put(dict[(off+i)%dictSize])
			}
		}
	}

	if len(out) > int(h.RawSize) {
		out = out[:h.RawSize]
	}

	return out, nil
}
