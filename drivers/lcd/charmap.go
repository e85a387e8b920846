package lcd

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const rcd = '�' // decoding replacement character

// Character ROM of the common HD44780 (ROM code A00): ASCII with a few
// substitutions, JIS X 0201 halfwidth katakana at 0xa1..0xdf and a block of
// greek letters and symbols at the top.
var decodeHigh = [...]rune{ // 0xe0..0xff
	'α', 'ä', 'β', 'ε', 'μ', 'σ', 'ρ', rcd,
	'√', rcd, rcd, rcd, '¢', rcd, 'ñ', 'ö',
	rcd, rcd, 'θ', '∞', 'Ω', 'ü', 'Σ', 'π',
	rcd, rcd, '千', '万', '円', '÷', ' ', '█',
}

// decodeRune maps one ROM code to a rune.
func decodeRune(c byte) rune {
	switch {
	case c >= 0x20 && c <= 0x7d:
		if c == 0x5c {
			return '¥'
		}
		return rune(c)
	case c == 0x7e:
		return '→'
	case c == 0x7f:
		return '←'
	case c >= 0xa1 && c <= 0xdf:
		return '｡' + rune(c-0xa1)
	case c >= 0xe0:
		return decodeHigh[c-0xe0]
	}
	return rcd
}

// fontCode maps one ROM code to the nearest glyph the OSD font can draw.
// Characters with no usable stand-in come out as spaces.
func fontCode(c byte) byte {
	switch {
	case c >= 0x20 && c <= 0x7d:
		return c
	case c == 0x7e: // right arrow
		return '>'
	case c == 0x7f: // left arrow
		return '<'
	case c == 0xdf: // degree sign
		return '*'
	case c == 0xff: // filled block
		return 0x7f
	}
	return ' '
}

// A00 decodes HD44780 ROM bytes to text. Only used off the hot path, for
// tests and tooling; the snoop itself goes straight to font codes.
var A00 encoding.Encoding = &charmap{}

type charmap struct{}

func (m *charmap) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{}}
}

func (m *charmap) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{}}
}

type decoder struct{}

func (d *decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for _, c := range src {
		r := decodeRune(c)
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc += 1
	}
	return nDst, nSrc, nil
}

func (d *decoder) Reset() {}

type encoder struct{}

var encode map[rune]byte

func init() {
	encode = make(map[rune]byte)
	for c := 0xff; c >= 0x20; c-- {
		if r := decodeRune(byte(c)); r != rcd {
			encode[r] = byte(c)
		}
	}
}

func (e *encoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size == 1 && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		c, ok := encode[r]
		if !ok {
			c = ' '
		}
		dst[nDst] = c
		nDst += 1
		nSrc += size
	}
	return nDst, nSrc, nil
}

func (e *encoder) Reset() {}
