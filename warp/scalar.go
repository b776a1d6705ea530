package warp

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// parseComplexLiteral parses the INIT_DEST / no-data literal grammar
// of §6: "a", "a+bi", "a-bi", or "a,b". It does not rely on Go's
// strconv.ParseComplex so that the accepted grammar matches the
// spec's documented forms exactly rather than Go's complex syntax.
func parseComplexLiteral(s string) (real, imag float64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty complex literal")
	}
	if idx := strings.IndexByte(s, ','); idx >= 0 {
		r, err := strconv.ParseFloat(strings.TrimSpace(s[:idx]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid real part %q: %w", s[:idx], err)
		}
		i, err := strconv.ParseFloat(strings.TrimSpace(s[idx+1:]), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid imaginary part %q: %w", s[idx+1:], err)
		}
		return r, i, nil
	}
	if strings.HasSuffix(s, "i") {
		body := strings.TrimSuffix(s, "i")
		// Find the split between the real and imaginary terms: the
		// last '+' or '-' that is not the leading sign and not part
		// of an exponent ("1e-5i").
		split := -1
		for i := len(body) - 1; i > 0; i-- {
			c := body[i]
			if (c == '+' || c == '-') && body[i-1] != 'e' && body[i-1] != 'E' {
				split = i
				break
			}
		}
		if split < 0 {
			i, err := strconv.ParseFloat(body, 64)
			if err != nil {
				return 0, 0, fmt.Errorf("invalid imaginary literal %q: %w", s, err)
			}
			return 0, i, nil
		}
		r, err := strconv.ParseFloat(body[:split], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid real part %q: %w", body[:split], err)
		}
		i, err := strconv.ParseFloat(body[split:], 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid imaginary part %q: %w", body[split:], err)
		}
		return r, i, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid complex literal %q: %w", s, err)
	}
	return r, 0, nil
}

// encodeScalar converts (real, imag) to the word_size bytes of typ,
// using the conversion rules of §4.4: byte types clamp to [0,255],
// real-only types drop the imaginary part, complex types carry both
// components. Multi-byte scalars use little-endian encoding.
func encodeScalar(typ RasterType, real, imag float64) []byte {
	buf := make([]byte, typ.WordSize())
	switch typ {
	case Byte:
		buf[0] = byte(clampInt(int(math.Round(real)), 0, 255))
	case Int16:
		binary.LittleEndian.PutUint16(buf, uint16(int16(real)))
	case UInt16:
		binary.LittleEndian.PutUint16(buf, uint16(real))
	case Int32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(real)))
	case UInt32:
		binary.LittleEndian.PutUint32(buf, uint32(real))
	case Float32:
		binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(real)))
	case Float64:
		binary.LittleEndian.PutUint64(buf, math.Float64bits(real))
	case CFloat32:
		binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(real)))
		binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(imag)))
	case CFloat64:
		binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(real))
		binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(imag))
	}
	return buf
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// broadcastFill repeats word (one pixel's worth of encoded bytes) to
// fill buf, which must be a multiple of len(word) in length. It is
// the §4.4 initial-fill primitive.
func broadcastFill(buf []byte, word []byte) {
	if len(word) == 0 || len(buf) == 0 {
		return
	}
	if allSameByte(word) {
		for i := range buf {
			buf[i] = word[0]
		}
		return
	}
	n := copy(buf, word)
	for n < len(buf) {
		n += copy(buf[n:], buf[:n])
	}
}

func allSameByte(word []byte) bool {
	for _, b := range word[1:] {
		if b != word[0] {
			return false
		}
	}
	return true
}

// pixelEqualsScalar reports whether the pixel at byte offset off in
// buf equals the encoded (real, imag) scalar under typ, per §4.5's
// "type-exact comparison" no-data rule.
func pixelEqualsScalar(buf []byte, off int, word []byte) bool {
	ws := len(word)
	if off+ws > len(buf) {
		return false
	}
	for i := 0; i < ws; i++ {
		if buf[off+i] != word[i] {
			return false
		}
	}
	return true
}
