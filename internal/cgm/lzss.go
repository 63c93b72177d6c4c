package cgm

// DecompressLZSS reverses the sliding-window LZSS coding used by the CG
// table file: the stream is a sequence of 8-token blocks, each led by one
// control byte whose bits (read LSB first) mark each of the following
// tokens as a literal (1) or a back-reference (0). A back-reference is
// two bytes: the low 8 bits of a 12-bit distance, then a byte packing the
// distance's high 4 bits (low nibble) and match length minus 3 (high
// nibble), covering the conventional 3-18 byte match range over a
// 4096-byte window. Decompression runs until the input is exhausted; a
// truncated trailing token is dropped rather than treated as an error,
// since the table file carries no explicit decompressed-length field.
func DecompressLZSS(data []byte) []byte {
	out := make([]byte, 0, len(data)*2)
	pos := 0
	for pos < len(data) {
		control := data[pos]
		pos++
		for bit := 0; bit < 8 && pos < len(data); bit++ {
			if control&(1<<uint(bit)) != 0 {
				out = append(out, data[pos])
				pos++
				continue
			}
			if pos+1 >= len(data) {
				pos = len(data)
				break
			}
			b0, b1 := data[pos], data[pos+1]
			pos += 2
			distance := int(b0) | (int(b1&0x0f) << 8)
			length := int(b1>>4) + 3
			start := len(out) - distance - 1
			if start < 0 {
				continue
			}
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		}
	}
	return out
}

// CompressLZSS is the literal-only encoder counterpart: it never emits a
// back-reference, only the smallest valid encoding of "copy these bytes
// verbatim." Used by tests to build fixtures DecompressLZSS can consume;
// the real CG table file is produced by an external tool, never by this
// module.
func CompressLZSS(data []byte) []byte {
	out := make([]byte, 0, len(data)+len(data)/8+1)
	for i := 0; i < len(data); i += 8 {
		end := i + 8
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]
		control := byte(0)
		for j := range chunk {
			control |= 1 << uint(j)
		}
		out = append(out, control)
		out = append(out, chunk...)
	}
	return out
}
