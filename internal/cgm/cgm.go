// Package cgm implements the CG-viewed-tracking table codec: a small
// binary file format that records which background/event images a player
// has already seen, keyed by uppercased filename to an opaque flag
// number. Deobfuscation and decompression (see lzss.go, xorkey.go) are
// implemented in full since no general-purpose LZSS package exists in
// the Go ecosystem this module otherwise draws its dependencies from.
package cgm

import (
	"encoding/binary"
	"strings"

	"sentra/internal/errs"
)

const (
	headerSize  = 32
	entryNameSz = 32
	v2ExtraSz   = 24 // 5 int32 "code" words + 1 int32 code_count
)

// Table maps uppercased CG filenames to flag numbers and tracks which
// flags have been marked viewed this session.
type Table struct {
	flags  map[string]int
	viewed map[int]struct{}
}

// Empty returns a Table with no entries — the valid result when a game
// has no CGTABLE_FILENAME key configured; every operation on it is a
// no-op/zero-value rather than an error.
func Empty() *Table {
	return &Table{flags: map[string]int{}, viewed: map[int]struct{}{}}
}

// Parse decodes a complete CG table file: a 32-byte header (16-byte magic
// "CGTABLE" or "CGTABLE2", a 4-byte entry count, and three reserved
// 4-byte words), followed by XOR-obfuscated, LZSS-compressed entry data.
// Each entry is a 32-byte NUL-padded filename plus a 4-byte flag number;
// version-2 tables carry 24 additional bytes of metadata per entry that
// this table does not interpret.
func Parse(data []byte) (*Table, error) {
	if len(data) < headerSize {
		return nil, errs.New(errs.BadFormat, "CG table data too small to contain a header (%d bytes)", len(data))
	}

	magic := string(data[0:16])
	count := int32(binary.LittleEndian.Uint32(data[16:20]))
	if !strings.HasPrefix(magic, "CGTABLE") {
		return nil, errs.New(errs.BadFormat, "bad CG table magic %q", magic)
	}
	version := 1
	if strings.HasPrefix(magic, "CGTABLE2") {
		version = 2
	}

	body := deobfuscate(data[headerSize:])
	plain := DecompressLZSS(body)

	t := Empty()
	pos := 0
	entrySize := entryNameSz + 4
	if version >= 2 {
		entrySize += v2ExtraSz
	}
	for i := int32(0); i < count; i++ {
		if pos+entrySize > len(plain) {
			return nil, errs.New(errs.BadFormat, "CG table truncated at entry %d of %d", i, count)
		}
		name := trimTrailingNUL(plain[pos : pos+entryNameSz])
		pos += entryNameSz
		flag := int32(binary.LittleEndian.Uint32(plain[pos : pos+4]))
		pos += 4
		if version >= 2 {
			pos += v2ExtraSz
		}
		t.flags[strings.ToUpper(name)] = int(flag)
	}
	return t, nil
}

func trimTrailingNUL(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	return string(b[:end])
}

// GetTotal returns the number of entries in the table.
func (t *Table) GetTotal() int { return len(t.flags) }

// GetViewed returns the number of distinct flags marked viewed.
func (t *Table) GetViewed() int { return len(t.viewed) }

// GetPercent returns the viewed percentage, rounded down to the nearest
// integer, except that any nonzero viewed count reports at least 1% even
// when integer division would otherwise round to 0. An empty table
// reports 0 rather than dividing by zero.
func (t *Table) GetPercent() int {
	total := t.GetTotal()
	if total == 0 {
		return 0
	}
	viewed := t.GetViewed()
	percent := viewed * 100 / total
	if percent == 0 && viewed != 0 {
		percent = 1
	}
	return percent
}

// GetFlag returns the flag number for filename (case-insensitive), or -1
// if filename is not in the table.
func (t *Table) GetFlag(filename string) int {
	flag, ok := t.flags[strings.ToUpper(filename)]
	if !ok {
		return -1
	}
	return flag
}

// GetStatus reports whether filename is unknown (-1), known but unseen
// (0), or known and seen (1).
func (t *Table) GetStatus(filename string) int {
	flag := t.GetFlag(filename)
	if flag == -1 {
		return -1
	}
	if _, seen := t.viewed[flag]; seen {
		return 1
	}
	return 0
}

// SetViewed marks filename's flag as viewed; unknown filenames are a
// silent no-op.
func (t *Table) SetViewed(filename string) {
	flag := t.GetFlag(filename)
	if flag != -1 {
		t.viewed[flag] = struct{}{}
	}
}
