// Package sector maps region coordinates to procedural sector names and back.
//
// A region coordinate packs into a 21-bit offset. A hash of the offset picks
// one of two schemes: C1 builds a single word from a prefix, one or two
// infixes and a suffix by mixed-radix decomposition over run-length weighted
// fragment tables; C2 deinterleaves the offset into two indices and builds
// two prefix+suffix words.
//
// Every function is pure and safe for concurrent use.
package sector

import (
	"strings"

	"github.com/teranos/starmatch/galaxy"
)

// MaxOffset bounds region offsets: 7 bits per lane.
const MaxOffset = 1 << 21

// Offset packs a region coordinate as x + y<<7 + z<<14.
func Offset(r galaxy.RegionCoord) uint32 {
	return uint32(uint8(r.X)&0x7F) | uint32(uint8(r.Y)&0x7F)<<7 | uint32(uint8(r.Z)&0x7F)<<14
}

// RegionFromOffset unpacks an offset produced by Offset.
func RegionFromOffset(offset uint32) galaxy.RegionCoord {
	return galaxy.RegionCoord{
		X: int8(offset & 0x7F),
		Y: int8((offset >> 7) & 0x7F),
		Z: int8((offset >> 14) & 0x7F),
	}
}

// Name returns the sector name of a region. ok is false for an invalid
// coordinate and for the C1 offsets that have no spelling.
func Name(r galaxy.RegionCoord) (string, bool) {
	if !r.Valid() {
		return "", false
	}
	return nameOf(Offset(r))
}

func nameOf(offset uint32) (string, bool) {
	if IsC1(offset) {
		return C1Name(offset)
	}
	return C2Name(offset)
}

// C1Name decodes an offset with the single-word scheme regardless of what
// IsC1 says about it.
func C1Name(offset uint32) (string, bool) {
	if offset >= MaxOffset {
		return "", false
	}

	pt := prefixTable
	prefixCnt, cur := int(offset)/pt.total, int(offset)%pt.total
	pi := pt.find(cur)
	prefix := pt.frags[pi]
	cur -= pt.offsets[pi]

	var sb strings.Builder
	sb.WriteString(prefix)

	// Vowel prefixes continue with a consonant infix and vice versa.
	vowelInfix := !c1VowelPrefixes[prefix]
	it := infixTable(vowelInfix)
	next := prefixCnt*pt.runs[pi] + cur
	infixCnt, cur := next/it.total, next%it.total
	ii := it.find(cur)
	sb.WriteString(it.frags[ii])
	next = it.runs[ii]*infixCnt + cur - it.offsets[ii]
	suffixes := suffixesAfterInfix(vowelInfix)

	if next >= len(suffixes) {
		vowelInfix = !vowelInfix
		it = infixTable(vowelInfix)
		infixCnt, cur = next/it.total, next%it.total
		ii = it.find(cur)
		sb.WriteString(it.frags[ii])
		next = it.runs[ii]*infixCnt + cur - it.offsets[ii]
		suffixes = suffixesAfterInfix(vowelInfix)
	}

	if next >= len(suffixes) {
		return "", false
	}
	sb.WriteString(suffixes[next])
	return sb.String(), true
}

// C2Name decodes an offset with the two-word scheme regardless of what IsC1
// says about it.
func C2Name(offset uint32) (string, bool) {
	if offset >= MaxOffset {
		return "", false
	}
	a, b := Deinterleave2(offset)
	w1, ok1 := c2Word(int(a))
	w2, ok2 := c2Word(int(b))
	if !ok1 || !ok2 {
		return "", false
	}
	return w1 + " " + w2, true
}

func c2Word(idx int) (string, bool) {
	pi := prefixTable.find(idx)
	prefix := prefixTable.frags[pi]
	suffixes := vowelSuffixes
	if c2VowelPrefixes[prefix] {
		suffixes = consonantSuffixes
	}
	si := idx - prefixTable.offsets[pi]
	if si >= len(suffixes) {
		return "", false
	}
	return prefix + suffixes[si], true
}

// Region encodes a sector name back to its region coordinate. Matching is
// case-insensitive. ok is false for anything that is not the exact name of
// some region.
func Region(name string) (galaxy.RegionCoord, bool) {
	offset, ok := Encode(name)
	if !ok {
		return galaxy.InvalidRegion, false
	}
	return RegionFromOffset(offset), true
}

// Encode is the inverse of Name on offsets. Tokenization tries fragments
// longest first and backtracks, since fragment boundaries are ambiguous
// ("Aoe" is Ao+e or A+oe). Each candidate is confirmed by decoding it.
func Encode(name string) (uint32, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	words := strings.Split(n, " ")

	var candidates []int
	switch len(words) {
	case 1:
		candidates = c1Candidates(words[0])
	case 2:
		candidates = c2Candidates(words[0], words[1])
	default:
		return 0, false
	}

	for _, c := range candidates {
		if c < 0 || c >= MaxOffset {
			continue
		}
		offset := uint32(c)
		if IsC1(offset) != (len(words) == 1) {
			continue
		}
		if decoded, ok := nameOf(offset); ok && strings.EqualFold(decoded, n) {
			return offset, true
		}
	}
	return 0, false
}

func suffixIndex(s string, vowel bool) (int, bool) {
	f, ok := fragmentsByValue[s]
	if !ok || !f.isSuffix() || f.vowelSuffix != vowel {
		return 0, false
	}
	return f.suffix, true
}

func c1Candidates(word string) []int {
	var out []int
	for _, p := range leadingFragments(word) {
		if !p.isPrefix() {
			continue
		}
		rest := word[len(p.value):]
		vowel1 := !p.c1VowelPrefix
		t1 := infixTable(vowel1)

		for _, i1 := range leadingFragments(rest) {
			if !i1.isInfix() || i1.vowelInfix != vowel1 {
				continue
			}
			rest1 := rest[len(i1.value):]

			if si, ok := suffixIndex(rest1, !vowel1); ok {
				off := t1.fold(i1.infix, si)
				out = append(out, prefixTable.fold(p.prefix, off))
			}

			vowel2 := !vowel1
			t2 := infixTable(vowel2)
			for _, i2 := range leadingFragments(rest1) {
				if !i2.isInfix() || i2.vowelInfix != vowel2 {
					continue
				}
				if si, ok := suffixIndex(rest1[len(i2.value):], !vowel2); ok {
					off := t2.fold(i2.infix, si)
					off = t1.fold(i1.infix, off)
					out = append(out, prefixTable.fold(p.prefix, off))
				}
			}
		}
	}
	return out
}

func c2Candidates(first, second string) []int {
	var out []int
	for _, a := range c2WordIndices(first) {
		for _, b := range c2WordIndices(second) {
			if a > 0xFFFF || b > 0xFFFF {
				continue
			}
			out = append(out, int(Interleave2(uint16(a), uint16(b))))
		}
	}
	return out
}

func c2WordIndices(word string) []int {
	var out []int
	for _, p := range leadingFragments(word) {
		if !p.isPrefix() {
			continue
		}
		si, ok := suffixIndex(word[len(p.value):], !p.c2VowelPrefix)
		if !ok || si >= prefixTable.runs[p.prefix] {
			continue
		}
		out = append(out, prefixTable.offsets[p.prefix]+si)
	}
	return out
}
