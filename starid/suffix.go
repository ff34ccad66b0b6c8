package starid

import (
	"strconv"
	"strings"

	"github.com/teranos/starmatch/galaxy"
)

// BlockNumber packs a block inside a region as x + y<<7 + z<<14.
func BlockNumber(b galaxy.RegionCoord) int {
	return int(b.X) + int(b.Y)<<7 + int(b.Z)<<14
}

// BlockFromNumber unpacks a block number into 7-bit lanes.
func BlockFromNumber(n int) galaxy.RegionCoord {
	return galaxy.RegionCoord{
		X: int8(n & 127),
		Y: int8((n >> 7) & 127),
		Z: int8((n >> 14) & 127),
	}
}

// ClassLetter returns 'a' for class 7 through 'h' for class 0.
func ClassLetter(class int) byte {
	return byte('h' - class)
}

// Suffix renders the block part of a procedural name, "AB-C d" or
// "AB-C d3-" when the block run is non-zero.
func Suffix(block galaxy.RegionCoord, class int) string {
	n := BlockNumber(block)

	var sb strings.Builder
	sb.Grow(12)
	for i := range 3 {
		sb.WriteByte(byte('A' + n%26))
		n /= 26
		if i == 1 {
			sb.WriteByte('-')
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(ClassLetter(class))
	if n != 0 {
		sb.WriteString(strconv.Itoa(n))
		sb.WriteByte('-')
	}
	return sb.String()
}

// FullSuffix renders the whole procedural suffix, "AB-C d3-4".
func FullSuffix(block galaxy.RegionCoord, class int, seq uint16) string {
	return Suffix(block, class) + strconv.Itoa(int(seq))
}
