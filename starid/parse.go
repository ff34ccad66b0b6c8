package starid

import (
	"strconv"

	"github.com/teranos/starmatch/galaxy"
)

// ParsedName is a system name split at its procedural suffix.
type ParsedName struct {
	// Prefix is everything before the suffix, in its original case. It is
	// a sector name, a hand-authored sector name or neither.
	Prefix    string
	StarClass int
	Sequence  uint16
	Block     galaxy.RegionCoord
	BlockRun  int
}

const (
	minNameLen   = len("a bc-d e0")
	maxSeqDigits = 5
	maxRunDigits = 4
)

// ParseName splits name into a prefix and a procedural suffix. ok is false
// when name does not end in a suffix; that is the normal case for proper
// names and callers fall back to the raw name.
//
// The grammar is read backwards: sequence digits, an optional "-" with
// block run digits, a class letter a..h, a space, a letter, "-", two
// letters, a space. Letters match in either case.
func ParseName(name string) (ParsedName, bool) {
	var p ParsedName
	s := name
	i := len(s) - 1

	if i < minNameLen || !isDigit(s[i]) {
		return p, false
	}
	end := i
	for i > minNameLen-1 && isDigit(s[i]) {
		i--
	}
	if end-i > maxSeqDigits {
		return p, false
	}
	seq, err := strconv.Atoi(s[i+1 : end+1])
	if err != nil || seq > 0xFFFF {
		return p, false
	}

	blknum := 0
	if s[i] == '-' {
		i--
		vend := i
		for i > minNameLen-1 && isDigit(s[i]) {
			i--
		}
		if vend-i > maxRunDigits || vend == i {
			return p, false
		}
		blknum, _ = strconv.Atoi(s[i+1 : vend+1])
		p.BlockRun = blknum
	}

	cls := lower(s[i])
	if cls < 'a' || cls > 'h' {
		return p, false
	}
	p.StarClass = int('h' - cls)
	i--

	// " L-LL " read right to left; each letter is the next base-26 digit.
	for _, want := range []byte{' ', 'z', '-', 'z', 'z', ' '} {
		c := lower(s[i])
		if want == 'z' {
			if c < 'a' || c > 'z' {
				return p, false
			}
			blknum = blknum*26 + int(c-'a')
		} else if c != want {
			return p, false
		}
		i--
	}

	p.Prefix = s[:i+1]
	p.Sequence = uint16(seq)
	p.Block = BlockFromNumber(blknum)
	return p, true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
