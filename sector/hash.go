package sector

// IsC1 classifies a region offset into the single-word (C1) or two-word (C2)
// naming scheme. The mix is Bob Jenkins' 32-bit integer hash; arithmetic
// wraps on uint32.
func IsC1(offset uint32) bool {
	k := offset
	k += k << 12
	k ^= k >> 22
	k += k << 4
	k ^= k >> 9
	k += k << 10
	k ^= k >> 2
	k += k << 7
	k ^= k >> 12
	return k&1 == 0
}

// Interleave2 spreads a into the even bits and b into the odd bits of the
// result.
func Interleave2(a, b uint16) uint32 {
	x := uint64(a) | uint64(b)<<32
	x = (x | x<<8) & 0x00FF00FF00FF00FF
	x = (x | x<<4) & 0x0F0F0F0F0F0F0F0F
	x = (x | x<<2) & 0x3333333333333333
	x = (x | x<<1) & 0x5555555555555555
	return uint32(x | x>>31)
}

// Deinterleave2 is the inverse of Interleave2.
func Deinterleave2(v uint32) (uint16, uint16) {
	x := uint64(v&0x55555555) | uint64(v&0xAAAAAAAA)<<31
	x = (x | x>>1) & 0x3333333333333333
	x = (x | x>>2) & 0x0F0F0F0F0F0F0F0F
	x = (x | x>>4) & 0x00FF00FF00FF00FF
	x = (x | x>>8) & 0x0000FFFF0000FFFF
	return uint16(x), uint16(x >> 32)
}
