package sector

// Fragment tables. Order is significant: cumulative offsets are computed in
// table order, so reordering any list renames most of the galaxy.
var prefixes = []string{
	"Th", "Eo", "Oo", "Eu", "Tr", "Sly", "Dry", "Ou",
	"Tz", "Phl", "Ae", "Sch", "Hyp", "Syst", "Ai", "Kyl",
	"Phr", "Eae", "Ph", "Fl", "Ao", "Scr", "Shr", "Fly",
	"Pl", "Fr", "Au", "Pry", "Pr", "Hyph", "Py", "Chr",
	"Phyl", "Tyr", "Bl", "Cry", "Gl", "Br", "Gr", "By",
	"Aae", "Myc", "Gyr", "Ly", "Myl", "Lych", "Myn", "Ch",
	"Myr", "Cl", "Rh", "Wh", "Pyr", "Cr", "Syn", "Str",
	"Syr", "Cy", "Wr", "Hy", "My", "Sty", "Sc", "Sph",
	"Spl", "A", "Sh", "B", "C", "D", "Sk", "Io",
	"Dr", "E", "Sl", "F", "Sm", "G", "H", "I",
	"Sp", "J", "Sq", "K", "L", "Pyth", "M", "St",
	"N", "O", "Ny", "Lyr", "P", "Sw", "Thr", "Lys",
	"Q", "R", "S", "T", "Ea", "U", "V", "W",
	"Schr", "X", "Ee", "Y", "Z", "Ei", "Oe",
}

var vowelInfixes = []string{
	"o", "ai", "a", "oi", "ea", "ie", "u", "e",
	"ee", "oo", "ue", "i", "oa", "au", "ae", "oe",
}

var consonantInfixes = []string{
	"ll", "ss", "b", "c", "d", "f", "dg", "g",
	"ng", "h", "j", "k", "l", "m", "n", "mb",
	"p", "q", "gn", "th", "r", "s", "t", "ch",
	"tch", "v", "w", "wh", "ck", "x", "y", "z",
	"ph", "sh", "ct", "wr",
}

var vowelSuffixes = []string{
	"oe", "io", "oea", "oi", "aa", "ua", "eia", "ae",
	"ooe", "oo", "a", "ue", "ai", "e", "iae", "oae",
	"ou", "uae", "i", "ao", "au", "o", "eae", "u",
	"aea", "ia", "ie", "eou", "aei", "ea", "uia", "oa",
	"aae", "eau", "ee",
}

var consonantSuffixes = []string{
	"b", "scs", "wsy", "c", "d", "vsky", "f", "sms",
	"dst", "g", "rb", "h", "nts", "ch", "rd", "rld",
	"k", "lls", "ck", "rgh", "l", "rg", "m", "n",
	"hm", "p", "hn", "rk", "q", "rl", "r", "rm",
	"s", "cs", "wyg", "rn", "ct", "t", "hs", "rbs",
	"rp", "tts", "v", "wn", "ms", "w", "rr", "mt",
	"x", "rs", "cy", "y", "rt", "z", "ws", "lch",
	"my", "ry", "nks", "nd", "sc", "ng", "sh", "nk",
	"sk", "nn", "ds", "sm", "sp", "ns", "nt", "dy",
	"ss", "st", "rrs", "xt", "nz", "sy", "xy", "rsch",
	"rphs", "sts", "sys", "sty", "th", "tl", "tls", "rds",
	"nch", "rns", "ts", "wls", "rnt", "tt", "rdy", "rst",
	"pps", "tz", "tch", "sks", "ppy", "ff", "sps", "kh",
	"sky", "ph", "lts", "wnst", "rth", "ths", "fs", "pp",
	"ft", "ks", "pr", "ps", "pt", "fy", "rts", "ky",
	"rshch", "mly", "py", "bb", "nds", "wry", "zz", "nns",
	"ld", "lf", "gh", "lks", "sly", "lk", "ll", "rph",
	"ln", "bs", "rsts", "gs", "ls", "vvy", "lt", "rks",
	"qs", "rps", "gy", "wns", "lz", "nth", "phs",
}

// C2 prefixes followed by a consonant suffix.
var c2VowelPrefixes = setOf("Eo", "Oo", "Eu", "Ou", "Ae", "Ai", "Eae", "Ao", "Au", "Aae")

// C1 prefixes followed by a consonant infix.
var c1VowelPrefixes = setOf(
	"Eo", "Oo", "Eu", "Ou", "Ae", "Ai", "Eae", "Ao",
	"Au", "Aae", "A", "Io", "E", "I", "O", "Ea",
	"U", "Ee", "Ei", "Oe",
)

// Prefixes whose run is shorter than the default of 35.
var prefixRunLengths = map[string]int{
	"Eu": 31, "Sly": 4, "Tz": 1, "Phl": 13,
	"Ae": 12, "Hyp": 25, "Kyl": 30, "Phr": 10,
	"Eae": 4, "Ao": 5, "Scr": 24, "Shr": 11,
	"Fly": 20, "Pry": 3, "Hyph": 14, "Py": 12,
	"Phyl": 8, "Tyr": 25, "Cry": 5, "Aae": 5,
	"Myc": 2, "Gyr": 10, "Myl": 12, "Lych": 3,
	"Myn": 10, "Myr": 4, "Rh": 15, "Wr": 31,
	"Sty": 4, "Spl": 16, "Sk": 27, "Sq": 7,
	"Pyth": 1, "Lyr": 10, "Sw": 24, "Thr": 32,
	"Lys": 10, "Schr": 3, "Z": 34,
}

// Infixes whose run is shorter than the length of the suffix table they
// lead into.
var infixRunLengths = map[string]int{
	"oi": 88, "ue": 147, "oa": 57,
	"au": 119, "ae": 12, "oe": 39,
	"dg": 31, "tch": 20, "wr": 31,
}

const defaultPrefixRunLength = 35

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
