package sector

import (
	"sort"
	"strings"
)

// runTable is a fragment list with per-fragment run lengths and the
// cumulative offset of each fragment.
type runTable struct {
	frags   []string
	runs    []int
	offsets []int
	total   int
}

func newRunTable(frags []string, overrides map[string]int, defaultRun int) *runTable {
	t := &runTable{
		frags:   frags,
		runs:    make([]int, len(frags)),
		offsets: make([]int, len(frags)),
	}
	for i, f := range frags {
		run, ok := overrides[f]
		if !ok {
			run = defaultRun
		}
		t.runs[i] = run
		t.offsets[i] = t.total
		t.total += run
	}
	return t
}

// find returns the last fragment whose offset is <= cur.
func (t *runTable) find(cur int) int {
	return sort.Search(len(t.offsets), func(i int) bool { return t.offsets[i] > cur }) - 1
}

// fold is the inverse of a decode step through fragment i: it maps the
// index handed to the next table back to the running offset before it.
func (t *runTable) fold(i, next int) int {
	run := t.runs[i]
	return (next/run)*t.total + next%run + t.offsets[i]
}

var (
	prefixTable         = newRunTable(prefixes, prefixRunLengths, defaultPrefixRunLength)
	vowelInfixTable     = newRunTable(vowelInfixes, infixRunLengths, len(consonantSuffixes))
	consonantInfixTable = newRunTable(consonantInfixes, infixRunLengths, len(vowelSuffixes))
	fragmentsByValue    = buildFragments()
	longestFragmentLen  = longestFragment()
)

// fragment records every role a lowercase fragment string plays.
// Index fields are -1 when the fragment does not play that role.
type fragment struct {
	value string

	prefix        int
	c1VowelPrefix bool
	c2VowelPrefix bool

	infix      int
	vowelInfix bool

	suffix      int
	vowelSuffix bool
}

func (f *fragment) isPrefix() bool { return f.prefix >= 0 }
func (f *fragment) isInfix() bool  { return f.infix >= 0 }
func (f *fragment) isSuffix() bool { return f.suffix >= 0 }

// buildFragments merges all five tables into one dictionary keyed by the
// lowercase fragment. Tables are applied in a fixed order and a later table
// overwrites the role fields an earlier one set.
func buildFragments() map[string]*fragment {
	frags := make(map[string]*fragment)
	get := func(s string) *fragment {
		key := strings.ToLower(s)
		f, ok := frags[key]
		if !ok {
			f = &fragment{value: key, prefix: -1, infix: -1, suffix: -1}
			frags[key] = f
		}
		return f
	}

	for i, p := range prefixes {
		f := get(p)
		f.prefix = i
		f.c1VowelPrefix = c1VowelPrefixes[p]
		f.c2VowelPrefix = c2VowelPrefixes[p]
	}
	for i, s := range vowelInfixes {
		f := get(s)
		f.infix, f.vowelInfix = i, true
	}
	for i, s := range consonantInfixes {
		f := get(s)
		f.infix, f.vowelInfix = i, false
	}
	for i, s := range vowelSuffixes {
		f := get(s)
		f.suffix, f.vowelSuffix = i, true
	}
	for i, s := range consonantSuffixes {
		f := get(s)
		f.suffix, f.vowelSuffix = i, false
	}
	return frags
}

func longestFragment() int {
	n := 0
	for k := range fragmentsByValue {
		if len(k) > n {
			n = len(k)
		}
	}
	return n
}

// leadingFragments returns the fragments that s starts with, longest first.
func leadingFragments(s string) []*fragment {
	var out []*fragment
	for n := min(longestFragmentLen, len(s)); n > 0; n-- {
		if f, ok := fragmentsByValue[s[:n]]; ok {
			out = append(out, f)
		}
	}
	return out
}

func infixTable(vowel bool) *runTable {
	if vowel {
		return vowelInfixTable
	}
	return consonantInfixTable
}

// suffixesAfterInfix returns the suffix table that follows an infix: vowel
// infixes lead into consonant suffixes and vice versa.
func suffixesAfterInfix(vowelInfix bool) []string {
	if vowelInfix {
		return consonantSuffixes
	}
	return vowelSuffixes
}
