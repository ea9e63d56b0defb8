package cover

import (
	"strconv"
	"strings"
)

// PatternLength is the number of cells in one quadrant of the grid.
const PatternLength = 16

// MakePattern turns a seed into a 16 character string of '0' and '1'.
//
// The binary form of the seed is used directly when long enough. Short
// forms are first spread to eight characters with the fixed index
// sequence [0:3]+[0]+[2:4]+[3]+[1], and anything under sixteen characters
// gets its reverse appended. Only the first sixteen characters are kept.
func MakePattern(seed int64) string {
	if seed < 0 {
		seed = -seed
	}
	bc := strconv.FormatInt(seed, 2)
	if len(bc) < 8 {
		if len(bc) < 4 {
			bc = strings.Repeat("0", 4-len(bc)) + bc
		}
		bc = bc[0:3] + bc[0:1] + bc[2:4] + bc[3:4] + bc[1:2]
	}
	if len(bc) < PatternLength {
		bc += reverse(bc)
	}
	return bc[:PatternLength]
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
