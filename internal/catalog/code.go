package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// GenerateCode builds the next product code for a category/brand/package
// family: a 3-character prefix (category digit, brand initial, package
// initial) followed by a 2-digit sequence. The sequence is recomputed from
// the live code set on every call, so it survives out-of-band row deletions.
func GenerateCode(categoryDigit, brand, pkg string, existing []string) (string, error) {
	prefix := categoryDigit + initial(brand) + initial(pkg)

	maxSeq := 0
	for _, code := range existing {
		if len(code) < 4 || !strings.HasPrefix(code, prefix) {
			continue
		}
		seq, err := strconv.Atoi(code[len(prefix):])
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	next := maxSeq + 1
	if next > 99 {
		return "", fmt.Errorf("%w: %s", ErrCodeSpaceFull, prefix)
	}
	return fmt.Sprintf("%s%02d", prefix, next), nil
}

func initial(s string) string {
	for _, r := range strings.TrimSpace(s) {
		return string(unicode.ToUpper(r))
	}
	return ""
}
