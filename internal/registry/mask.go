package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// MaskPattern compiles an outbreak visual-ID mask into a regexp. In a mask
// every '9' stands for one digit and '*' for any run of characters; all
// other characters match literally (e.g. "CASE-9999").
func MaskPattern(mask string) (*regexp.Regexp, error) {
	if mask == "" {
		return nil, fmt.Errorf("empty visual id mask")
	}
	var b strings.Builder
	b.WriteString("^")
	for _, c := range mask {
		switch c {
		case '9':
			b.WriteString(`\d`)
		case '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("invalid visual id mask %q: %w", mask, err)
	}
	return re, nil
}
