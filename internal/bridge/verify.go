package bridge

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrUndeclared is returned when the shim header lacks a bridged symbol.
var ErrUndeclared = errors.New("bridge: declaration missing from shim header")

var (
	lineComment  = regexp.MustCompile(`//[^\n]*`)
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
)

// Verify checks that every entry of Declarations is declared in the header at
// headerPath. Comments are ignored.
func Verify(headerPath string) error {
	data, err := os.ReadFile(headerPath)
	if err != nil {
		return fmt.Errorf("bridge: read header: %w", err)
	}
	return verifySource(string(data))
}

func verifySource(src string) error {
	src = blockComment.ReplaceAllString(src, "")
	src = lineComment.ReplaceAllString(src, "")

	var missing []string
	for _, d := range Declarations {
		if !declared(src, d) {
			missing = append(missing, fmt.Sprintf("%s %s", d.Kind, d.Name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrUndeclared, strings.Join(missing, ", "))
	}
	return nil
}

func declared(src string, d Declaration) bool {
	name := regexp.QuoteMeta(d.Name)
	var re *regexp.Regexp
	switch d.Kind {
	case KindFunc:
		re = regexp.MustCompile(`\b` + name + `\s*\(`)
	default:
		// typedef ... name; or typedef enum { ... } name;
		re = regexp.MustCompile(`\b` + name + `\s*;`)
	}
	return re.MatchString(src)
}
