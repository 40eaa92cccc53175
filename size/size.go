package size

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Size represents a data size that implements flag.Value
type Size int

// the following regexes follow Go integer literal syntax
var (
	rB    = regexp.MustCompile(`(?i)^(?:0b|0o|0x)?[0-9a-f_]+$`)
	rKB   = regexp.MustCompile(`(?i)^(?:0b|0o|0x)?[0-9a-f_]+kb$`)
	rMB   = regexp.MustCompile(`(?i)^(?:0b|0o|0x)?[0-9a-f_]+mb$`)
	rGB   = regexp.MustCompile(`(?i)^(?:0b|0o|0x)?[0-9a-f_]+gb$`)
	rTB   = regexp.MustCompile(`(?i)^(?:0b|0o|0x)?[0-9a-f_]+tb$`)
	empty = regexp.MustCompile(`^$`)
)

// Set parses size to integer from different bases and data units
func (siz *Size) Set(size string) (err error) {
	const (
		_  = iota
		KB = 1 << (10 * iota)
		MB
		GB
		TB
	)

	var (
		lmt = len(size) - 2
		s   = strings.ToLower(size)
		i   int64
	)

	switch {
	case empty.MatchString(s):
		return
	case rB.MatchString(s):
		i, err = strconv.ParseInt(strings.ReplaceAll(s, "_", ""), 0, 64)
	case rKB.MatchString(s):
		i, err = strconv.ParseInt(strings.ReplaceAll(s[:lmt], "_", ""), 0, 64)
		i *= KB
	case rMB.MatchString(s):
		i, err = strconv.ParseInt(strings.ReplaceAll(s[:lmt], "_", ""), 0, 64)
		i *= MB
	case rGB.MatchString(s):
		i, err = strconv.ParseInt(strings.ReplaceAll(s[:lmt], "_", ""), 0, 64)
		i *= GB
	case rTB.MatchString(s):
		i, err = strconv.ParseInt(strings.ReplaceAll(s[:lmt], "_", ""), 0, 64)
		i *= TB
	default:
		return fmt.Errorf("invalid size %q", size)
	}
	if err != nil {
		return err
	}
	*siz = Size(i)
	return
}

func (siz *Size) String() string {
	return strconv.Itoa(int(*siz))
}
