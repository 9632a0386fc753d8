package geospatial

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// dmsPattern is the degrees-minutes-seconds grammar typed into coordinate
// fields: signed degrees, then minutes closed by ' and seconds closed by ''.
// Only digit counts are constrained here; range checks live in strict mode.
var dmsPattern = regexp.MustCompile(`^(-?)(\d{1,3})°(\d{1,2})'(\d{1,2}(?:\.\d{1,2})?)''$`)

// Parser converts DMS strings to decimal degrees.
//
// The zero value is lenient: minutes and seconds of 60 or more are accepted
// as long as they match the grammar, which keeps older field data readable.
// Strict additionally rejects them.
type Parser struct {
	Strict bool
}

var lenient = Parser{}

// ParseDMS converts a DMS string such as 4°36'56.78'' to decimal degrees
// using the lenient parser.
func ParseDMS(dms string) (float64, error) {
	return lenient.Parse(dms)
}

// ParseDMSStrict is ParseDMS with minute and second ranges enforced.
func ParseDMSStrict(dms string) (float64, error) {
	return Parser{Strict: true}.Parse(dms)
}

// IsValidDMS reports whether s matches the DMS grammar. It never fails.
func IsValidDMS(s string) bool {
	return dmsPattern.MatchString(s)
}

// Parse converts dms to decimal degrees. The sign of the result is taken
// from the leading minus on the degrees, so -0°30'0.00'' is -0.5.
func (p Parser) Parse(dms string) (float64, error) {
	m := dmsPattern.FindStringSubmatch(dms)
	if m == nil {
		return 0, &FormatError{Input: dms}
	}

	// The pattern guarantees these are well-formed numbers.
	deg, _ := strconv.ParseFloat(m[2], 64)
	min, _ := strconv.ParseFloat(m[3], 64)
	sec, _ := strconv.ParseFloat(m[4], 64)

	if p.Strict {
		if min >= 60 {
			return 0, &FormatError{Input: dms, Reason: fmt.Sprintf("minutes %v out of range 0-59", min)}
		}
		if sec >= 60 {
			return 0, &FormatError{Input: dms, Reason: fmt.Sprintf("seconds %v out of range 0-59.99", sec)}
		}
	}

	decimal := deg + min/60 + sec/3600
	if m[1] == "-" {
		decimal = -decimal
	}
	return decimal, nil
}

// FormatDMS renders decimal degrees as a DMS string with seconds to two
// decimals, e.g. 4.615772 -> 4°36'56.78''. A leading minus is written only
// for negative input. Seconds that round up to 60 carry into the minutes, so
// the output always parses under strict mode.
func FormatDMS(decimal float64) (string, error) {
	if math.IsNaN(decimal) || math.IsInf(decimal, 0) {
		return "", &DomainError{Value: decimal}
	}

	abs := math.Abs(decimal)
	deg := math.Floor(abs)
	minutesFloat := (abs - deg) * 60
	min := math.Floor(minutesFloat)
	// Seconds are kept as whole hundredths from here on.
	centis := math.Round((minutesFloat - min) * 60 * 100)

	if centis >= 6000 {
		centis -= 6000
		min++
	}
	if min >= 60 {
		min -= 60
		deg++
	}

	sign := ""
	if decimal < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%s°%d'%d.%02d''", sign, strconv.FormatFloat(deg, 'f', 0, 64),
		int64(min), int64(centis)/100, int64(centis)%100), nil
}
