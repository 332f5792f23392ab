package period

import (
	"log/slog"
	"strings"
)

// Kind is the periodicity of a recurrence rule.
type Kind uint8

const (
	KindUnset Kind = iota
	KindDaily
	KindWeekly
	KindMonthly
	KindYearly
)

// kindInfo describes one entry of the kind table.
type kindInfo struct {
	code         string // persisted code
	abbreviation string
	label        string
}

// kindTable is the single source of truth for kind metadata.
var kindTable = map[Kind]kindInfo{
	KindUnset:   {code: "U", abbreviation: "Unset", label: "Unset"},
	KindDaily:   {code: "D", abbreviation: "Day", label: "Daily"},
	KindWeekly:  {code: "W", abbreviation: "Week", label: "Weekly"},
	KindMonthly: {code: "M", abbreviation: "Month", label: "Monthly"},
	KindYearly:  {code: "Y", abbreviation: "Year", label: "Yearly"},
}

// Kinds returns every kind in table order, Unset first.
func Kinds() []Kind {
	return []Kind{KindUnset, KindDaily, KindWeekly, KindMonthly, KindYearly}
}

// Code returns the persisted code of the kind.
func (k Kind) Code() string {
	if info, ok := kindTable[k]; ok {
		return info.code
	}
	return kindTable[KindUnset].code
}

// Abbreviation returns the short name of the kind.
func (k Kind) Abbreviation() string {
	if info, ok := kindTable[k]; ok {
		return info.abbreviation
	}
	return kindTable[KindUnset].abbreviation
}

// Label returns the display label of the kind.
func (k Kind) Label() string {
	if info, ok := kindTable[k]; ok {
		return info.label
	}
	return kindTable[KindUnset].label
}

func (k Kind) String() string {
	return k.Label()
}

// unit is the singular name of the repetition unit, used by Rule.String.
func (k Kind) unit() string {
	switch k {
	case KindDaily:
		return "day"
	case KindWeekly:
		return "week"
	case KindMonthly:
		return "month"
	case KindYearly:
		return "year"
	default:
		return ""
	}
}

// KeyFromCode resolves a persisted kind code. Both the one-letter code and
// the label are accepted, case-insensitively. An unknown code resolves to
// KindUnset and is logged; callers that must tell "never configured" apart
// from "bad data" have to check the code themselves, see IsKnownCode.
func KeyFromCode(code string) Kind {
	if k, ok := lookupCode(code); ok {
		return k
	}
	logger.Warn("unknown period code, using unset", slog.String("code", code))
	return KindUnset
}

// IsKnownCode reports whether code names one of the five kinds.
func IsKnownCode(code string) bool {
	_, ok := lookupCode(code)
	return ok
}

func lookupCode(code string) (Kind, bool) {
	code = strings.TrimSpace(code)
	for _, k := range Kinds() {
		info := kindTable[k]
		if strings.EqualFold(code, info.code) || strings.EqualFold(code, info.label) {
			return k, true
		}
	}
	return KindUnset, false
}
