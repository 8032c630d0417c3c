package admin

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"unicode"

	"course-registry/feature/registration/models"
)

var (
	// ErrUnknownSortKey is returned for a sort key outside SortKeys.
	ErrUnknownSortKey = errors.New("unknown sort key")
	// ErrUnknownSortDirection is returned for a direction other than asc or desc.
	ErrUnknownSortDirection = errors.New("unknown sort direction")
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

type compareFunc func(a, b models.Registration) int

var sorters = map[string]compareFunc{
	"id":    func(a, b models.Registration) int { return cmp.Compare(a.ID, b.ID) },
	"name":  func(a, b models.Registration) int { return compareFold(a.Name, b.Name) },
	"email": func(a, b models.Registration) int { return compareFold(a.Email, b.Email) },
	"phone": func(a, b models.Registration) int { return strings.Compare(a.Phone, b.Phone) },
	"experience": func(a, b models.Registration) int {
		return cmp.Compare(experienceRank(a.Experience), experienceRank(b.Experience))
	},
	"hearAbout":        func(a, b models.Registration) int { return compareFold(a.HearAbout, b.HearAbout) },
	"notes":            func(a, b models.Registration) int { return compareFold(a.Notes, b.Notes) },
	"registrationDate": func(a, b models.Registration) int { return a.RegistrationDate.Compare(b.RegistrationDate) },
}

// SortKeys lists the accepted sort keys.
func SortKeys() []string {
	keys := make([]string, 0, len(sorters))
	for k := range sorters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Filter returns the records whose name or email contains term, ignoring
// case, or whose phone contains it. A term with digits also matches the phone
// digits alone, so "0911" finds "+218 911...". An empty term keeps everything.
func Filter(records []models.Registration, term string) []models.Registration {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return records
	}
	termDigits := digits(term)

	out := make([]models.Registration, 0, len(records))
	for _, r := range records {
		switch {
		case strings.Contains(strings.ToLower(r.Name), term),
			strings.Contains(strings.ToLower(r.Email), term),
			strings.Contains(r.Phone, term),
			termDigits != "" && phoneMatches(r.Phone, termDigits):
			out = append(out, r)
		}
	}
	return out
}

// Sort orders a copy of records by key. Equal elements keep their order. An
// empty key returns the records unchanged; an empty direction means ascending.
func Sort(records []models.Registration, key, dir string) ([]models.Registration, error) {
	if key == "" {
		return records, nil
	}
	compare, ok := sorters[key]
	if !ok {
		return nil, ErrUnknownSortKey
	}
	switch dir {
	case "", Asc:
	case Desc:
		asc := compare
		compare = func(a, b models.Registration) int { return asc(b, a) }
	default:
		return nil, ErrUnknownSortDirection
	}

	out := slices.Clone(records)
	slices.SortStableFunc(out, compare)
	return out, nil
}

// phoneMatches compares the term digits with the phone digits. A leading
// trunk zero in the term also matches the number without it.
func phoneMatches(phone, termDigits string) bool {
	pd := digits(phone)
	if strings.Contains(pd, termDigits) {
		return true
	}
	trimmed := strings.TrimPrefix(termDigits, "0")
	return trimmed != termDigits && trimmed != "" && strings.Contains(pd, trimmed)
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func experienceRank(e models.Experience) int {
	switch e {
	case models.ExperienceBeginner:
		return 0
	case models.ExperienceIntermediate:
		return 1
	case models.ExperienceAdvanced:
		return 2
	default:
		return 3
	}
}
