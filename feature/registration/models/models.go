package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"course-registry/core/utils"
)

// DateLayout is the wire format of registrationDate: ISO-8601, UTC, milliseconds.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Experience is the self-reported skill level.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// Valid reports whether e is one of the known levels.
func (e Experience) Valid() bool {
	switch e {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	default:
		return false
	}
}

// Registration is one registrant. Email is the natural key across stores; ID
// is only unique within the store that assigned it.
type Registration struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Experience       Experience `json:"experience"`
	Interests        []string   `json:"interests"`
	HearAbout        string     `json:"hearAbout"`
	Notes            string     `json:"notes"`
	RegistrationDate time.Time  `json:"registrationDate"`
}

// Key returns the reconciliation key of r.
func Key(r Registration) string {
	return r.Email
}

// Stamp returns t as a registration date: UTC with millisecond precision.
func Stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

type wireRegistration struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Experience       Experience `json:"experience"`
	Interests        []string   `json:"interests"`
	HearAbout        string     `json:"hearAbout"`
	Notes            string     `json:"notes"`
	RegistrationDate string     `json:"registrationDate,omitempty"`
}

// MarshalJSON writes the canonical field names and date format.
func (r Registration) MarshalJSON() ([]byte, error) {
	w := wireRegistration{
		ID:         r.ID,
		Name:       r.Name,
		Email:      r.Email,
		Phone:      r.Phone,
		Experience: r.Experience,
		Interests:  r.Interests,
		HearAbout:  r.HearAbout,
		Notes:      r.Notes,
	}
	if w.Interests == nil {
		w.Interests = []string{}
	}
	if !r.RegistrationDate.IsZero() {
		w.RegistrationDate = r.RegistrationDate.UTC().Format(DateLayout)
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the canonical shape and the legacy variants written by
// older clients: snake_case hear_about and created_at, string or float ids,
// and interests given as a single comma separated string.
func (r *Registration) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("registration must be an object")
	}

	var out Registration
	if v, ok := raw["id"]; ok && v != nil {
		id, ok := utils.ToInt64(v)
		if !ok {
			return fmt.Errorf("invalid registration id %v", v)
		}
		out.ID = id
	}
	out.Name = utils.ToString(raw["name"])
	out.Email = utils.ToString(raw["email"])
	out.Phone = utils.ToString(raw["phone"])
	out.Experience = Experience(utils.ToString(raw["experience"]))
	out.Notes = utils.ToString(raw["notes"])

	out.HearAbout = utils.ToString(raw["hearAbout"])
	if out.HearAbout == "" {
		out.HearAbout = utils.ToString(raw["hear_about"])
	}

	interests, err := decodeInterests(raw["interests"])
	if err != nil {
		return err
	}
	out.Interests = interests

	date := utils.ToString(raw["registrationDate"])
	if date == "" {
		date = utils.ToString(raw["created_at"])
	}
	if date != "" {
		t, err := ParseDate(date)
		if err != nil {
			return err
		}
		out.RegistrationDate = t
	}

	*r = out
	return nil
}

// ParseDate reads an ISO-8601 timestamp with or without fractional seconds.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return Stamp(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid registration date %q", s)
}

func decodeInterests(v any) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return []string{}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			out = append(out, utils.ToString(item))
		}
		return out, nil
	case string:
		if strings.TrimSpace(val) == "" {
			return []string{}, nil
		}
		parts := strings.Split(val, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid interests %v", v)
	}
}
