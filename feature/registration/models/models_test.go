package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistration_MarshalJSON(t *testing.T) {
	r := Registration{
		ID:               1718000000000,
		Name:             "Test User",
		Email:            "test@example.com",
		Phone:            "+218 911234567",
		Experience:       ExperienceBeginner,
		RegistrationDate: time.Date(2024, 6, 10, 9, 30, 0, 123456789, time.FixedZone("LY", 2*3600)),
	}

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1718000000000,
		"name": "Test User",
		"email": "test@example.com",
		"phone": "+218 911234567",
		"experience": "beginner",
		"interests": [],
		"hearAbout": "",
		"notes": "",
		"registrationDate": "2024-06-10T07:30:00.123Z"
	}`, string(data))
}

func TestRegistration_UnmarshalLegacy(t *testing.T) {
	payload := `{
		"id": "42",
		"name": "Legacy",
		"email": "Legacy@Example.com",
		"phone": "+218 921234567",
		"experience": "advanced",
		"interests": "coding, api",
		"hear_about": "friend",
		"created_at": "2024-06-10T07:30:00Z"
	}`

	var r Registration
	require.NoError(t, json.Unmarshal([]byte(payload), &r))
	assert.Equal(t, int64(42), r.ID)
	assert.Equal(t, "friend", r.HearAbout)
	assert.Equal(t, []string{"coding", "api"}, r.Interests)
	assert.Equal(t, time.Date(2024, 6, 10, 7, 30, 0, 0, time.UTC), r.RegistrationDate)
	assert.Equal(t, ExperienceAdvanced, r.Experience)
}

func TestRegistration_UnmarshalFloatID(t *testing.T) {
	var r Registration
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1.718e12, "email": "a@b.co", "interests": ["n8n"]}`), &r))
	assert.Equal(t, int64(1718000000000), r.ID)
	assert.Equal(t, []string{"n8n"}, r.Interests)
}

func TestRegistration_UnmarshalRejects(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"NotObject", `[1,2]`},
		{"Null", `null`},
		{"BadID", `{"id": "abc"}`},
		{"BadDate", `{"registrationDate": "yesterday"}`},
		{"BadInterests", `{"interests": 5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Registration
			assert.Error(t, json.Unmarshal([]byte(tt.payload), &r))
		})
	}
}

func TestRegistration_RoundTripPreservesDate(t *testing.T) {
	in := Registration{ID: 1, Email: "a@b.co", Interests: []string{"api"}, RegistrationDate: Stamp(time.Now())}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Registration
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, in.RegistrationDate.Equal(out.RegistrationDate))
	assert.Equal(t, in, out)
}

func TestRowConversion(t *testing.T) {
	date := Stamp(time.Now())
	r := Registration{ID: 3, Name: "n", Email: "e@x.io", Experience: ExperienceIntermediate, Interests: []string{"prompting"}, HearAbout: "ad", RegistrationDate: date}

	row := ToRow(r)
	assert.Equal(t, "registrations", row.TableName())
	assert.Equal(t, "intermediate", row.Experience)
	assert.Equal(t, date, row.CreatedAt)
	assert.Equal(t, r, row.ToRegistration())

	assert.Equal(t, []string{}, RegistrationRow{}.ToRegistration().Interests)
}

func TestExperience_Valid(t *testing.T) {
	assert.True(t, ExperienceBeginner.Valid())
	assert.True(t, ExperienceAdvanced.Valid())
	assert.False(t, Experience("expert").Valid())
	assert.False(t, Experience("").Valid())
}
