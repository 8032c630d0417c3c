package admin

import (
	"testing"
	"time"

	"course-registry/feature/registration/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Registration {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []models.Registration{
		{ID: 3, Name: "Omar", Email: "omar@example.com", Phone: "+218 921234567", Experience: models.ExperienceAdvanced, RegistrationDate: base.Add(2 * time.Hour)},
		{ID: 1, Name: "amina", Email: "amina@example.com", Phone: "+218 911234567", Experience: models.ExperienceBeginner, RegistrationDate: base},
		{ID: 2, Name: "Sara", Email: "sara@mail.ly", Phone: "+218 911234567", Experience: models.ExperienceIntermediate, RegistrationDate: base.Add(time.Hour)},
	}
}

func ids(records []models.Registration) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		term string
		want []int64
	}{
		{"empty keeps all", "  ", []int64{3, 1, 2}},
		{"name ignores case", "AMINA", []int64{1}},
		{"email domain", "mail.ly", []int64{2}},
		{"raw phone", "+218 92", []int64{3}},
		{"phone digits", "911 234", []int64{1, 2}},
		{"local trunk prefix", "0921", []int64{3}},
		{"no match", "zzz", []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.term)))
		})
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		key, dir string
		want     []int64
	}{
		{"", "", []int64{3, 1, 2}},
		{"id", "asc", []int64{1, 2, 3}},
		{"id", "desc", []int64{3, 2, 1}},
		{"name", "", []int64{1, 3, 2}},
		{"experience", "asc", []int64{1, 2, 3}},
		{"registrationDate", "desc", []int64{3, 2, 1}},
		{"phone", "asc", []int64{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.key+"_"+tt.dir, func(t *testing.T) {
			got, err := Sort(sample(), tt.key, tt.dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	got, err := Sort(sample(), "phone", "desc")
	require.NoError(t, err)
	// 1 and 2 share a phone and keep their input order.
	assert.Equal(t, []int64{3, 1, 2}, ids(got))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	in := sample()
	_, err := Sort(in, "id", "asc")
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids(in))
}

func TestSortErrors(t *testing.T) {
	_, err := Sort(sample(), "age", "asc")
	assert.ErrorIs(t, err, ErrUnknownSortKey)

	_, err = Sort(sample(), "id", "up")
	assert.ErrorIs(t, err, ErrUnknownSortDirection)

	assert.Contains(t, SortKeys(), "registrationDate")
}
