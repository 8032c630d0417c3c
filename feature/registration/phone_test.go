package registration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"0911234567", true},
		{"099-123-4567", true},
		{"+218 911234567", true},
		{"218921234567", true},
		{"0901234567", false},
		{"091123456", false},
		{"09112345678", false},
		{"+44 7911123456", false},
		{"+218 0911234567", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPhone(tt.raw, "+218"))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0911234567", "+218 911234567"},
		{"+218911234567", "+218 911234567"},
		{"+218 911234567", "+218 911234567"},
		{"+218\t911234567", "+218 911234567"},
		{"218911234567", "+218 911234567"},
		{"218 911234567", "+218 911234567"},
		{"  0921234567 ", "+218 921234567"},
		{"091-123-4567", "+218 91-123-4567"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.raw, "+218"))
		})
	}
}

// TestNormalizePhone_PrefixedOnlyInsertsSpace tests that a number already
// carrying the full code changes only by the separator.
func TestNormalizePhone_PrefixedOnlyInsertsSpace(t *testing.T) {
	for _, subscriber := range []string{"911234567", "921234567", "991234567", "94-555-1234"} {
		for _, sep := range []string{"", " "} {
			raw := "+218" + sep + subscriber
			got := NormalizePhone(raw, "+218")
			assert.Equal(t, "+218 "+subscriber, got)
			assert.Equal(t, 1, strings.Count(got[:5], " "))
		}
	}
}
