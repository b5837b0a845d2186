package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeMpesaNumber(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"0712345678", "254712345678", false},
		{"0112345678", "254112345678", false},
		{"712345678", "254712345678", false},
		{"254712345678", "254712345678", false},
		{"+254 712 345 678", "254712345678", false},
		{"07-1234-5678", "254712345678", false},
		{"12345", "", true},
		{"0812345678", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := SanitizeMpesaNumber(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		assert.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
