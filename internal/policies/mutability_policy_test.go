package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMutabilityPolicy_Locked(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		feature  string
		locked   bool
	}{
		{"empty policy locks nothing", nil, "USB", false},
		{"exact match", []string{"USB"}, "USB", true},
		{"exact mismatch", []string{"USB"}, "NET", false},
		{"prefix match", []string{"USB_*"}, "USB_STORAGE", true},
		{"prefix mismatch", []string{"USB_*"}, "NET", false},
		{"wildcard locks everything", []string{"*"}, "ANYTHING", true},
		{"blank pattern ignored", []string{"  "}, "ANYTHING", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewMutabilityPolicy(tt.patterns)
			assert.Equal(t, tt.locked, p.Locked(tt.feature))
		})
	}
}
