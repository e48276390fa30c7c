package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactSubmission_FullName(t *testing.T) {
	tests := []struct {
		name     string
		first    string
		last     string
		expected string
	}{
		{name: "both parts", first: "Jane", last: "Doe", expected: "Jane Doe"},
		{name: "first only", first: "Jane", expected: "Jane"},
		{name: "last only", last: "Doe", expected: "Doe"},
		{name: "both empty", expected: "Anonymous"},
		{name: "whitespace only", first: "  ", last: "\t", expected: "Anonymous"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &ContactSubmission{FirstName: tt.first, LastName: tt.last}
			assert.Equal(t, tt.expected, s.FullName())
		})
	}
}
