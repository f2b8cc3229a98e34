package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"String", "String"},
		{"  Option < String >  ", "Option<String>"},
		{"HashMap<String,Vec<u32>>", "HashMap<String, Vec<u32>>"},
		{"std::collections::HashMap<String, ObjectId>", "HashMap<String, ObjectId>"},
		{"&str", "str"},
		{"crate::models::UserJson", "UserJson"},
		{"[u8]", "[u8]"},
		{"[String; 4]", "[String]"},
		{"Vec<Option<i64>>", "Vec<Option<i64>>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"Vec<",
		"Vec<String",
		"HashMap<String u32>",
		"Option<>",
		"(String, u32)",
		"String>",
		"[String; ]",
		"[String",
		"9lives",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			require.Error(t, err)
			var syntaxErr *TypeSyntaxError
			require.True(t, errors.As(err, &syntaxErr), "got %T", err)
			assert.Equal(t, "E107", syntaxErr.Code())
		})
	}
}
