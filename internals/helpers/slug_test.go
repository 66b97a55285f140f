package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Élodie Martin":     "elodie_martin",
		"  Jean--François ": "jean_francois",
		"Ñ":                 "eleve",
		"":                  "eleve",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in, 50), in)
	}
	assert.Equal(t, "abcde", Slugify("abcdefgh", 5))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "marie_2", WithSuffix("marie", "2", 50))
	assert.Equal(t, "abc_12", WithSuffix("abcdef", "12", 6))
}
