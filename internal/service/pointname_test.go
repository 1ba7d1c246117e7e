package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointNamerComposeStrip(t *testing.T) {
	p := NewPointNamer("#shared/rit/", "/occ_stpt")

	uname := p.Compose("g1400a")
	assert.Equal(t, "#shared/rit/g1400a/occ_stpt", uname)
	assert.Equal(t, "g1400a", p.Strip(uname))
}

func TestPointNamerStripForeignName(t *testing.T) {
	p := NewPointNamer("#shared/rit/", "/occ_stpt")

	// A name outside the convention passes through unchanged.
	assert.Equal(t, "#other/site/z9", p.Strip("#other/site/z9"))
}

func TestPointNamerValidate(t *testing.T) {
	p := NewPointNamer("#shared/rit/", "/occ_stpt")

	for _, code := range []string{"g1400a", "or-1250", "a", ""} {
		require.NoError(t, p.Validate(code), "code %q", code)
	}
}

func TestPointNamerValidateRejectsAmbiguousCodes(t *testing.T) {
	p := NewPointNamer("#shared/rit/", "/occ_stpt")

	for _, code := range []string{
		"g14/occ_stpt",          // suffix embedded: Strip would eat it
		"#shared/rit/g1400a",    // prefix embedded
		"x#shared/rit/y",        // prefix mid-string
		"g1400a/occ_stpt/extra", // suffix mid-string
	} {
		assert.Error(t, p.Validate(code), "code %q", code)
	}
}
