package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAttributes(t *testing.T) {
	t.Run("structured blob", func(t *testing.T) {
		p := Product{AttributesRaw: `{"fabric":"cotton","color":"indigo","sizes":["S","M","XL"]}`}

		attrs, err := p.ParseAttributes()
		require.NoError(t, err)
		assert.Equal(t, "cotton", attrs.Fabric)
		assert.Equal(t, "indigo", attrs.Color)
		assert.Equal(t, []string{"S", "M", "XL"}, attrs.Sizes)
	})

	t.Run("empty blob", func(t *testing.T) {
		p := Product{}
		attrs, err := p.ParseAttributes()
		require.NoError(t, err)
		assert.Empty(t, attrs.Sizes)
	})

	t.Run("unknown size rejected", func(t *testing.T) {
		p := Product{AttributesRaw: `{"sizes":["M","XXXL"]}`}
		_, err := p.ParseAttributes()
		assert.Error(t, err)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		p := Product{AttributesRaw: `{"fabric":`}
		_, err := p.ParseAttributes()
		assert.Error(t, err)
	})
}

func TestValidSize(t *testing.T) {
	assert.True(t, ValidSize("M"))
	assert.True(t, ValidSize("XXL"))
	assert.False(t, ValidSize("m"))
	assert.False(t, ValidSize(""))
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("buyer"))
	assert.True(t, ValidRole("seller"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
}
