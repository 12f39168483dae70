package language

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDetector(t *testing.T) {
	_, err := NewDetector([]string{"en"})
	assert.Error(t, err)

	_, err = NewDetector([]string{"en", "EN"})
	assert.Error(t, err, "duplicates collapse to one language")

	_, err = NewDetector([]string{"en", "zz"})
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	d, err := NewDetector([]string{"en", "de", "es"})
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		code string
	}{
		{"English", "Search engines reward pages that answer the question quickly and clearly.", "en"},
		{"German", "Suchmaschinen belohnen Seiten, die die Frage schnell und klar beantworten.", "de"},
		{"Spanish", "Los motores de búsqueda premian las páginas que responden la pregunta con claridad.", "es"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := d.Detect(tt.text)
			require.True(t, ok)
			assert.Equal(t, tt.code, result.Code)
			assert.Equal(t, tt.name, result.Name)
			assert.Greater(t, result.Confidence, 0.5)
		})
	}

	_, ok := d.Detect("   ")
	assert.False(t, ok)

	var missing *Detector
	_, ok = missing.Detect("hello world")
	assert.False(t, ok)
}
