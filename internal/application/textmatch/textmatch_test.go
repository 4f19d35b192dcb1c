package textmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"¿Qué es el STOCK?", "que es el stock?"},
		{"¡Adiós!", "adios!"},
		{"Categoría  Electrónica ", "categoria  electronica"},
		{"muéstrame", "muestrame"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.in))
		})
	}
}

func TestKeywords(t *testing.T) {
	assert.Equal(t, []string{"cual", "precio", "widget"}, Keywords("¿Cuál es el precio del Widget?"))
	assert.Equal(t, []string{"cuanto", "cuesta"}, Keywords("y cuánto cuesta"))
	assert.Empty(t, Keywords("es de la y"))
	assert.Empty(t, Keywords("  "))
}

func TestAnyKeywordIn(t *testing.T) {
	kw := Keywords("precio del widget")
	assert.True(t, AnyKeywordIn(kw, "Super Widget 3000"))
	assert.True(t, AnyKeywordIn([]string{"azul"}, "Taza", "Taza azul de cerámica"))
	assert.False(t, AnyKeywordIn(kw, "Gadget", ""))
}

func TestPattern(t *testing.T) {
	p := MustCompile("(grafica|chart)")
	assert.True(t, p.Match("muestra una grafica"))
	assert.True(t, p.Match("CHART"))
	assert.False(t, Pattern{}.Match("anything"))

	_, err := Compile("(")
	require.Error(t, err)
}

func TestWords(t *testing.T) {
	markers := Words("el", "que", "su")
	assert.True(t, markers.Match("y el precio"))
	assert.True(t, markers.Match("que tal"))
	assert.False(t, markers.Match("quedan del stock"), "markers must not match inside other words")
}

func TestCombinators(t *testing.T) {
	m := All(MustCompile("stock"), Any(MustCompile("bajo"), MustCompile("poco")))
	assert.True(t, m.Match("productos con stock bajo"))
	assert.False(t, m.Match("productos con stock alto"))
}
