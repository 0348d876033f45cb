package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineNamesTheFailingField(t *testing.T) {
	specs := []fieldSpec{
		{"nombre", kindText},
		{"precio", kindFloat},
		{"cantidad", kindInt},
		{"fecha", kindDate},
	}

	tests := []struct {
		name   string
		line   string
		field  string
		reason string
	}{
		{"wrong count", "Arroz, 10", "nombre, precio, cantidad, fecha", "esperaba 4 datos"},
		{"empty value", "Arroz, , 5, 2024-05-01", "precio", "no puede estar vacío"},
		{"bad float", "Arroz, caro, 5, 2024-05-01", "precio", "debe ser un número"},
		{"bad int", "Arroz, 10, 5.5, 2024-05-01", "cantidad", "debe ser un número entero"},
		{"bad date", "Arroz, 10, 5, mañana", "fecha", "debe ser una fecha AAAA-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLine(tt.line, specs)
			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, tt.field, inputErr.Field)
			assert.Contains(t, inputErr.Reason, tt.reason)
		})
	}
}

func TestParseLinePositiveInt(t *testing.T) {
	specs := []fieldSpec{{"cantidad", kindPositiveInt}}

	values, err := parseLine("3", specs)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, values)

	for _, line := range []string{"0", "-3", "5.5"} {
		_, err := parseLine(line, specs)
		var inputErr *InputError
		require.ErrorAs(t, err, &inputErr, line)
		assert.Equal(t, "cantidad", inputErr.Field, line)
	}
}

func TestParseLineTrimsValues(t *testing.T) {
	values, err := parseLine("  Arroz ,  10 , 5 , 2024-05-01 ", []fieldSpec{
		{"nombre", kindText},
		{"precio", kindFloat},
		{"cantidad", kindInt},
		{"fecha", kindDate},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Arroz", "10", "5", "2024-05-01"}, values)
}

func TestConfirmationSpellings(t *testing.T) {
	for _, s := range []string{"si", "Sí", " s ", "YES"} {
		assert.True(t, isYes(s), s)
	}
	for _, s := range []string{"no", "N", " No "} {
		assert.True(t, isNo(s), s)
	}
	for _, s := range []string{"nop", "claro", ""} {
		assert.False(t, isYes(s), s)
		assert.False(t, isNo(s), s)
	}
}
