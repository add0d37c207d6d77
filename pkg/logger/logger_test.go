package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEscribeJSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "debug", Output: &buf})

	l.Named("carrito").Info().Int64("producto_id", 7).Msg("producto agregado")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "carrito", line["component"])
	assert.Equal(t, "producto agregado", line["message"])
	assert.EqualValues(t, 7, line["producto_id"])
}

func TestNew_NivelFiltraEventos(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no debe salir")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sí debe salir")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel_DesconocidoEsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verboso"))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
}

func TestNop_NoEscribe(t *testing.T) {
	l := Nop()
	assert.NotPanics(t, func() { l.Error().Msg("descartado") })
}
