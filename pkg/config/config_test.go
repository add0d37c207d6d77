package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 3001, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:3001", cfg.HTTP.Addr())
	assert.Equal(t, "*", cfg.CORS.AllowOrigins)
	assert.Equal(t, "http://localhost:3001/api", cfg.Storefront.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.Storefront.Timeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "postgres", cfg.DB.Driver)
}

func TestFromViper_SobrescribeDesdeEntorno(t *testing.T) {
	v := viper.New()
	v.Set("PORT", "8080")
	v.Set("BAZAR_API_URL", "http://api.bazar.local/api/")
	v.Set("BAZAR_HTTP_TIMEOUT", "3s")
	v.Set("DB_PASSWORD", "p@ss:word")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "http://api.bazar.local/api", cfg.Storefront.APIBaseURL, "se elimina la barra final")
	assert.Equal(t, 3*time.Second, cfg.Storefront.Timeout)
	assert.Contains(t, cfg.DB.DSN(), "p%40ss%3Aword", "la contraseña debe ir codificada en el DSN")
}

func TestFromViper_CredencialesConOrigenComodin_Error(t *testing.T) {
	v := viper.New()
	v.Set("CORS_ALLOW_CREDENTIALS", true)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_TimeoutInvalido_Error(t *testing.T) {
	v := viper.New()
	v.Set("BAZAR_HTTP_TIMEOUT", "diez")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_DriverDesconocido_Error(t *testing.T) {
	v := viper.New()
	v.Set("DB_DRIVER", "sqlite")

	_, err := fromViper(v)
	assert.Error(t, err)

	v.Set("DB_DRIVER", "Memory")
	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DB.Driver)
}

func TestFromViper_CuentaAdmin(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.App.AdminEmail)

	v := viper.New()
	v.Set("ADMIN_EMAIL", " admin@bazar.es ")
	v.Set("ADMIN_PASSWORD", "clave-admin")
	cfg, err = fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "admin@bazar.es", cfg.App.AdminEmail)
	assert.Equal(t, "clave-admin", cfg.App.AdminPassword)
	assert.Equal(t, "Administrador", cfg.App.AdminName)
}

func TestFromViper_AdminSinContraseña_Error(t *testing.T) {
	v := viper.New()
	v.Set("ADMIN_EMAIL", "admin@bazar.es")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionStringPrefiereDatabaseURL(t *testing.T) {
	c := DBConfig{DatabaseURL: "postgres://u:p@db:5432/bazar", Host: "otro"}
	assert.Equal(t, "postgres://u:p@db:5432/bazar", c.ConnectionString())
}
