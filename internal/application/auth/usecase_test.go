package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/bazar-api/internal/application/auth"
	"github.com/jhoicas/bazar-api/internal/application/dto"
	"github.com/jhoicas/bazar-api/internal/domain"
	"github.com/jhoicas/bazar-api/internal/domain/entity"
	"github.com/jhoicas/bazar-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/bazar-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func newUseCase() *auth.AuthUseCase {
	store := memory.NewStore()
	return auth.NewAuthUseCase(store.Users(), auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "bazar-test",
	}).WithBcryptCost(bcrypt.MinCost)
}

func TestRegister_DevuelveTokenYUsuarioCliente(t *testing.T) {
	uc := newUseCase()
	out, err := uc.Register(context.Background(), dto.RegisterRequest{
		Nombre: "Ana", Email: "  Ana@Bazar.es ", Password: "secreto",
	})
	require.NoError(t, err)

	assert.True(t, out.Success)
	assert.Equal(t, "ana@bazar.es", out.Usuario.Email, "el email se normaliza")
	assert.Equal(t, entity.RoleCliente, out.Usuario.Rol)

	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, out.Usuario.ID, claims.UserID)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Nombre: "Ana", Email: "ana@bazar.es", Password: "secreto"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Nombre: "Otra", Email: "ANA@bazar.es", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_ValidaEntrada(t *testing.T) {
	uc := newUseCase()
	cases := []dto.RegisterRequest{
		{Nombre: "", Email: "a@b.c", Password: "secreto"},
		{Nombre: "Ana", Email: "", Password: "secreto"},
		{Nombre: "Ana", Email: "a@b.c", Password: "corta"},
	}
	for _, in := range cases {
		_, err := uc.Register(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestLogin_CredencialesCorrectasEIncorrectas(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Nombre: "Luis", Email: "luis@bazar.es", Password: "secreto"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "luis@bazar.es", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, reg.Usuario, out.Usuario)
	assert.NotEmpty(t, out.Token)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "luis@bazar.es", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@bazar.es", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestProfile_UsuarioInexistente(t *testing.T) {
	_, err := newUseCase().Profile(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestEnsureAdmin_CreaCuentaAdmin(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()

	admin, err := uc.EnsureAdmin(ctx, dto.RegisterRequest{Email: "Admin@Bazar.es", Password: "clave-admin"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Rol)
	assert.Equal(t, "Administrador", admin.Nombre)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@bazar.es", Password: "clave-admin"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, claims.Role)
}

func TestEnsureAdmin_PromueveUsuarioExistente(t *testing.T) {
	uc := newUseCase()
	ctx := context.Background()
	reg, err := uc.Register(ctx, dto.RegisterRequest{Nombre: "Eva", Email: "eva@bazar.es", Password: "secreto"})
	require.NoError(t, err)

	admin, err := uc.EnsureAdmin(ctx, dto.RegisterRequest{Email: "eva@bazar.es", Password: "nueva-clave"})
	require.NoError(t, err)
	assert.Equal(t, reg.Usuario.ID, admin.ID)
	assert.Equal(t, "Eva", admin.Nombre)
	assert.Equal(t, entity.RoleAdmin, admin.Rol)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "eva@bazar.es", Password: "secreto"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	out, err := uc.Login(ctx, dto.LoginRequest{Email: "eva@bazar.es", Password: "nueva-clave"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, out.Usuario.Rol)

	// idempotente
	again, err := uc.EnsureAdmin(ctx, dto.RegisterRequest{Email: "eva@bazar.es", Password: "nueva-clave"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
}

func TestEnsureAdmin_ValidaEntrada(t *testing.T) {
	uc := newUseCase()
	_, err := uc.EnsureAdmin(context.Background(), dto.RegisterRequest{Email: "", Password: "clave-admin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.EnsureAdmin(context.Background(), dto.RegisterRequest{Email: "a@b.c", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
