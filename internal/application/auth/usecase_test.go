package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
	"github.com/jhoicas/pos-api/pkg/jwt"
)

const secret = "test-secret"

func setup(t *testing.T) (*AuthUseCase, string) {
	t.Helper()
	r := memory.NewStore().Repositories()
	c := &entity.Company{Name: "Demo", NIT: "900"}
	require.NoError(t, r.Companies.Create(context.Background(), c))
	return NewAuthUseCase(r.Users, r.Companies, r.Stores, JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "pos-api"}), c.ID
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, companyID := setup(t)

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Gerente@Demo.co", Password: "supersecreto", CompanyID: companyID, Role: entity.RoleGerente})
	require.NoError(t, err)
	assert.Equal(t, "gerente@demo.co", u.Email)
	assert.Equal(t, "gerente@demo.co", u.Name)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "gerente@demo.co", Password: "supersecreto", CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	res, err := uc.Login(ctx, dto.LoginRequest{Email: "gerente@demo.co", Password: "supersecreto"})
	require.NoError(t, err)
	assert.Equal(t, permission.ForRole(entity.RoleGerente), res.Permissions)

	claims, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, entity.RoleGerente, claims.Role)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "gerente@demo.co", Password: "incorrecta"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@demo.co", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Contains(t, me.Permissions, "baskets.approve")
}

func TestRegister_DefaultRoleAndValidation(t *testing.T) {
	ctx := context.Background()
	uc, companyID := setup(t)

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "caja@demo.co", Password: "supersecreto", CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCajero, u.Role)

	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "x@demo.co", Password: "supersecreto", CompanyID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "y@demo.co", Password: "supersecreto", CompanyID: companyID, Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "z@demo.co", Password: "corta", CompanyID: companyID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
