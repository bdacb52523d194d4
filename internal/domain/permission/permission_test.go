package permission_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
)

func TestHas_PorRol(t *testing.T) {
	cases := []struct {
		role string
		perm string
		want bool
	}{
		{entity.RoleAdmin, permission.SettingsManage, true},
		{entity.RoleAdmin, permission.POSVoid, true},
		{entity.RoleGerente, permission.POSVoid, true},
		{entity.RoleGerente, permission.InventoryTransferApprove, true},
		{entity.RoleGerente, permission.SettingsManage, false},
		{entity.RoleCajero, permission.POSSell, true},
		{entity.RoleCajero, permission.POSDiscount, false},
		{entity.RoleCajero, permission.BasketsApprove, false},
		{entity.RoleBodeguero, permission.InventoryTransfer, true},
		{entity.RoleBodeguero, permission.InventoryTransferApprove, false},
		{entity.RoleContador, permission.InvoicesManage, true},
		{entity.RoleContador, permission.POSSell, false},
		{"desconocido", permission.DashboardView, false},
		{entity.RoleAdmin, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.perm, func(t *testing.T) {
			assert.Equal(t, tc.want, permission.Has(tc.role, tc.perm))
		})
	}
}

func TestWildcardDeArea_NoCoincidePrefijoParcial(t *testing.T) {
	// "pos.*" no debe conceder un permiso cuyo área solo comparte prefijo de texto.
	assert.False(t, permission.Has(entity.RoleGerente, "possible.action"))
	assert.True(t, permission.Has(entity.RoleGerente, "pos.anything"))
}

func TestHasAnyHasAll(t *testing.T) {
	assert.True(t, permission.HasAny(entity.RoleCajero, permission.POSVoid, permission.POSSell))
	assert.False(t, permission.HasAny(entity.RoleCajero, permission.POSVoid, permission.SettingsManage))
	assert.False(t, permission.HasAll(entity.RoleCajero, permission.POSSell, permission.POSVoid))
	assert.True(t, permission.HasAll(entity.RoleCajero))
}

func TestForRole(t *testing.T) {
	assert.Equal(t, permission.All(), permission.ForRole(entity.RoleAdmin))
	assert.Empty(t, permission.ForRole("desconocido"))
	cajero := permission.ForRole(entity.RoleCajero)
	assert.Contains(t, cajero, permission.POSSell)
	assert.IsIncreasing(t, cajero)
}

func TestRoles(t *testing.T) {
	assert.ElementsMatch(t, []string{
		entity.RoleAdmin, entity.RoleGerente, entity.RoleCajero, entity.RoleBodeguero, entity.RoleContador,
	}, permission.Roles())
	assert.True(t, permission.ValidRole(entity.RoleCajero))
	assert.False(t, permission.ValidRole("vendedor"))
}
