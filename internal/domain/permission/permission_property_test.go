package permission_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
)

// Has(r, p) <=> p ∈ ForRole(r) para todo rol y permiso del catálogo.
func TestHasCoincideConForRole(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	roles := append(permission.Roles(), "desconocido")
	perms := permission.All()

	properties.Property("Has es consistente con ForRole", prop.ForAll(
		func(ri, pi int) bool {
			role, perm := roles[ri], perms[pi]
			inList := false
			for _, p := range permission.ForRole(role) {
				if p == perm {
					inList = true
					break
				}
			}
			return permission.Has(role, perm) == inList
		},
		gen.IntRange(0, len(roles)-1),
		gen.IntRange(0, len(perms)-1),
	))

	properties.Property("admin tiene todo el catálogo", prop.ForAll(
		func(pi int) bool {
			return permission.Has(entity.RoleAdmin, perms[pi])
		},
		gen.IntRange(0, len(perms)-1),
	))

	properties.TestingRun(t)
}
