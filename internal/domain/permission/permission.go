// Package permission resuelve qué puede hacer cada rol. Es una tabla estática:
// los roles no se configuran en base de datos.
package permission

import (
	"sort"
	"strings"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Catálogo de permisos (area.accion).
const (
	DashboardView            = "dashboard.view"
	POSSell                  = "pos.sell"
	POSDiscount              = "pos.discount"
	POSVoid                  = "pos.void"
	BasketsCreate            = "baskets.create"
	BasketsApprove           = "baskets.approve"
	InventoryView            = "inventory.view"
	InventoryAdjust          = "inventory.adjust"
	InventoryTransfer        = "inventory.transfer"
	InventoryTransferApprove = "inventory.transfer.approve"
	ProductsManage           = "products.manage"
	CategoriesManage         = "categories.manage"
	SuppliersManage          = "suppliers.manage"
	PurchasingManage         = "purchasing.manage"
	CustomersManage          = "customers.manage"
	LoyaltyManage            = "loyalty.manage"
	PromotionsManage         = "promotions.manage"
	InvoicesView             = "invoices.view"
	InvoicesManage           = "invoices.manage"
	PaymentsRecord           = "payments.record"
	EmployeesView            = "employees.view"
	EmployeesManage          = "employees.manage"
	CashoutManage            = "cashout.manage"
	CashoutReview            = "cashout.review"
	ReportsView              = "reports.view"
	ReportsFinancial         = "reports.financial"
	SettingsManage           = "settings.manage"
	HardwareUse              = "hardware.use"
)

// Wildcard concede todos los permisos.
const Wildcard = "*"

var catalogue = []string{
	DashboardView, POSSell, POSDiscount, POSVoid, BasketsCreate, BasketsApprove,
	InventoryView, InventoryAdjust, InventoryTransfer, InventoryTransferApprove,
	ProductsManage, CategoriesManage, SuppliersManage, PurchasingManage,
	CustomersManage, LoyaltyManage, PromotionsManage,
	InvoicesView, InvoicesManage, PaymentsRecord,
	EmployeesView, EmployeesManage, CashoutManage, CashoutReview,
	ReportsView, ReportsFinancial, SettingsManage, HardwareUse,
}

// grants: rol -> permisos concedidos. Admite "*" y "area.*".
var grants = map[string][]string{
	entity.RoleAdmin: {Wildcard},
	entity.RoleGerente: {
		DashboardView, "pos.*", "baskets.*", "inventory.*",
		ProductsManage, CategoriesManage, SuppliersManage, PurchasingManage,
		CustomersManage, LoyaltyManage, PromotionsManage,
		InvoicesView, EmployeesView, CashoutManage, CashoutReview,
		ReportsView, ReportsFinancial, HardwareUse,
	},
	entity.RoleCajero: {
		DashboardView, POSSell, BasketsCreate, InventoryView,
		CustomersManage, CashoutManage, HardwareUse,
	},
	entity.RoleBodeguero: {
		DashboardView, InventoryView, InventoryAdjust, InventoryTransfer,
		ProductsManage, CategoriesManage, SuppliersManage, PurchasingManage, HardwareUse,
	},
	entity.RoleContador: {
		DashboardView, "invoices.*", PaymentsRecord, EmployeesView,
		ReportsView, ReportsFinancial, InventoryView,
	},
}

// Has informa si el rol tiene el permiso. Rol desconocido o permiso vacío => false.
func Has(role, perm string) bool {
	if perm == "" {
		return false
	}
	for _, g := range grants[role] {
		if matches(g, perm) {
			return true
		}
	}
	return false
}

// HasAny informa si el rol tiene al menos uno de los permisos.
func HasAny(role string, perms ...string) bool {
	for _, p := range perms {
		if Has(role, p) {
			return true
		}
	}
	return false
}

// HasAll informa si el rol tiene todos los permisos (lista vacía => true).
func HasAll(role string, perms ...string) bool {
	for _, p := range perms {
		if !Has(role, p) {
			return false
		}
	}
	return true
}

// ForRole devuelve la lista expandida y ordenada de permisos del rol.
func ForRole(role string) []string {
	out := make([]string, 0, len(catalogue))
	for _, p := range catalogue {
		if Has(role, p) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// All devuelve el catálogo completo ordenado.
func All() []string {
	out := append([]string(nil), catalogue...)
	sort.Strings(out)
	return out
}

// Roles devuelve los roles conocidos ordenados.
func Roles() []string {
	out := make([]string, 0, len(grants))
	for r := range grants {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// ValidRole informa si el rol existe.
func ValidRole(role string) bool {
	_, ok := grants[role]
	return ok
}

func matches(grant, perm string) bool {
	if grant == Wildcard || grant == perm {
		return true
	}
	if prefix, ok := strings.CutSuffix(grant, ".*"); ok {
		return strings.HasPrefix(perm, prefix+".")
	}
	return false
}
