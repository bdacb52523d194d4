package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// Datos de la empresa de demostración.
const (
	DemoNIT      = "900123456-8"
	DemoPassword = "demo1234"
)

// SeedResult identificadores de los datos de demostración.
type SeedResult struct {
	CompanyID string
	StoreIDs  map[string]string // código de tienda → ID
	Users     map[string]string // rol → email
	Products  int
	Created   bool // false si la empresa ya existía
}

type seedProduct struct {
	sku, barcode, name, category string
	price, cost, tax             int64
	reorderPoint                 int64
	stock                        map[string]int64
}

var seedProducts = []seedProduct{
	{"BEB-001", "7702004003508", "Coca-Cola 400 ml", "BEB", 3500, 2100, 19, 24, map[string]int64{"CENTRO": 120, "NORTE": 60}},
	{"BEB-002", "7702090021547", "Agua Cristal 600 ml", "BEB", 2000, 900, 19, 24, map[string]int64{"CENTRO": 80, "NORTE": 18}},
	{"ABA-001", "7702511000014", "Arroz Diana 500 g", "ABA", 2900, 2200, 0, 30, map[string]int64{"CENTRO": 200, "NORTE": 90}},
	{"ABA-002", "7702535000107", "Aceite Premier 1 L", "ABA", 12500, 9800, 19, 10, map[string]int64{"CENTRO": 40, "NORTE": 6}},
	{"ABA-003", "7702032100103", "Café Sello Rojo 250 g", "ABA", 8900, 6400, 5, 12, map[string]int64{"CENTRO": 55, "NORTE": 20}},
	{"LAC-001", "7702177000109", "Leche Alquería 1 L", "LAC", 4200, 3300, 0, 36, map[string]int64{"CENTRO": 72, "NORTE": 30}},
	{"LAC-002", "7702129000021", "Huevos AA x30", "LAC", 16900, 13500, 0, 8, map[string]int64{"CENTRO": 25, "NORTE": 4}},
	{"ASE-001", "7702310040027", "Jabón Rey 300 g", "ASE", 3600, 2500, 19, 15, map[string]int64{"CENTRO": 60, "NORTE": 25}},
}

// Seed carga la empresa de demostración con tiendas, empleados, catálogo,
// existencias, clientes y una promoción. Si la empresa ya existe no hace nada.
func (s *Services) Seed(ctx context.Context, b Backend) (*SeedResult, error) {
	res := &SeedResult{StoreIDs: map[string]string{}, Users: map[string]string{}}
	existing, err := b.Companies.GetByNIT(ctx, DemoNIT)
	if err != nil {
		return nil, fmt.Errorf("seed: buscar empresa: %w", err)
	}
	if existing != nil {
		res.CompanyID = existing.ID
		stores, err := b.Stores.ListByCompany(ctx, existing.ID)
		if err != nil {
			return nil, fmt.Errorf("seed: tiendas: %w", err)
		}
		for _, st := range stores {
			res.StoreIDs[st.Code] = st.ID
		}
		return res, nil
	}

	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      "Supermercado La Esquina",
		NIT:       DemoNIT,
		Address:   "Cra 7 # 12-45, Bogotá",
		Phone:     "6013334455",
		Email:     "contacto@laesquina.demo",
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := b.Companies.Create(ctx, company); err != nil {
		return nil, fmt.Errorf("seed: empresa: %w", err)
	}
	res.CompanyID = company.ID
	res.Created = true
	for _, m := range entity.AllModules {
		if err := b.Companies.ActivateModule(ctx, company.ID, m, nil); err != nil {
			return nil, fmt.Errorf("seed: módulo %s: %w", m, err)
		}
	}

	settings := entity.DefaultSettings(company.ID)
	settings.ReceiptHeader = company.Name
	settings.AutoReorderEnabled = true
	settings.UpdatedAt = now
	if err := b.Settings.Upsert(ctx, &settings); err != nil {
		return nil, fmt.Errorf("seed: configuración: %w", err)
	}

	for _, st := range []entity.Store{
		{Code: "CENTRO", Name: "Sede Centro", Address: "Cra 7 # 12-45"},
		{Code: "NORTE", Name: "Sede Norte", Address: "Cl 140 # 19-30"},
	} {
		st := st
		st.ID = uuid.New().String()
		st.CompanyID = company.ID
		st.IsActive = true
		st.CreatedAt, st.UpdatedAt = now, now
		if err := b.Stores.Create(ctx, &st); err != nil {
			return nil, fmt.Errorf("seed: tienda %s: %w", st.Code, err)
		}
		res.StoreIDs[st.Code] = st.ID
	}

	for _, u := range []struct{ role, name, store string }{
		{entity.RoleAdmin, "Administrador Demo", ""},
		{entity.RoleGerente, "Laura Gómez", "CENTRO"},
		{entity.RoleCajero, "Andrés Pérez", "CENTRO"},
		{entity.RoleBodeguero, "Carlos Ruiz", "NORTE"},
		{entity.RoleContador, "Marta Díaz", ""},
	} {
		email := u.role + "@laesquina.demo"
		if _, err := s.Auth.RegisterUser(ctx, dto.RegisterRequest{
			Email:     email,
			Password:  DemoPassword,
			CompanyID: company.ID,
			StoreID:   res.StoreIDs[u.store],
			Name:      u.name,
			Role:      u.role,
		}); err != nil {
			return nil, fmt.Errorf("seed: usuario %s: %w", email, err)
		}
		res.Users[u.role] = email
	}

	categories := map[string]string{}
	for _, c := range []struct{ code, name string }{
		{"BEB", "Bebidas"}, {"ABA", "Abarrotes"}, {"LAC", "Lácteos y huevos"}, {"ASE", "Aseo"},
	} {
		cat := &entity.Category{
			ID: uuid.New().String(), CompanyID: company.ID, Code: c.code, Name: c.name,
			Status: "active", CreatedAt: now, UpdatedAt: now,
		}
		if err := b.Categories.Create(ctx, cat); err != nil {
			return nil, fmt.Errorf("seed: categoría %s: %w", c.code, err)
		}
		categories[c.code] = cat.ID
	}

	supplier := &entity.Supplier{
		ID:               uuid.New().String(),
		CompanyID:        company.ID,
		Name:             "Distribuidora Andina S.A.S.",
		ContactName:      "Jorge Castaño",
		Email:            "pedidos@andina.demo",
		Phone:            "3104445566",
		TaxID:            "800765432-1",
		PaymentTermsDays: 30,
		LeadTimeDays:     3,
		Rating:           decimal.RequireFromString("4.5"),
		Status:           "active",
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := b.Suppliers.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("seed: proveedor: %w", err)
	}

	for _, sp := range seedProducts {
		p := &entity.Product{
			ID:           uuid.New().String(),
			CompanyID:    company.ID,
			CategoryID:   categories[sp.category],
			SupplierID:   supplier.ID,
			SKU:          sp.sku,
			Barcode:      sp.barcode,
			Name:         sp.name,
			Price:        decimal.NewFromInt(sp.price),
			TaxRate:      decimal.NewFromInt(sp.tax),
			UnitMeasure:  "UND",
			ReorderPoint: decimal.NewFromInt(sp.reorderPoint),
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := b.Products.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("seed: producto %s: %w", sp.sku, err)
		}
		cost := decimal.NewFromInt(sp.cost)
		for code, qty := range sp.stock {
			if err := s.Movements.RegisterMovement(ctx, inventory.MovementInputDTO{
				CompanyID: company.ID,
				ProductID: p.ID,
				StoreID:   res.StoreIDs[code],
				Type:      entity.MovementTypeIN,
				Quantity:  decimal.NewFromInt(qty),
				UnitCost:  &cost,
			}); err != nil {
				return nil, fmt.Errorf("seed: existencias %s/%s: %w", sp.sku, code, err)
			}
		}
		res.Products++
	}

	for _, c := range []entity.Customer{
		{Name: "Consumidor final", TaxID: "222222222222"},
		{Name: "Sofía Martínez", TaxID: "52123456", Email: "sofia@correo.demo", Phone: "3001112233", LoyaltyPoints: 350},
		{Name: "Restaurante El Fogón", TaxID: "901234567-8", Email: "compras@elfogon.demo", Phone: "6017778899", LoyaltyPoints: 1200},
	} {
		c := c
		c.ID = uuid.New().String()
		c.CompanyID = company.ID
		c.CreatedAt, c.UpdatedAt = now, now
		if err := b.Customers.Create(ctx, &c); err != nil {
			return nil, fmt.Errorf("seed: cliente %s: %w", c.Name, err)
		}
	}

	promo := &entity.Promotion{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		Code:        "BIENVENIDA10",
		Name:        "10% de bienvenida",
		Type:        entity.PromotionPercentage,
		Value:       decimal.NewFromInt(10),
		MinPurchase: decimal.NewFromInt(20000),
		StartsAt:    now.Add(-24 * time.Hour),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := b.Promotions.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("seed: promoción: %w", err)
	}

	s.Log.Info().Str("company_id", company.ID).Int("products", res.Products).Msg("seed: datos de demostración cargados")
	return res, nil
}
