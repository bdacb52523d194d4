package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository   = (*CompanyRepo)(nil)
	_ repository.StoreRepository     = (*StoreRepo)(nil)
	_ repository.UserRepository      = (*UserRepo)(nil)
	_ repository.ProductRepository   = (*ProductRepo)(nil)
	_ repository.CategoryRepository  = (*CategoryRepo)(nil)
	_ repository.SupplierRepository  = (*SupplierRepo)(nil)
	_ repository.CustomerRepository  = (*CustomerRepo)(nil)
	_ repository.PromotionRepository = (*PromotionRepo)(nil)
)

// CompanyRepo empresas y módulos activos.
type CompanyRepo struct{ s *Store }

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.companies {
		if existing.NIT == c.NIT {
			return domain.ErrDuplicate
		}
	}
	c.ID = newID(c.ID)
	r.s.data.companies[c.ID] = *c
	return nil
}

func (r *CompanyRepo) UpdateStatus(_ context.Context, id, status string) error {
	defer r.s.lockWrite()()
	c, ok := r.s.data.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	r.s.data.companies[id] = c
	return nil
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CompanyRepo) GetByNIT(_ context.Context, nit string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.data.companies {
		if c.NIT == nit {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CompanyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Company, 0, len(r.s.data.companies))
	for _, c := range r.s.data.companies {
		out = append(out, &c)
	}
	sortByName(out, func(c *entity.Company) string { return c.Name })
	return paginate(out, limit, offset), nil
}

func (r *CompanyRepo) ActivateModule(_ context.Context, companyID, moduleName string, expiresAt *time.Time) error {
	defer r.s.lockWrite()()
	now := time.Now()
	key := companyID + ":" + moduleName
	m, ok := r.s.data.modules[key]
	if !ok {
		m = entity.CompanyModule{ID: newID(""), CompanyID: companyID, ModuleName: moduleName, CreatedAt: now}
	}
	m.IsActive = true
	m.ActivatedAt = now
	m.ExpiresAt = expiresAt
	m.UpdatedAt = now
	r.s.data.modules[key] = m
	return nil
}

func (r *CompanyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.data.modules[companyID+":"+moduleName]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

// StoreRepo tiendas.
type StoreRepo struct{ s *Store }

func (r *StoreRepo) Create(_ context.Context, st *entity.Store) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.stores {
		if existing.CompanyID == st.CompanyID && existing.Code == st.Code {
			return domain.ErrDuplicate
		}
	}
	st.ID = newID(st.ID)
	r.s.data.stores[st.ID] = *st
	return nil
}

func (r *StoreRepo) GetByID(_ context.Context, id string) (*entity.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	st, ok := r.s.data.stores[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *StoreRepo) Update(_ context.Context, st *entity.Store) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.stores[st.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.data.stores {
		if existing.ID != st.ID && existing.CompanyID == st.CompanyID && existing.Code == st.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.data.stores[st.ID] = *st
	return nil
}

func (r *StoreRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Store, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Store
	for _, st := range r.s.data.stores {
		if st.CompanyID == companyID {
			out = append(out, &st)
		}
	}
	sortByName(out, func(s *entity.Store) string { return s.Name })
	return out, nil
}

// UserRepo usuarios/empleados.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	u.ID = newID(u.ID)
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmailAndCompany(_ context.Context, email, companyID string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.data.users {
		if u.Email == email && u.CompanyID == companyID {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	for _, existing := range r.s.data.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.data.users[u.ID] = *u
	return nil
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.User
	for _, u := range r.s.data.users {
		if u.CompanyID == companyID {
			out = append(out, &u)
		}
	}
	sortByName(out, func(u *entity.User) string { return u.Name })
	return paginate(out, limit, offset), nil
}

// ProductRepo catálogo de productos.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) checkUnique(p *entity.Product) error {
	for _, existing := range r.s.data.products {
		if existing.ID == p.ID || existing.CompanyID != p.CompanyID {
			continue
		}
		if existing.SKU == p.SKU || (p.Barcode != "" && existing.Barcode == p.Barcode) {
			return domain.ErrDuplicate
		}
	}
	return nil
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite()()
	if err := r.checkUnique(p); err != nil {
		return err
	}
	p.ID = newID(p.ID)
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByCompanyAndSKU(_ context.Context, companyID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) GetByBarcode(_ context.Context, companyID, barcode string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if barcode == "" {
		return nil, nil
	}
	for _, p := range r.s.data.products {
		if p.CompanyID == companyID && p.Barcode == barcode {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkUnique(p); err != nil {
		return err
	}
	r.s.data.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) UpdateCost(_ context.Context, productID string, cost decimal.Decimal) error {
	defer r.s.lockWrite()()
	p, ok := r.s.data.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	r.s.data.products[productID] = p
	return nil
}

func (r *ProductRepo) List(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range r.s.data.products {
		if p.CompanyID != companyID {
			continue
		}
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.CategoryID != "" && p.CategoryID != f.CategoryID {
			continue
		}
		if f.Search != "" && !containsFold(p.Name, f.Search) && !containsFold(p.SKU, f.Search) && !containsFold(p.Barcode, f.Search) {
			continue
		}
		out = append(out, &p)
	}
	sortByName(out, func(p *entity.Product) string { return p.Name })
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *ProductRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	n := 0
	for _, p := range r.s.data.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.products, id)
	return nil
}

// CategoryRepo categorías.
type CategoryRepo struct{ s *Store }

func (r *CategoryRepo) Create(_ context.Context, c *entity.Category) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.categories {
		if existing.CompanyID == c.CompanyID && existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	c.ID = newID(c.ID)
	r.s.data.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CategoryRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.data.categories {
		if c.CompanyID == companyID && c.Code == code {
			return &c, nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.Category) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.data.categories {
		if existing.ID != c.ID && existing.CompanyID == c.CompanyID && existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.data.categories[c.ID] = *c
	return nil
}

func (r *CategoryRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Category
	for _, c := range r.s.data.categories {
		if c.CompanyID == companyID {
			out = append(out, &c)
		}
	}
	sortByName(out, func(c *entity.Category) string { return c.Name })
	return out, nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.categories, id)
	return nil
}

// SupplierRepo proveedores.
type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	defer r.s.lockWrite()()
	sp.ID = newID(sp.ID)
	r.s.data.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.data.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &sp, nil
}

func (r *SupplierRepo) Update(_ context.Context, sp *entity.Supplier) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.suppliers[sp.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.suppliers[sp.ID] = *sp
	return nil
}

func (r *SupplierRepo) ListByCompany(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Supplier
	for _, sp := range r.s.data.suppliers {
		if sp.CompanyID != companyID {
			continue
		}
		if search != "" && !containsFold(sp.Name, search) && !containsFold(sp.ContactName, search) {
			continue
		}
		out = append(out, &sp)
	}
	sortByName(out, func(s *entity.Supplier) string { return s.Name })
	return paginate(out, limit, offset), nil
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.suppliers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.data.suppliers, id)
	return nil
}

// CustomerRepo clientes y saldo de puntos.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.customers {
		if c.TaxID != "" && existing.CompanyID == c.CompanyID && existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	c.ID = newID(c.ID)
	r.s.data.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.data.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// GetByIDForUpdate equivale a GetByID: las transacciones ya están serializadas.
func (r *CustomerRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Customer, error) {
	return r.GetByID(ctx, id)
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.data.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) ListByCompany(_ context.Context, companyID, search string, limit, offset int) ([]*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Customer
	for _, c := range r.s.data.customers {
		if c.CompanyID != companyID {
			continue
		}
		if search != "" && !containsFold(c.Name, search) && !containsFold(c.TaxID, search) && !containsFold(c.Phone, search) {
			continue
		}
		out = append(out, &c)
	}
	sortByName(out, func(c *entity.Customer) string { return c.Name })
	return paginate(out, limit, offset), nil
}

func (r *CustomerRepo) AddLoyalty(_ context.Context, id string, points int64, spent decimal.Decimal) error {
	defer r.s.lockWrite()()
	c, ok := r.s.data.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.LoyaltyPoints+points < 0 {
		return domain.ErrInsufficientPoints
	}
	c.LoyaltyPoints += points
	c.TotalSpent = c.TotalSpent.Add(spent)
	c.UpdatedAt = time.Now()
	r.s.data.customers[id] = c
	return nil
}

// PromotionRepo promociones.
type PromotionRepo struct{ s *Store }

func (r *PromotionRepo) Create(_ context.Context, p *entity.Promotion) error {
	defer r.s.lockWrite()()
	for _, existing := range r.s.data.promotions {
		if existing.CompanyID == p.CompanyID && existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	p.ID = newID(p.ID)
	r.s.data.promotions[p.ID] = *p
	return nil
}

func (r *PromotionRepo) GetByID(_ context.Context, id string) (*entity.Promotion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.data.promotions[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PromotionRepo) GetByCode(_ context.Context, companyID, code string) (*entity.Promotion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.data.promotions {
		if p.CompanyID == companyID && p.Code == code {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PromotionRepo) Update(_ context.Context, p *entity.Promotion) error {
	defer r.s.lockWrite()()
	if _, ok := r.s.data.promotions[p.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, existing := range r.s.data.promotions {
		if existing.ID != p.ID && existing.CompanyID == p.CompanyID && existing.Code == p.Code {
			return domain.ErrDuplicate
		}
	}
	r.s.data.promotions[p.ID] = *p
	return nil
}

func (r *PromotionRepo) ListByCompany(_ context.Context, companyID string, activeOnly bool) ([]*entity.Promotion, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Promotion
	for _, p := range r.s.data.promotions {
		if p.CompanyID == companyID && (!activeOnly || p.IsActive) {
			out = append(out, &p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *PromotionRepo) IncrementUsage(_ context.Context, id string) error {
	defer r.s.lockWrite()()
	p, ok := r.s.data.promotions[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.UsedCount++
	r.s.data.promotions[id] = p
	return nil
}
