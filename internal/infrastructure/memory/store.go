// Package memory implementa los puertos de repositorio sobre mapas en memoria.
// Se usa con STORAGE_DRIVER=memory (demo sin base de datos) y como backend de
// los tests de casos de uso.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/pkg/textnorm"
)

type stockKey struct {
	productID string
	storeID   string
}

// dataset contiene todas las tablas. Las entidades se guardan por valor para
// que un puntero devuelto al caller no altere el estado interno.
type dataset struct {
	companies       map[string]entity.Company
	modules         map[string]entity.CompanyModule // companyID + ":" + módulo
	stores          map[string]entity.Store
	users           map[string]entity.User
	products        map[string]entity.Product
	categories      map[string]entity.Category
	suppliers       map[string]entity.Supplier
	customers       map[string]entity.Customer
	promotions      map[string]entity.Promotion
	stock           map[stockKey]entity.Stock
	movements       []entity.InventoryMovement
	sales           map[string]entity.Sale
	transfers       map[string]entity.InventoryTransfer
	purchaseOrders  map[string]entity.PurchaseOrder
	invoices        map[string]entity.Invoice
	invoicePayments []entity.InvoicePayment
	cashSessions    map[string]entity.CashSession
	settings        map[string]entity.Settings
}

func newDataset() *dataset {
	return &dataset{
		companies:      map[string]entity.Company{},
		modules:        map[string]entity.CompanyModule{},
		stores:         map[string]entity.Store{},
		users:          map[string]entity.User{},
		products:       map[string]entity.Product{},
		categories:     map[string]entity.Category{},
		suppliers:      map[string]entity.Supplier{},
		customers:      map[string]entity.Customer{},
		promotions:     map[string]entity.Promotion{},
		stock:          map[stockKey]entity.Stock{},
		sales:          map[string]entity.Sale{},
		transfers:      map[string]entity.InventoryTransfer{},
		purchaseOrders: map[string]entity.PurchaseOrder{},
		invoices:       map[string]entity.Invoice{},
		cashSessions:   map[string]entity.CashSession{},
		settings:       map[string]entity.Settings{},
	}
}

// clone copia profunda usada como punto de restauración de una transacción.
func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.companies {
		c.companies[k] = v
	}
	for k, v := range d.modules {
		c.modules[k] = v
	}
	for k, v := range d.stores {
		c.stores[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.customers {
		c.customers[k] = v
	}
	for k, v := range d.promotions {
		c.promotions[k] = v
	}
	for k, v := range d.stock {
		c.stock[k] = v
	}
	c.movements = append([]entity.InventoryMovement(nil), d.movements...)
	for k, v := range d.sales {
		c.sales[k] = copySale(v)
	}
	for k, v := range d.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	for k, v := range d.purchaseOrders {
		c.purchaseOrders[k] = copyPurchaseOrder(v)
	}
	for k, v := range d.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	c.invoicePayments = append([]entity.InvoicePayment(nil), d.invoicePayments...)
	for k, v := range d.cashSessions {
		c.cashSessions[k] = v
	}
	for k, v := range d.settings {
		c.settings[k] = v
	}
	return c
}

// Store base de datos en memoria. Toda escritura toma txMu, de modo que una
// transacción no convive con otras escrituras; las lecturas solo toman mu y ven
// el último estado confirmado.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data *dataset
}

// lockWrite toma txMu y mu para una escritura; devuelve la función que los libera.
func (s *Store) lockWrite() func() {
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

// Repositories agrupa todos los adaptadores del almacén.
type Repositories struct {
	Companies      *CompanyRepo
	Stores         *StoreRepo
	Users          *UserRepo
	Products       *ProductRepo
	Categories     *CategoryRepo
	Suppliers      *SupplierRepo
	Customers      *CustomerRepo
	Promotions     *PromotionRepo
	Stock          *StockRepo
	Movements      *MovementRepo
	Sales          *SaleRepo
	Transfers      *TransferRepo
	PurchaseOrders *PurchaseOrderRepo
	Invoices       *InvoiceRepo
	CashSessions   *CashSessionRepo
	Settings       *SettingsRepo
	Analytics      *AnalyticsRepo
	Tx             *TxRunner
}

// Repositories construye todos los repositorios sobre el almacén.
func (s *Store) Repositories() Repositories {
	return Repositories{
		Companies:      &CompanyRepo{s: s},
		Stores:         &StoreRepo{s: s},
		Users:          &UserRepo{s: s},
		Products:       &ProductRepo{s: s},
		Categories:     &CategoryRepo{s: s},
		Suppliers:      &SupplierRepo{s: s},
		Customers:      &CustomerRepo{s: s},
		Promotions:     &PromotionRepo{s: s},
		Stock:          &StockRepo{s: s},
		Movements:      &MovementRepo{s: s},
		Sales:          &SaleRepo{s: s},
		Transfers:      &TransferRepo{s: s},
		PurchaseOrders: &PurchaseOrderRepo{s: s},
		Invoices:       &InvoiceRepo{s: s},
		CashSessions:   &CashSessionRepo{s: s},
		Settings:       &SettingsRepo{s: s},
		Analytics:      &AnalyticsRepo{s: s},
		Tx:             &TxRunner{s: s},
	}
}

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con semántica de transacción sobre el almacén.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run ejecuta fn sobre una copia de trabajo del estado. Si fn termina sin error la
// copia reemplaza al estado confirmado; si falla se descarta. Mientras dura, el
// resto de escrituras espera en txMu y las lecturas ven el estado anterior.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.RLock()
	work := &Store{data: r.s.data.clone()}
	r.s.mu.RUnlock()

	repos := repository.TxRepos{
		Movements:      &MovementRepo{s: work},
		Stock:          &StockRepo{s: work},
		Products:       &ProductRepo{s: work},
		Customers:      &CustomerRepo{s: work},
		Promotions:     &PromotionRepo{s: work},
		Sales:          &SaleRepo{s: work},
		Transfers:      &TransferRepo{s: work},
		PurchaseOrders: &PurchaseOrderRepo{s: work},
		Invoices:       &InvoiceRepo{s: work},
		CashSessions:   &CashSessionRepo{s: work},
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	r.s.data = work.data
	r.s.mu.Unlock()
	return nil
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func containsFold(s, substr string) bool {
	return textnorm.Contains(s, substr)
}

func sortByName[T any](items []T, name func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(name(items[i])) < strings.ToLower(name(items[j]))
	})
}

func copySale(s entity.Sale) entity.Sale {
	s.Items = append([]entity.SaleItem(nil), s.Items...)
	s.Payments = append([]entity.SalePayment(nil), s.Payments...)
	return s
}

func copyTransfer(t entity.InventoryTransfer) entity.InventoryTransfer {
	t.Items = append([]entity.TransferItem(nil), t.Items...)
	return t
}

func copyPurchaseOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	return po
}

func copyInvoice(inv entity.Invoice) entity.Invoice {
	inv.Lines = append([]entity.InvoiceLine(nil), inv.Lines...)
	return inv
}

func stockQty(d *dataset, productID, storeID string) decimal.Decimal {
	if storeID != "" {
		return d.stock[stockKey{productID, storeID}].Quantity
	}
	total := decimal.Zero
	for k, st := range d.stock {
		if k.productID == productID {
			total = total.Add(st.Quantity)
		}
	}
	return total
}
