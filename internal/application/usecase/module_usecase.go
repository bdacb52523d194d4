package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// ModuleService decide si una empresa puede usar un módulo: la empresa debe
// estar operando y el módulo activo y sin vencer.
type ModuleService struct {
	companies repository.CompanyRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companies repository.CompanyRepository) *ModuleService {
	return &ModuleService{companies: companies}
}

// HasActiveModule devuelve false sin error para módulos desconocidos, empresas
// inexistentes o suspendidas. El error queda para fallos de infraestructura.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	if !entity.IsModule(moduleName) {
		return false, nil
	}
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return false, fmt.Errorf("module: empresa: %w", err)
	}
	if company == nil || !company.Operating() {
		return false, nil
	}
	return s.companies.HasActiveModule(ctx, companyID, moduleName)
}
