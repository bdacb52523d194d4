package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/permission"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const minPasswordLen = 8

// UserUseCase administra los empleados de la empresa (EmployeeMonitoring).
type UserUseCase struct {
	repo      repository.UserRepository
	storeRepo repository.StoreRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, storeRepo repository.StoreRepository) *UserUseCase {
	return &UserUseCase{repo: repo, storeRepo: storeRepo}
}

// Create da de alta un empleado. Valida rol, tienda y longitud de la contraseña.
func (uc *UserUseCase) Create(ctx context.Context, companyID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || strings.TrimSpace(in.Name) == "" || !permission.ValidRole(in.Role) || len(in.Password) < minPasswordLen {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.checkStore(ctx, companyID, in.StoreID); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmailAndCompany(ctx, email, companyID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		StoreID:      in.StoreID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return EntityToUserResponse(user), nil
}

// GetByID obtiene un empleado de la empresa.
func (uc *UserUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.UserResponse, error) {
	user, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return EntityToUserResponse(user), nil
}

// Update modifica nombre, rol, tienda, estado o contraseña.
func (uc *UserUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.owned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Role != nil {
		if !permission.ValidRole(*in.Role) {
			return nil, domain.ErrInvalidInput
		}
		user.Role = *in.Role
	}
	if in.StoreID != nil {
		if err := uc.checkStore(ctx, companyID, *in.StoreID); err != nil {
			return nil, err
		}
		user.StoreID = *in.StoreID
	}
	if in.Status != nil {
		switch *in.Status {
		case entity.UserStatusActive, entity.UserStatusInactive, entity.UserStatusSuspended:
			user.Status = *in.Status
		default:
			return nil, domain.ErrInvalidInput
		}
	}
	if in.Password != nil {
		if len(*in.Password) < minPasswordLen {
			return nil, domain.ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return EntityToUserResponse(user), nil
}

// List lista los empleados de la empresa.
func (uc *UserUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *EntityToUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

func (uc *UserUseCase) owned(ctx context.Context, companyID, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

func (uc *UserUseCase) checkStore(ctx context.Context, companyID, storeID string) error {
	if storeID == "" {
		return nil
	}
	store, err := uc.storeRepo.GetByID(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil || store.CompanyID != companyID {
		return domain.ErrNotFound
	}
	return nil
}

// EntityToUserResponse convierte la entidad a DTO (sin hash de contraseña).
func EntityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		StoreID:   u.StoreID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
