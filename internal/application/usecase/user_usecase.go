package usecase

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	roles      repository.RoleRepository
	movements  repository.MovementRepository
	bcryptCost int
}

// NewUserUseCase construye el caso de uso. bcryptCost fuera de rango usa 12.
func NewUserUseCase(
	repo repository.UserRepository,
	roles repository.RoleRepository,
	movements repository.MovementRepository,
	bcryptCost int,
) *UserUseCase {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &UserUseCase{repo: repo, roles: roles, movements: movements, bcryptCost: bcryptCost}
}

// ValidatePassword exige al menos 8 caracteres con una letra y un dígito.
func ValidatePassword(pw string) string {
	if len([]rune(pw)) < 8 {
		return "min=8"
	}
	if len(pw) > 72 {
		return "max=72" // límite de bcrypt
	}
	var letter, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !letter || !digit {
		return "password_policy"
	}
	return ""
}

// Create da de alta un usuario activo con la contraseña hasheada.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "required"
	}
	if strings.TrimSpace(in.NombreCompleto) == "" {
		fields["nombreCompleto"] = "required"
	}
	if rule := ValidatePassword(in.Password); rule != "" {
		fields["password"] = rule
	}
	if _, err := uuid.Parse(in.RolID); err != nil {
		fields["rolId"] = "uuid"
	}
	if len(fields) > 0 {
		return nil, domain.InvalidFields(fields)
	}

	taken, err := uc.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("USER_TAKEN", "el username ya está registrado")
	}
	if in.Email != "" {
		taken, err = uc.repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("USER_TAKEN", "el email ya está registrado")
		}
	}
	role, err := uc.requireRole(ctx, in.RolID)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.NombreCompleto),
		Email:        in.Email,
		Active:       true,
		RoleID:       role.ID,
		RoleName:     role.Name,
		CreatedAt:    time.Now(),
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// Update cambia los campos informados; el username es inmutable.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Password != nil {
		if rule := ValidatePassword(*in.Password); rule != "" {
			return nil, domain.InvalidFields(map[string]string{"password": rule})
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.NombreCompleto != nil {
		name := strings.TrimSpace(*in.NombreCompleto)
		if name == "" {
			return nil, domain.InvalidFields(map[string]string{"nombreCompleto": "required"})
		}
		user.FullName = name
	}
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if email != "" && email != user.Email {
			taken, err := uc.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.Conflict("USER_TAKEN", "el email ya está registrado")
			}
		}
		user.Email = email
	}
	if in.RolID != nil && *in.RolID != user.RoleID {
		role, err := uc.requireRole(ctx, *in.RolID)
		if err != nil {
			return nil, err
		}
		user.RoleID, user.RoleName = role.ID, role.Name
	}
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	out := ToUserResponse(user)
	return &out, nil
}

// SetActive activa o desactiva un usuario. Un usuario inactivo no puede iniciar sesión
// ni registrar movimientos, pero conserva su historial.
func (uc *UserUseCase) SetActive(ctx context.Context, id string, active bool) (*dto.UserResponse, error) {
	user, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Active != active {
		user.Active = active
		if err := uc.repo.Update(ctx, user); err != nil {
			return nil, err
		}
	}
	out := ToUserResponse(user)
	return &out, nil
}

// List lista usuarios con paginación.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) ([]dto.UserResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}

// Delete elimina un usuario sin movimientos; con historial se debe desactivar.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	has, err := uc.movements.ExistsByUser(ctx, id)
	if err != nil {
		return err
	}
	if has {
		return domain.Conflict("USER_HAS_MOVEMENTS", "el usuario tiene movimientos registrados; desactívelo")
	}
	return uc.repo.Delete(ctx, id)
}

// EnsureAdmin crea el usuario administrador inicial si no existe. Idempotente.
func (uc *UserUseCase) EnsureAdmin(ctx context.Context, username, password string) error {
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	role, err := uc.roles.GetByName(ctx, entity.RoleAdmin)
	if err != nil {
		return err
	}
	if role == nil {
		return domain.NotFound("ROLE_NOT_FOUND", "rol ADMIN no sembrado; ejecute las migraciones")
	}
	_, err = uc.Create(ctx, dto.CreateUserRequest{
		Username:       username,
		Password:       password,
		NombreCompleto: "Administrador",
		RolID:          role.ID,
	})
	if err != nil {
		return err
	}
	log.Info().Str("username", username).Msg("usuario administrador creado")
	return nil
}

func (uc *UserUseCase) find(ctx context.Context, id string) (*entity.User, error) {
	if err := checkID("id", id); err != nil {
		return nil, err
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("USER_NOT_FOUND", "usuario no encontrado")
	}
	return user, nil
}

func (uc *UserUseCase) requireRole(ctx context.Context, id string) (*entity.Role, error) {
	role, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, domain.NotFound("ROLE_NOT_FOUND", "el rol no existe")
	}
	return role, nil
}
