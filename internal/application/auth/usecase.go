package auth

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

var errInvalidCredentials = &domain.Error{
	Kind:    domain.KindUnauthorized,
	Code:    "INVALID_CREDENTIALS",
	Message: "usuario o contraseña incorrectos",
}

// TokenIssuer emite y valida los tokens de la API (implementado por jwt.Signer).
type TokenIssuer interface {
	GenerateAccess(userID, username, role string) (string, time.Time, error)
	GenerateRefresh(userID, username, role string) (string, time.Time, error)
	Parse(token, wantType string) (*jwt.Claims, error)
}

// AuthUseCase casos de uso de autenticación: login y renovación de tokens.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenIssuer) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens, now: time.Now}
}

// Login verifica username/password y emite access + refresh token.
// Usuario inexistente y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		log.Debug().Str("username", in.Username).Msg("login rechazado")
		return nil, errInvalidCredentials
	}
	if !user.Active {
		return nil, inactive()
	}
	return uc.issue(user)
}

// Refresh canjea un refresh token vigente por un par nuevo. Relee el usuario para
// reflejar cambios de rol o desactivaciones posteriores a la emisión.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.LoginResponse, error) {
	claims, err := uc.tokens.Parse(in.RefreshToken, jwt.TokenRefresh)
	if err != nil {
		code := "INVALID_TOKEN"
		if errors.Is(err, jwt.ErrWrongTokenType) {
			code = "WRONG_TOKEN_TYPE"
		}
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Code: code, Message: "refresh token inválido", Err: err}
	}
	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.Error{Kind: domain.KindUnauthorized, Code: "INVALID_TOKEN", Message: "usuario inexistente"}
	}
	if !user.Active {
		return nil, inactive()
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	access, exp, err := uc.tokens.GenerateAccess(user.ID, user.Username, user.RoleName)
	if err != nil {
		return nil, domain.Internal("TOKEN_ERROR", err)
	}
	refresh, _, err := uc.tokens.GenerateRefresh(user.ID, user.Username, user.RoleName)
	if err != nil {
		return nil, domain.Internal("TOKEN_ERROR", err)
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(exp.Sub(uc.now()).Seconds()),
		User:         usecase.ToUserResponse(user),
	}, nil
}

func inactive() error {
	return &domain.Error{Kind: domain.KindForbidden, Code: "USER_INACTIVE", Message: "el usuario está desactivado"}
}
