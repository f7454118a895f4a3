// Package auth emite la sesión de administración a partir de la clave de administrador.
package auth

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cep-backoffice/internal/application/dto"
	"github.com/jhoicas/cep-backoffice/internal/domain"
	"github.com/jhoicas/cep-backoffice/pkg/jwt"
)

const adminSubject = "admin"

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AdminAuthUseCase canjea la clave de administrador por un JWT de corta duración.
// La clave nunca se guarda en claro: la configuración solo tiene su hash bcrypt.
type AdminAuthUseCase struct {
	keyHash []byte
	jwtCfg  JWTConfig
	log     zerolog.Logger
}

// NewAdminAuthUseCase construye el caso de uso.
func NewAdminAuthUseCase(keyHash string, jwtCfg JWTConfig, log zerolog.Logger) *AdminAuthUseCase {
	if keyHash == "" {
		log.Warn().Msg("ADMIN_KEY_HASH vacío: el login de administración queda deshabilitado")
	}
	return &AdminAuthUseCase{keyHash: []byte(keyHash), jwtCfg: jwtCfg, log: log}
}

// Login verifica la clave y devuelve el token. Clave incorrecta o login deshabilitado: domain.ErrUnauthorized.
func (uc *AdminAuthUseCase) Login(in dto.AdminLoginRequest) (*dto.TokenResponse, error) {
	if len(uc.keyHash) == 0 || in.Key == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword(uc.keyHash, []byte(in.Key)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			uc.log.Warn().Msg("intento de login con clave de administración incorrecta")
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("verificar clave: %w", err)
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, adminSubject, jwt.RoleAdmin, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("generar token: %w", err)
	}
	return &dto.TokenResponse{Token: token, ExpiresIn: uc.jwtCfg.ExpMinutes * 60}, nil
}

// HashKey genera el hash bcrypt para ADMIN_KEY_HASH.
func HashKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("%w: clave vacía", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
