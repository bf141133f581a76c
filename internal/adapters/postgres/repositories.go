package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/marketloop/auth-service/internal/domain"
	"github.com/marketloop/auth-service/internal/ports"
)

type Repositories struct {
	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Audit    ports.AuditRepository
	Shops    ports.VerificationHook
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:    &userRepository{db: db},
		Sessions: &sessionRepository{db: db},
		Audit:    &auditRepository{db: db},
		Shops:    &shopVerificationHook{db: db},
	}
}

// storeErr maps driver failures onto the domain taxonomy: a missing row is
// domain.ErrNotFound, anything else is an infrastructure fault the caller
// reports generically.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
