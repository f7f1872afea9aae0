// Package repository declares the storage interfaces the application
// depends on. Concrete implementations live in subpackages (sqlite);
// services and handlers only ever see these interfaces.
package repository

import (
	"context"

	"github.com/rkovalev/cardwall/internal/model"
)

// SessionRepository persists the per-browser-session acting user.
//
// Sessions here are a convenience, not authentication: losing one just means
// the next page load picks a fresh random user. Get returns
// apperror.ErrNotFound for an unknown token.
type SessionRepository interface {
	Save(ctx context.Context, session *model.Session) error
	Get(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, token string) error
}
