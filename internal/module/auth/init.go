package auth

import (
	"log/slog"

	"student-data-system/internal/global/logger"
	"student-data-system/internal/store"

	"github.com/redis/go-redis/v9"
)

var log *slog.Logger

type ModuleAuth struct {
	store *store.Store
	rdb   *redis.Client
}

func New(s *store.Store, rdb *redis.Client) *ModuleAuth {
	return &ModuleAuth{store: s, rdb: rdb}
}

func (a *ModuleAuth) GetName() string {
	return "Auth"
}

func (a *ModuleAuth) Init() {
	log = logger.New("Auth")
}
