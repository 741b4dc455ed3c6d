package stats

import (
	"log/slog"

	"student-data-system/internal/global/logger"
	"student-data-system/internal/store"

	"github.com/redis/go-redis/v9"
)

var log *slog.Logger

type ModuleStats struct {
	store *store.Store
	rdb   *redis.Client
}

func New(s *store.Store, rdb *redis.Client) *ModuleStats {
	return &ModuleStats{store: s, rdb: rdb}
}

func (*ModuleStats) GetName() string {
	return "Stats"
}

func (m *ModuleStats) Init() {
	log = logger.New("Stats")
}
