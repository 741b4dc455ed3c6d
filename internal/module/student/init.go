package student

import (
	"log/slog"

	"student-data-system/internal/global/archive"
	"student-data-system/internal/global/logger"
	"student-data-system/internal/store"

	"github.com/redis/go-redis/v9"
)

var log *slog.Logger

type ModuleStudent struct {
	store   *store.Store
	rdb     *redis.Client
	archive *archive.Archive
}

func New(s *store.Store, rdb *redis.Client, arc *archive.Archive) *ModuleStudent {
	return &ModuleStudent{store: s, rdb: rdb, archive: arc}
}

func (m *ModuleStudent) GetName() string {
	return "Student"
}

func (m *ModuleStudent) Init() {
	log = logger.New("Student")
}
