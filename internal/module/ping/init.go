package ping

import (
	"log/slog"

	"student-data-system/internal/global/logger"
)

var log *slog.Logger

type ModulePing struct{}

func New() *ModulePing {
	return &ModulePing{}
}

func (p *ModulePing) GetName() string {
	return "Ping"
}

func (p *ModulePing) Init() {
	log = logger.New("Ping")
}
