package stats

import (
	"encoding/json"
	"time"

	"student-data-system/internal/global/cache"
	"student-data-system/internal/global/response"
	"student-data-system/internal/store"

	"github.com/gin-gonic/gin"
)

const cacheTTL = 60 * time.Second

// StatsResult is the total row count plus per-kelas counts, kelas
// ascending.
type StatsResult struct {
	Total   int64              `json:"total"`
	ByKelas []store.KelasCount `json:"by_kelas"`
}

// StudentStats aggregates the roster. The result is cached briefly;
// roster mutations invalidate the key.
func (m *ModuleStats) StudentStats(c *gin.Context) {
	if cached, ok := cache.GetJSON(c, m.rdb, cache.KeyStudentStats); ok {
		var result StatsResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			response.Success(c, result)
			return
		}
	}

	total, err := m.store.Count()
	if err != nil {
		log.Error("count failed", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	byKelas, err := m.store.CountByKelas()
	if err != nil {
		log.Error("group count failed", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	result := StatsResult{Total: total, ByKelas: byKelas}
	if encoded, err := json.Marshal(result); err == nil {
		cache.SetJSON(c, m.rdb, cache.KeyStudentStats, string(encoded), cacheTTL)
	}
	response.Success(c, result)
}
