package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/studyhub/backend/internal/repository"
)

// GroupStat is an aggregate bucket: file count plus total byte size.
type GroupStat struct {
	Count int   `json:"count"`
	Size  int64 `json:"size"`
}

// StorageStats is a read-only aggregate snapshot over the public catalog.
// Groupings are always present, empty when there is no data.
type StorageStats struct {
	TotalFiles int                  `json:"totalFiles"`
	TotalSize  int64                `json:"totalSize"`
	ByCategory map[string]GroupStat `json:"byCategory"`
	BySubject  map[string]GroupStat `json:"bySubject"`
	ByYear     map[string]GroupStat `json:"byYear"`
	ByLevel    map[string]GroupStat `json:"byLevel"`
}

// StatsService computes grouped storage statistics over the catalog.
type StatsService struct {
	catalog repository.ResourceCatalog
}

func NewStatsService(catalog repository.ResourceCatalog) *StatsService {
	return &StatsService{catalog: catalog}
}

// GetStorageStats folds the public catalog into aggregate counts and sizes.
// No filesystem access is involved; the snapshot is consistent only as of
// the moment the catalog read completes. A catalog failure yields a nil
// result and an error, never partial or zeroed statistics.
func (s *StatsService) GetStorageStats(ctx context.Context) (*StorageStats, error) {
	isPublic := true
	resources, err := s.catalog.FindMany(ctx, repository.ResourceFilter{IsPublic: &isPublic})
	if err != nil {
		return nil, fmt.Errorf("failed to get storage stats: %w", err)
	}

	stats := &StorageStats{
		ByCategory: map[string]GroupStat{},
		BySubject:  map[string]GroupStat{},
		ByYear:     map[string]GroupStat{},
		ByLevel:    map[string]GroupStat{},
	}

	for _, r := range resources {
		stats.TotalFiles++
		stats.TotalSize += r.FileSize

		addGroup(stats.ByCategory, string(r.Category), r.FileSize)
		addGroup(stats.BySubject, fmt.Sprintf("%s (%s)", r.Subject.Code, r.Subject.Level), r.FileSize)

		yearKey := "Unknown"
		if r.Year != nil {
			yearKey = strconv.Itoa(*r.Year)
		}
		addGroup(stats.ByYear, yearKey, r.FileSize)
		addGroup(stats.ByLevel, string(r.Subject.Level), r.FileSize)
	}

	return stats, nil
}

func addGroup(m map[string]GroupStat, key string, size int64) {
	g := m[key]
	g.Count++
	g.Size += size
	m[key] = g
}
