package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"techdesk_backend/internal/mirror"
	"techdesk_backend/internal/models"
	"techdesk_backend/internal/repositories"
	"techdesk_backend/pkg/utils"
)

// Rebuilder replaces a mirror file from a full snapshot. *mirror.Mirror satisfies it.
type Rebuilder interface {
	Rebuild(table string, fields []string, records []mirror.Record) error
}

// MirrorService re-exports mirrored tables from the database, treating the
// text files as a projection that can always be regenerated.
type MirrorService interface {
	Rebuild(ctx context.Context) (*models.MirrorRebuildResult, error)
	RunPeriodic(ctx context.Context, interval time.Duration)
}

type mirrorService struct {
	schemaRepo repositories.SchemaRepository
	pool       ConnProvider
	mirror     Rebuilder
}

func NewMirrorService(schemaRepo repositories.SchemaRepository, pool ConnProvider, m Rebuilder) MirrorService {
	return &mirrorService{schemaRepo: schemaRepo, pool: pool, mirror: m}
}

func toRecords(rows []map[string]any) []mirror.Record {
	records := make([]mirror.Record, 0, len(rows))
	for _, row := range rows {
		rec := make(mirror.Record, len(row))
		for k, v := range row {
			rec[strings.ToUpper(k)] = v
		}
		records = append(records, rec)
	}
	return records
}

func (s *mirrorService) Rebuild(ctx context.Context) (*models.MirrorRebuildResult, error) {
	result := &models.MirrorRebuildResult{Tables: make(map[string]int)}

	snapshots := make(map[string][]mirror.Record)
	err := withTxOptions(ctx, s.pool, snapshotTx, func(tx *sql.Tx) error {
		for _, table := range mirror.Tables() {
			_, rows, err := s.schemaRepo.SelectRows(ctx, tx, strings.ToLower(table), mirror.Fields(table), 0)
			if err != nil {
				return fmt.Errorf("reading %s: %w", table, err)
			}
			snapshots[table] = toRecords(rows)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, table := range mirror.Tables() {
		records := snapshots[table]
		if err := s.mirror.Rebuild(table, mirror.Fields(table), records); err != nil {
			return nil, fmt.Errorf("rebuilding %s: %w", table, err)
		}
		result.Tables[table] = len(records)
	}
	utils.LogInfo("Mirror rebuilt", map[string]interface{}{"tables": len(result.Tables)})
	return result, nil
}

// RunPeriodic rebuilds the mirror every interval until ctx is cancelled.
func (s *mirrorService) RunPeriodic(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Rebuild(ctx); err != nil {
				utils.LogError(err, "Periodic mirror rebuild failed")
			}
		}
	}
}
