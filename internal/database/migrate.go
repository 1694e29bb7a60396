package database

import (
	"errors"
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// MigrationResult summarizes a CopyLayouts run.
type MigrationResult struct {
	Copied  int
	Skipped int // named layouts already present in the destination
}

// CopyLayouts copies every layout in src into dst, oldest first. Layouts get
// new ids in dst. Named layouts whose name already exists in dst are skipped,
// so an interrupted copy can be re-run. With dryRun nothing is written.
func CopyLayouts(src, dst *Database, dryRun bool) (MigrationResult, error) {
	var result MigrationResult

	type entry struct {
		id   int64
		name string
	}

	rows, err := src.db.Query("SELECT id, COALESCE(name, '') FROM layouts ORDER BY id")
	if err != nil {
		return result, fmt.Errorf("failed to list source layouts: %w", err)
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.name); err != nil {
			rows.Close()
			return result, fmt.Errorf("failed to scan source layout: %w", err)
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("failed to list source layouts: %w", err)
	}

	for _, e := range entries {
		layout, err := src.LoadLayout(e.id)
		if err != nil {
			return result, fmt.Errorf("failed to load layout %d: %w", e.id, err)
		}

		if dryRun {
			result.Copied++
			continue
		}

		newID, err := dst.SaveLayout(layout, e.name)
		if errors.Is(err, ErrDuplicateName) {
			logger.Warning("Skipping layout, name already exists", "id", e.id, "name", e.name)
			result.Skipped++
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to copy layout %d: %w", e.id, err)
		}

		logger.Debug("Layout copied", "from_id", e.id, "to_id", newID)
		result.Copied++
	}

	return result, nil
}
