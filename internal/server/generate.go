package server

import (
	"errors"

	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/export"
	"github.com/lawnchairsociety/dungeongen/internal/furnish"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/seed"
)

// errArchiveDisabled is returned for save requests when no archive is configured.
var errArchiveDisabled = errors.New("layout archive is not configured")

// GenerateRequest is the body of POST /api/layouts and of each websocket
// message. Config keys that are omitted keep the server's defaults.
type GenerateRequest struct {
	Config     dungeon.Config `json:"config"`
	Seed       *int64         `json:"seed,omitempty"`
	SeedPhrase string         `json:"seed_phrase,omitempty"`
	Name       string         `json:"name,omitempty"`
	Save       bool           `json:"save,omitempty"`
	NoFurnish  bool           `json:"no_furnish,omitempty"`
}

// newRequest returns a request pre-filled with the configured generation defaults.
func (s *Server) newRequest() GenerateRequest {
	cfg := s.cfg.Generation
	// Copy the kind lists so decoding into the request cannot alias the server config.
	cfg.Furnish.DecorationKinds = append([]string(nil), cfg.Furnish.DecorationKinds...)
	cfg.Furnish.EnemyKinds = append([]string(nil), cfg.Furnish.EnemyKinds...)
	return GenerateRequest{Config: cfg}
}

func (req GenerateRequest) resolveSeed() int64 {
	base := int64(0)
	if req.Seed != nil {
		base = *req.Seed
	} else if req.SeedPhrase == "" {
		base = seed.Random()
	}
	return seed.Resolve(base, req.SeedPhrase)
}

// generate validates the request, runs the generator and the furnisher on one
// random stream, and archives the result when asked. onStage may be nil.
func (s *Server) generate(req GenerateRequest, onStage func(dungeon.StageEvent)) (export.LayoutJSON, error) {
	if err := req.Config.Validate(); err != nil {
		return export.LayoutJSON{}, err
	}
	if req.Save && s.db == nil {
		return export.LayoutJSON{}, errArchiveDisabled
	}

	g := dungeon.NewGenerator(req.Config, req.resolveSeed())
	if onStage != nil {
		g.OnStage(onStage)
	}
	layout := g.Generate()

	var f *furnish.Furnishing
	if !req.NoFurnish {
		f = furnish.Furnish(layout, g.Rand())
	}

	out := export.ToJSON(layout, f)
	if req.Save {
		id, err := s.db.SaveLayout(layout, req.Name)
		if err != nil {
			return export.LayoutJSON{}, err
		}
		out.ID = id
		out.Name = req.Name
		logger.Info("Layout archived", "id", id, "name", req.Name, "seed", layout.Seed)
	}

	return out, nil
}

// isClientError reports whether err was caused by the request itself.
func isClientError(err error) bool {
	return errors.Is(err, dungeon.ErrInvalidConfig) ||
		errors.Is(err, database.ErrDuplicateName) ||
		errors.Is(err, errArchiveDisabled)
}
