// Package preset stores named grid views.
//
// A preset captures a viewport, zoom and grid type under a name, so a view
// can be re-rendered later from the CLI (--preset) or the HTTP service
// (/v1/presets/{name}/render).
//
// Implementations:
//   - [FileStore]: one JSON file per preset, for the CLI
//   - [MongoStore]: a MongoDB collection with a unique name index, for
//     servers sharing presets
//
// # Usage
//
//	store, err := preset.NewFileStore("")  // Uses ~/.config/gridkit/presets/
//	p := &preset.Preset{Name: "overview", Viewport: vp, Zoom: 0.5}
//	if err := store.Save(ctx, p); err != nil {
//	    return err
//	}
//	p, err = store.GetByName(ctx, "overview")
//	if errors.IsNotFound(err) {
//	    // no such preset
//	}
package preset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/gridkit/pkg/errors"
	"github.com/matzehuels/gridkit/pkg/grid"
	"github.com/matzehuels/gridkit/pkg/pipeline"
)

// ErrNotFound is returned when a preset does not exist. It carries the
// PRESET_NOT_FOUND code.
var ErrNotFound = errors.New(errors.ErrCodePresetNotFound, "preset not found")

// Preset is a named grid view.
type Preset struct {
	ID        string        `json:"id" bson:"_id"`
	Name      string        `json:"name" bson:"name"`
	Viewport  grid.Viewport `json:"viewport" bson:"viewport"`
	Zoom      float64       `json:"zoom" bson:"zoom"`
	GridType  grid.GridType `json:"type" bson:"type"`
	GridSize  float64       `json:"grid_size,omitempty" bson:"grid_size,omitempty"`
	CreatedAt time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time     `json:"updated_at" bson:"updated_at"`
}

// Store persists presets. Names are unique; Save with an existing name
// replaces that preset and keeps its ID and creation time.
type Store interface {
	Get(ctx context.Context, id string) (*Preset, error)
	GetByName(ctx context.Context, name string) (*Preset, error)
	List(ctx context.Context) ([]*Preset, error)
	Save(ctx context.Context, p *Preset) error
	Delete(ctx context.Context, name string) error
	Close() error
}

// Validate checks the preset and applies defaults for zoom and grid type.
func (p *Preset) Validate() error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	if p.Zoom == 0 {
		p.Zoom = pipeline.DefaultZoom
	}
	if err := errors.ValidateZoom(p.Zoom); err != nil {
		return err
	}
	if err := p.Viewport.Validate(); err != nil {
		return err
	}
	p.GridType, _ = pipeline.ValidateGridType(p.GridType)
	return nil
}

// Options returns pipeline options rendering this preset.
func (p *Preset) Options() pipeline.Options {
	return pipeline.Options{
		GridSize: p.GridSize,
		Viewport: p.Viewport,
		Zoom:     p.Zoom,
		GridType: p.GridType,
	}
}

// prepare validates p and stamps identity and timestamps. existing is the
// stored preset with the same name, or nil.
func prepare(p *Preset, existing *Preset, now time.Time) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	return nil
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, key)
}
