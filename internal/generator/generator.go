package generator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zsiec/smpte/pkg/timecode"
)

// Generator is a named, persisted timecode counter, typically one per
// playout channel.
type Generator struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FPS       uint16    `json:"fps"`
	DropFrame bool      `json:"drop_frame"`
	Counter   uint32    `json:"counter"`
	UserBits  uint32    `json:"user_bits"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewID returns an identifier for a new generator.
func NewID() string {
	return "gen_" + uuid.NewString()
}

// Timecode rebuilds the engine value for the stored counter.
func (g *Generator) Timecode() (*timecode.Timecode, error) {
	tc, err := timecode.FromCounter(g.FPS, g.DropFrame, g.Counter)
	if err != nil {
		return nil, fmt.Errorf("generator %s: %w", g.ID, err)
	}
	tc.SetUserBits(g.UserBits)
	return tc, nil
}

// Snapshot renders the generator's current position. withField controls
// the .0/.1 suffix at field rates.
func (g *Generator) Snapshot(withField bool) (Snapshot, error) {
	tc, err := g.Timecode()
	if err != nil {
		return Snapshot{}, err
	}
	return SnapshotOf(tc, withField), nil
}

func (g *Generator) validate() error {
	if _, err := timecode.NewRateTable(g.FPS); err != nil {
		return fmt.Errorf("generator %q: %w", g.Name, err)
	}
	return nil
}

// Snapshot is the externally visible state of a timecode.
type Snapshot struct {
	Text       string              `json:"text"`
	FPS        uint16              `json:"fps"`
	DropFrame  bool                `json:"drop_frame"`
	Counter    uint32              `json:"counter"`
	Components timecode.Components `json:"components"`
	FieldMark  bool                `json:"field_mark"`
	Flags      timecode.Flags      `json:"flags"`
	BCD        string              `json:"bcd"`
	UserBits   uint32              `json:"user_bits"`
	ElapsedMS  int64               `json:"elapsed_ms"`
}

// SnapshotOf captures tc at this instant.
func SnapshotOf(tc *timecode.Timecode, withField bool) Snapshot {
	return Snapshot{
		Text:       tc.Format(withField),
		FPS:        tc.FPS(),
		DropFrame:  tc.IsDropFrame(),
		Counter:    tc.Counter(),
		Components: tc.Components(),
		FieldMark:  tc.FieldMark(),
		Flags:      tc.Flags(),
		BCD:        fmt.Sprintf("0x%08x", tc.BCD()),
		UserBits:   tc.UserBits(),
		ElapsedMS:  tc.Duration().Milliseconds(),
	}
}
