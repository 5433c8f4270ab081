// Package overlay keeps the per-session registry of stamp placements: which
// stamp sits where on which page, at what size, rotation, opacity and layer.
// The store is not safe for concurrent use; the owning session serializes
// access.
package overlay

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"stampapi/internal/model"
)

// configVersion tags exported snapshots.
const configVersion = "1.0"

// Store maps pages to ordered placements and ids to their source assets.
type Store struct {
	pages  map[int][]*model.StampPlacement
	assets map[string]*model.StampAsset
	params map[string]model.GenerationParams
}

// New creates an empty store.
func New() *Store {
	return &Store{
		pages:  make(map[int][]*model.StampPlacement),
		assets: make(map[string]*model.StampAsset),
		params: make(map[string]model.GenerationParams),
	}
}

// Add registers a new placement for the asset on the given page and returns
// its id. Width and height default to the asset's native pixel size; the
// position defaults to the page center when the caller passes (0.5, 0.5).
func (s *Store) Add(page int, asset *model.StampAsset, x, y float64, width, height int) string {
	b := asset.Image.Bounds()
	if width <= 0 {
		width = b.Dx()
	}
	if height <= 0 {
		height = b.Dy()
	}

	p := &model.StampPlacement{
		ID:      uuid.NewString(),
		Type:    asset.Type,
		Opacity: 1,
		ZIndex:  1,
	}
	p.ClampPosition(x, y)
	p.ClampSize(width, height)

	s.pages[page] = append(s.pages[page], p)
	s.assets[p.ID] = asset
	s.params[p.ID] = asset.Params
	return p.ID
}

// find looks an id up across all pages.
func (s *Store) find(id string) *model.StampPlacement {
	for _, placements := range s.pages {
		for _, p := range placements {
			if p.ID == id {
				return p
			}
		}
	}
	return nil
}

// Move repositions a placement; reports false for unknown ids.
func (s *Store) Move(id string, x, y float64) bool {
	p := s.find(id)
	if p == nil {
		return false
	}
	p.ClampPosition(x, y)
	return true
}

// Resize changes a placement's target pixel size, clamped to the documented
// range; reports false for unknown ids.
func (s *Store) Resize(id string, width, height int) bool {
	p := s.find(id)
	if p == nil {
		return false
	}
	p.ClampSize(width, height)
	return true
}

// Rotate sets rotation, normalized to [0,360).
func (s *Store) Rotate(id string, deg float64) bool {
	p := s.find(id)
	if p == nil {
		return false
	}
	p.SetRotation(deg)
	return true
}

// SetOpacity sets opacity, clamped to [0,1].
func (s *Store) SetOpacity(id string, v float64) bool {
	p := s.find(id)
	if p == nil {
		return false
	}
	p.SetOpacity(v)
	return true
}

// SetZIndex sets the layer order.
func (s *Store) SetZIndex(id string, z int) bool {
	p := s.find(id)
	if p == nil {
		return false
	}
	p.ZIndex = z
	return true
}

// Remove deletes a placement and frees its asset.
func (s *Store) Remove(id string) bool {
	for page, placements := range s.pages {
		for i, p := range placements {
			if p.ID == id {
				s.pages[page] = append(placements[:i], placements[i+1:]...)
				delete(s.assets, id)
				delete(s.params, id)
				return true
			}
		}
	}
	return false
}

// PageStamps returns the page's placements ordered by z-index ascending,
// ties broken by insertion order.
func (s *Store) PageStamps(page int) []*model.StampPlacement {
	placements := s.pages[page]
	out := make([]*model.StampPlacement, len(placements))
	copy(out, placements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// Asset returns the raster backing a placement, or nil.
func (s *Store) Asset(id string) *model.StampAsset {
	return s.assets[id]
}

// Params returns the generation parameters recorded for a placement.
func (s *Store) Params(id string) (model.GenerationParams, bool) {
	p, ok := s.params[id]
	return p, ok
}

// AttachAsset re-associates a regenerated asset with an imported placement.
func (s *Store) AttachAsset(id string, asset *model.StampAsset) bool {
	if s.find(id) == nil {
		return false
	}
	s.assets[id] = asset
	return true
}

// ClearPage removes every placement on one page and returns the count.
func (s *Store) ClearPage(page int) int {
	placements := s.pages[page]
	for _, p := range placements {
		delete(s.assets, p.ID)
		delete(s.params, p.ID)
	}
	delete(s.pages, page)
	return len(placements)
}

// ClearAll empties the store and returns how many placements were dropped.
func (s *Store) ClearAll() int {
	var total int
	for _, placements := range s.pages {
		total += len(placements)
	}
	s.pages = make(map[int][]*model.StampPlacement)
	s.assets = make(map[string]*model.StampAsset)
	s.params = make(map[string]model.GenerationParams)
	return total
}

// Summary aggregates placement counts across the store.
type Summary struct {
	Total           int            `json:"total_stamps"`
	PagesWithStamps int            `json:"pages_with_stamps"`
	CountsByType    map[string]int `json:"stamp_types"`
	CountsByPage    map[int]int    `json:"pages"`
}

// Summarize reports totals, per-type and per-page counts.
func (s *Store) Summarize() Summary {
	sum := Summary{
		CountsByType: make(map[string]int),
		CountsByPage: make(map[int]int),
	}
	for page, placements := range s.pages {
		if len(placements) == 0 {
			continue
		}
		sum.PagesWithStamps++
		sum.CountsByPage[page] = len(placements)
		for _, p := range placements {
			sum.Total++
			sum.CountsByType[string(p.Type)]++
		}
	}
	return sum
}

// snapshot is the export/import wire format. Assets are not embedded; the
// caller regenerates them from the recorded generation params.
type snapshot struct {
	Version      string                            `json:"version"`
	StampsByPage map[string][]model.StampPlacement `json:"stamps_by_page"`
	StampData    map[string]model.GenerationParams `json:"stamp_data"`
}

// Export serializes every placement and its generation params as JSON.
func (s *Store) Export() ([]byte, error) {
	snap := snapshot{
		Version:      configVersion,
		StampsByPage: make(map[string][]model.StampPlacement),
		StampData:    s.params,
	}
	for page, placements := range s.pages {
		key := strconv.Itoa(page)
		for _, p := range placements {
			snap.StampsByPage[key] = append(snap.StampsByPage[key], *p)
		}
	}
	return json.MarshalIndent(snap, "", "  ")
}

// Import replaces the whole store from an exported snapshot. The replacement
// is atomic: malformed input reports false and leaves the store unchanged.
// Imported placements have no assets until AttachAsset re-associates them.
func (s *Store) Import(data []byte) bool {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return false
	}

	pages := make(map[int][]*model.StampPlacement)
	params := make(map[string]model.GenerationParams)
	for pageStr, placements := range snap.StampsByPage {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return false
		}
		for i := range placements {
			p := placements[i]
			if p.ID == "" {
				return false
			}
			// Re-apply invariants; foreign snapshots may carry raw values.
			p.ClampPosition(p.X, p.Y)
			p.ClampSize(p.Width, p.Height)
			p.SetRotation(p.Rotation)
			p.SetOpacity(p.Opacity)
			pages[page] = append(pages[page], &p)
			if gp, ok := snap.StampData[p.ID]; ok {
				params[p.ID] = gp
			}
		}
	}

	s.pages = pages
	s.params = params
	s.assets = make(map[string]*model.StampAsset)
	return true
}

// Info describes one placement with its owning page.
type Info struct {
	Placement model.StampPlacement   `json:"position"`
	Params    model.GenerationParams `json:"data"`
	Page      int                    `json:"page_number"`
}

// Lookup returns full information for a placement id.
func (s *Store) Lookup(id string) (Info, bool) {
	for page, placements := range s.pages {
		for _, p := range placements {
			if p.ID == id {
				return Info{Placement: *p, Params: s.params[id], Page: page}, true
			}
		}
	}
	return Info{}, false
}

// String implements fmt.Stringer for debug logs.
func (s *Store) String() string {
	sum := s.Summarize()
	return fmt.Sprintf("overlay(total=%d pages=%d)", sum.Total, sum.PagesWithStamps)
}
