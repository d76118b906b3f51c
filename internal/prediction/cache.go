// Package prediction caches the latest color-detection results per camera.
// The cache is entirely derived from the last detect or capture response:
// it is replaced wholesale, may be stale or empty, and is keyed by ROI id
// so the overlay can look results up in O(1) during a render.
package prediction

import "sync"

// Placeholder is rendered for an ROI that has no cached prediction.
const Placeholder = "--"

// Prediction is one detection result, schema per the backend's detect
// response.
type Prediction struct {
	ID         string  `json:"id"`
	Face       string  `json:"face"`
	Index      int     `json:"index"`
	Color      string  `json:"color"`
	ColorName  string  `json:"color_name,omitempty"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

// Cache maps camera id -> ROI id -> latest prediction.
type Cache struct {
	mu       sync.RWMutex
	byCamera map[string]map[string]Prediction
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{byCamera: make(map[string]map[string]Prediction)}
}

// ReplaceAll swaps the whole cache for the contents of a detection
// response, re-keying each camera's list by ROI id.
func (c *Cache) ReplaceAll(cameras map[string][]Prediction) {
	fresh := make(map[string]map[string]Prediction, len(cameras))
	for cameraID, items := range cameras {
		byID := make(map[string]Prediction, len(items))
		for _, p := range items {
			byID[p.ID] = p
		}
		fresh[cameraID] = byID
	}

	c.mu.Lock()
	c.byCamera = fresh
	c.mu.Unlock()
}

// Lookup returns the cached prediction for an ROI, if any.
func (c *Cache) Lookup(cameraID, roiID string) (Prediction, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byCamera[cameraID][roiID]
	return p, ok
}

// Text returns the prediction label for an ROI, or the placeholder when no
// prediction is cached.
func (c *Cache) Text(cameraID, roiID string) string {
	if p, ok := c.Lookup(cameraID, roiID); ok && p.Label != "" {
		return p.Label
	}
	return Placeholder
}

// Clear drops every cached prediction.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.byCamera = make(map[string]map[string]Prediction)
	c.mu.Unlock()
}
