//go:build !ebiten

package ui

import "bigmap/internal/core"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(core.SnapshotProvider, string, int) *HUD { return nil }

// AddButton is a no-op in the headless build.
func (h *HUD) AddButton(string, func()) {}

// Contains always reports false in the headless build.
func (h *HUD) Contains(int, int) bool { return false }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int) {}
