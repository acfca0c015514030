package core

// CellHandle is the visual presence of one cell. Handles are built by an
// injected factory and recycled, never destroyed.
type CellHandle interface {
	// SetActive shows or hides the handle.
	SetActive(active bool)
	SetPosition(pos Vec3)
	SetLabel(label string)
}

// CellData is the plain data record attached to a live cell.
type CellData struct {
	Coord CellCoord
	Seed  uint32
}

// Reset fills the record for the cell at coord on a map seeded with seed.
// The per-cell seed is stable, so a cell recreated after eviction gets the
// same value.
func (d *CellData) Reset(coord CellCoord, seed int64) {
	d.Coord = coord
	d.Seed = CellSeed(uint32(seed), coord)
}

// CellSeed mixes the map seed with a cell coordinate.
func CellSeed(seed uint32, c CellCoord) uint32 {
	h := seed
	h ^= uint32(c.Row) * 0x9e3779b1
	h ^= uint32(c.Col) * 0x85ebca6b
	return hash32(h)
}

func hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}
