// Package grid holds the tile geometry shared by the swarm controller and the
// sandbox world: room positions, the eight step directions, the four formation
// orientations, and clockwise rotation of slot grids.
package grid
