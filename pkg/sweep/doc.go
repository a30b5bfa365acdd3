// Package sweep extrudes a tapered, box-section tube along a polyline.
//
// Each path segment becomes a Cell: eight corners of an oriented box
// centered on the segment midpoint. The trailing face of every cell after
// the first is copied bit-for-bit from the leading face of the previous
// cell, so adjacent cells share their boundary exactly instead of
// approximately. Extrude drives BuildCell across a Path and submits the
// cells to a kernel.Kernel, either one mesh per cell or one merged,
// closed mesh.
package sweep
