// Package raster provides the pixel-buffer primitives shared by the
// measurement pipeline.
//
// The central type is Region, an immutable row-major RGBA buffer extracted
// from a captured frame. Regions are plain data: whoever extracts a Region
// owns it, and nothing in this package mutates one after construction.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward. Region-local coordinates
// are relative to the region's own top-left pixel; callers that need
// full-frame positions must add the region's origin themselves.
//
// # Thread Safety
//
// FrameCache is safe for concurrent use. Region values are immutable after
// construction and may be shared freely between goroutines.
package raster
