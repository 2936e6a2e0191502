// Package icon converts an arbitrary raster image into an ICNS container.
//
// The source is sniffed and decoded (PNG, JPEG, GIF, BMP, TIFF, WebP), cropped
// to a centered square, and resampled into the fixed rendition set of the
// container. Exact sizes are copied pixel for pixel, everything else goes
// through Catmull-Rom; sources smaller than the largest rendition are upscaled
// and reported through a non-fatal warning. Each rendition is stored as a PNG
// stream inside the container.
package icon
