// Package contour rasterizes 2D scalar fields — substrate
// concentration slices — into annotated raster images.
//
// What:
//
//   - Render paints a *mat.Dense sampled at mesh-center axes into an
//     image: bilinearly interpolated filled bands (or iso-band
//     boundary lines), axis frame with ticks and labels, optional
//     grid, a right-hand colorbar with the scale extrema, and a
//     centered title.
//   - RenderScatter paints point samples (cell centers colored by a
//     tracked variable) over the same frame, grid, axis and colorbar
//     furniture.
//   - WriteImage encodes the result as jpeg, png or tiff; jpeg frames
//     are flattened over the background color first.
//   - Colormaps: viridis, plasma, jet, gray, interpolated between
//     fixed anchors.
//
// Why:
//
// The output images are consumed both standalone and as movie/GIF
// frames, so EvenSize forces even pixel dimensions and the defaults
// (640x480, 25 levels, viridis) stay stable across a time series.
//
// Errors:
//
//   - ErrEmptyField, ErrAxisMismatch, ErrUnknownColormap, ErrBadColor,
//     ErrBadExtension.
package contour
