// Package formats reads terrain elevation inputs: ISOH height tables
// (optionally zstd-compressed) and grayscale PNG heightmaps.
package formats
