// Package imaging provides the image I/O and drawing primitives used by the
// layout advisor.
//
// This package decodes uploaded photos, prepares them for detection, encodes
// annotated results, and draws the rectangles, segments and text that the
// annotator composes. All operations work with standard Go image.Image types
// and use a coordinate system where (0,0) is at the top-left corner, X
// increases rightward, and Y increases downward.
//
// # Decoding
//
// Decode and Load accept PNG, JPEG, GIF, BMP and TIFF. JPEG EXIF orientation
// is applied, so a portrait phone photo comes out upright and detection boxes
// line up with what the user sees. Images whose width or height exceeds the
// configured maximum are rejected before the pixel data is decoded.
//
// # Encoding
//
// Results are written as JPEG (default) or PNG.
// EncodeBase64 returns the same payload shape for every transport:
// width, height, base64 data and MIME type.
//
// # Thread Safety
//
// Every function is stateless. Drawing functions mutate only the
// *image.NRGBA passed to them; callers own that canvas.
//
// # Error Handling
//
// Functions return errors for:
//   - Undecodable or unsupported image data
//   - Images over the size limit
//   - Unknown output formats or encoding failures
//   - Invalid color strings
package imaging
