// Package pages provides access to the page images of a scanned document.
//
// A conversion consumes one raster image per page. The [Source] interface
// abstracts where those images come from; [ImageDir] implements it over a
// directory of pre-rendered page images.
//
// # Page Ordering
//
// ImageDir orders files by the numbers embedded in their names, so
// page_2.png sorts before page_10.png regardless of lexicographic order:
//
//	src, _ := pages.NewImageDir("scans/")
//	for n := 1; n <= src.Count(); n++ {
//	    img, _ := src.Image(ctx, n)
//	    ...
//	}
//
// # Supported Formats
//
// PNG, JPEG, TIFF, BMP and WebP images are accepted. Each image is
// verified to decode before its bytes are handed to the caller, so a
// corrupt page surfaces as an error for that page alone rather than a
// crash deeper in the conversion.
package pages
