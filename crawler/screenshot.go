package crawler

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/draw"
	"image/png"
)

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// blackFramePNG returns a base64 800x600 solid black PNG, used in place of a
// screenshot that could not be captured. The error text passed in is not
// drawn into the image (no font library is available) and is not reported
// anywhere else either.
func blackFramePNG(_ string) string {
	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return encodeBase64(buf.Bytes())
}
