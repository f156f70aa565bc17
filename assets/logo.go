package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
)

// Logo wider than this is downscaled before being embedded, so the brand mark
// never dominates the document payload.
const maxLogoWidth = 360

// Logo is the brand mark embedded into every rendered document. Exactly one of
// DataURI or Text is set: DataURI when the logo asset was found and decoded,
// Text as the fallback brand mark otherwise. Loaded once at startup and
// read-only afterwards.
type Logo struct {
	DataURI string
	Text    string
}

// LoadLogo reads and prepares the brand logo from the given path. A missing or
// undecodable asset degrades to the textual brand mark, never to an error: the
// service must come up without its logo.
func LoadLogo(path string, logger *slog.Logger) *Logo {
	img, err := imaging.Open(path)
	if err != nil {
		logger.Warn("logo asset not available, using text brand mark",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return &Logo{Text: "FARMAP"}
	}

	if img.Bounds().Dx() > maxLogoWidth {
		img = imaging.Resize(img, maxLogoWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		logger.Warn("logo re-encode failed, using text brand mark",
			slog.String("error", err.Error()),
		)
		return &Logo{Text: "FARMAP"}
	}

	uri := fmt.Sprintf("data:image/png;base64,%s", base64.StdEncoding.EncodeToString(buf.Bytes()))
	logger.Info("logo loaded",
		slog.String("path", path),
		slog.Int("width", img.Bounds().Dx()),
		slog.Int("encoded_bytes", buf.Len()),
	)
	return &Logo{DataURI: uri}
}
