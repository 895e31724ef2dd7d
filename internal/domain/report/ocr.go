package report

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	"github.com/nutricare/nutricare/internal/platform/llm"
)

const renderDPI = 300

const ocrPrompt = "Act as an expert OCR engine. Transcribe this medical report image into highly accurate Markdown. Preserve tables. Do not summarize."

// RenderPages rasterizes a document into one JPEG per page. PDFs are
// rendered at 300 DPI; anything that is not a PDF is decoded as a plain
// image. Total failure yields an empty slice rather than an error so the
// caller can take its fallback path.
func RenderPages(path string, logger zerolog.Logger) [][]byte {
	var pages [][]byte

	doc, err := fitz.New(path)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("document render failed, trying plain image decode")
		return decodeAsImage(path, logger)
	}
	defer doc.Close()

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, renderDPI)
		if err != nil {
			logger.Warn().Err(err).Int("page", n+1).Msg("page render failed")
			continue
		}
		data, err := encodeJPEG(img)
		if err != nil {
			logger.Warn().Err(err).Int("page", n+1).Msg("page encode failed")
			continue
		}
		pages = append(pages, data)
	}
	return pages
}

func decodeAsImage(path string, logger zerolog.Logger) [][]byte {
	f, err := os.Open(path)
	if err != nil {
		logger.Warn().Err(err).Msg("could not open upload as image")
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		logger.Warn().Err(err).Msg("could not decode upload as image")
		return nil
	}
	data, err := encodeJPEG(img)
	if err != nil {
		logger.Warn().Err(err).Msg("could not re-encode upload")
		return nil
	}
	return [][]byte{data}
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Transcribe runs vision OCR over the rendered pages and joins the results
// with page separators. A page whose whole model chain fails contributes an
// empty section but keeps its separator, so any rendered page yields
// non-empty text; only a document with zero pages transcribes to "".
func (s *Service) Transcribe(ctx context.Context, pages [][]byte) string {
	var buf bytes.Buffer
	for i, page := range pages {
		text, err := s.llm.Complete(ctx, s.visionModels, llm.VisionMessage(ocrPrompt, page),
			llmTemperatureZero, llmMaxTokens)
		if err != nil {
			s.logger.Warn().Err(err).Int("page", i+1).Msg("vision transcription failed for page")
			text = ""
		}
		fmt.Fprintf(&buf, "\n--- PAGE %d ---\n%s", i+1, text)
	}
	return buf.String()
}
