package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Paddle posts each page image to a PaddleOCR serving endpoint and joins the
// detected lines in the order the service returns them.
type Paddle struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

func NewPaddle(url string, logger *zap.Logger) (*Paddle, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: PADDLE_URL must be set", ErrMissingCredentials)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Paddle{url: url, client: &http.Client{Timeout: 120 * time.Second}, logger: logger}, nil
}

func (p *Paddle) Name() string { return "paddle" }

func (p *Paddle) Extract(ctx context.Context, pdf []byte, maxPages int) (*Extraction, error) {
	return eachPage(ctx, pdf, maxPages, p.logger, p.recognize)
}

type paddleRequest struct {
	Images []string `json:"images"`
}

type paddleResponse struct {
	Msg     string `json:"msg"`
	Status  string `json:"status"`
	Results [][]struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	} `json:"results"`
}

func (p *Paddle) recognize(ctx context.Context, _ int, img image.Image) (string, error) {
	data, err := encodePNG(img)
	if err != nil {
		return "", err
	}
	return p.recognizeBytes(ctx, data)
}

func (p *Paddle) recognizeBytes(ctx context.Context, png []byte) (string, error) {
	body, err := json.Marshal(paddleRequest{Images: []string{base64.StdEncoding.EncodeToString(png)}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPaddleFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("%w: status %d: %s", ErrPaddleFailed, resp.StatusCode, snippet(string(b), 200))
	}
	var out paddleResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode: %v", ErrPaddleFailed, err)
	}
	if out.Status != "" && out.Status != "000" && out.Status != "0" {
		return "", fmt.Errorf("%w: status %s: %s", ErrPaddleFailed, out.Status, out.Msg)
	}
	var lines []string
	if len(out.Results) > 0 {
		for _, r := range out.Results[0] {
			lines = append(lines, r.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}
