package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pathwise/pathwise-backend/internal/logger"
	"github.com/pathwise/pathwise-backend/internal/roadmap"
	"github.com/pathwise/pathwise-backend/internal/types"
	"github.com/pathwise/pathwise-backend/internal/utils"
)

// ChatContext is the transcript state forwarded to the tutoring service with
// a general-chat query.
type ChatContext struct {
	Messages []types.ChatMessage `json:"messages"`
	Roadmap  roadmap.Roadmap     `json:"roadmap"`
	Events   []types.ChatEvent   `json:"events,omitempty"`
}

type ContentItem struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// TutorService wraps the external roadmap/chat HTTP service. Responses may
// carry a roadmap array embedded in free text; extraction is the caller's
// concern. Errors are surfaced once and never retried here.
type TutorService interface {
	Ask(ctx context.Context, query string) (string, error)
	GeneralChat(ctx context.Context, meta ChatContext, query string) (string, error)
	// LookupContent returns supporting content for a query. An empty slice
	// is a valid "no content" outcome.
	LookupContent(ctx context.Context, query string) ([]ContentItem, error)
}

type tutorService struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewTutorService(log *logger.Logger) TutorService {
	serviceLog := log.With("service", "TutorService")
	baseURL := strings.TrimRight(utils.GetEnv("TUTOR_BASE_URL", "http://localhost:9000", log), "/")
	timeoutSec := utils.GetEnvAsInt("TUTOR_TIMEOUT_SECONDS", 120, log)
	return &tutorService{
		log:        serviceLog,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
	}
}

func (ts *tutorService) Ask(ctx context.Context, query string) (string, error) {
	endpoint := ts.baseURL + "/ask?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return ts.doText(req)
}

func (ts *tutorService) GeneralChat(ctx context.Context, meta ChatContext, query string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"metadata": meta,
		"query":    query,
	})
	if err != nil {
		return "", fmt.Errorf("encode general chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.baseURL+"/general-chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	return ts.doText(req)
}

func (ts *tutorService) LookupContent(ctx context.Context, query string) ([]ContentItem, error) {
	endpoint := ts.baseURL + "/content?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	raw, err := ts.doRaw(req)
	if err != nil {
		return nil, err
	}
	var items []ContentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("tutor content decode: %w", err)
	}
	if items == nil {
		items = []ContentItem{}
	}
	return items, nil
}

func (ts *tutorService) doText(req *http.Request) (string, error) {
	raw, err := ts.doRaw(req)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func (ts *tutorService) doRaw(req *http.Request) ([]byte, error) {
	resp, err := ts.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tutor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tutor read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tutor http %d", resp.StatusCode)
	}
	// A proxy interstitial (warning page) arrives with 200 and an HTML
	// content type; treat it as a transport failure, not a reply.
	if isHTMLResponse(resp, raw) {
		return nil, fmt.Errorf("tutor returned an HTML interstitial page")
	}
	return raw, nil
}

func isHTMLResponse(resp *http.Response, body []byte) bool {
	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(contentType, "text/html") {
		return true
	}
	head := strings.ToLower(strings.TrimSpace(string(body)))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
