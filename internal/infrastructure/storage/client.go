package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/milan-history-map/internal/config"
	"github.com/milan-history-map/internal/domain/repository"
	"go.uber.org/zap"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	bucket     string
	serviceKey string
	logger     *zap.Logger
}

// NewStorageClient создает клиент REST API объектного хранилища фотографий
func NewStorageClient(cfg *config.StorageConfig, logger *zap.Logger) repository.BlobStorage {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		logger:     logger,
	}
}

func (c *client) objectURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)
}

func (c *client) publicPrefix() string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/", c.baseURL, c.bucket)
}

// Upload загружает файл; существующий путь не перезаписывается
func (c *client) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(path), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "false")

	if err := c.do(req); err != nil {
		c.logger.Error("Failed to upload object", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("upload %s: %w", path, err)
	}

	c.logger.Debug("Object uploaded", zap.String("path", path), zap.Int("size", len(data)))
	return nil
}

func (c *client) PublicURL(path string) string {
	return c.publicPrefix() + path
}

func (c *client) PathFromURL(url string) (string, bool) {
	prefix := c.publicPrefix()
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Remove удаляет объекты одним запросом
func (c *client) Remove(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string][]string{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", c.baseURL, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req); err != nil {
		c.logger.Warn("Failed to remove objects", zap.Strings("paths", paths), zap.Error(err))
		return fmt.Errorf("remove objects: %w", err)
	}
	return nil
}

func (c *client) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("storage API error: status %d, body: %s", resp.StatusCode, string(body))
	}
	return nil
}
