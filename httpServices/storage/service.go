package httpServices

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"
)

// StorageClient uploads proof media to the object storage HTTP gateway.
type StorageClient struct {
	httpClient *http.Client
	baseURL    string
	bucket     string
}

func NewClient(baseURL, bucket string) *StorageClient {
	return &StorageClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		bucket:  bucket,
	}
}

// Upload stores the object under the given path and returns its public URL.
func (c *StorageClient) Upload(path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("storage returned status %d: %s", resp.StatusCode, string(body))
	}

	return url, nil
}
