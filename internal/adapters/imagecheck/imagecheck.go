package imagecheck

import (
	"context"
	"net/http"
	"strings"
	"time"

	"warriorhub/internal/domain"
)

type headChecker struct {
	client *http.Client
}

// NewHeadChecker returns an ImageValidator that issues a HEAD request and
// accepts the URL when the response Content-Type starts with "image/".
func NewHeadChecker(timeout time.Duration) domain.ImageValidator {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &headChecker{client: &http.Client{Timeout: timeout}}
}

func (c *headChecker) IsImage(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return strings.HasPrefix(resp.Header.Get("Content-Type"), "image/")
}
