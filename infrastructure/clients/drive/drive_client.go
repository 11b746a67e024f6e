package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

var fileIDPattern = regexp.MustCompile(`/(?:file/)?d/([a-zA-Z0-9_-]+)`)

// Retriever resolves Drive share URLs to local transient files.
type Retriever struct {
	service *drive.Service
}

func NewRetriever(ctx context.Context, client *http.Client) (*Retriever, error) {
	service, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("creating drive service: %w", err)
	}
	return &Retriever{service: service}, nil
}

// Fetch downloads the file behind a Drive URL into a temp file. The returned
// cleanup removes the file and must run on every exit path, including partial
// failure.
func (r *Retriever) Fetch(ctx context.Context, rawURL string) (string, func(), error) {
	fileID, err := ExtractFileID(rawURL)
	if err != nil {
		return "", nil, err
	}

	response, err := r.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", nil, fmt.Errorf("downloading drive file %s: %w", fileID, err)
	}
	defer response.Body.Close()

	tmp, err := os.CreateTemp("", "video-scheduler-*.media")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(tmp.Name()) }

	if _, err := io.Copy(tmp, response.Body); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing drive file %s: %w", fileID, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}
	return tmp.Name(), cleanup, nil
}

// ExtractFileID pulls the Drive file id out of the common share URL shapes:
// .../file/d/<id>/view, .../d/<id>, and ...?id=<id>.
func ExtractFileID(rawURL string) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty drive url")
	}
	if m := fileIDPattern.FindStringSubmatch(rawURL); len(m) == 2 {
		return m[1], nil
	}
	if parsed, err := url.Parse(rawURL); err == nil {
		if id := parsed.Query().Get("id"); id != "" {
			return id, nil
		}
	}
	// A bare file id is accepted as-is.
	if !strings.Contains(rawURL, "/") {
		return rawURL, nil
	}
	return "", fmt.Errorf("could not extract drive file id from %q", rawURL)
}
