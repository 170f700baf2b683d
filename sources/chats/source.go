package chats

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"chatledger/sources/platform"
)

const WatchURL = "https://www.youtube.com/watch?v="

// ChatSource yields the raw chat of one video. Implementations own any retry policy.
type ChatSource interface {
	Fetch(ctx context.Context, videoURL string) ([]RawMessage, error)
}

// ExportSource serves chats previously saved by the downloader as <dir>/<video id>.json, each a
// JSON array of raw messages.
type ExportSource struct {
	dir string
}

func NewExportSource(dir string) *ExportSource {
	return &ExportSource{dir: dir}
}

func (s *ExportSource) Fetch(ctx context.Context, videoURL string) ([]RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, err := VideoID(videoURL)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(filepath.Join(s.dir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("fetch chat %s: %w", id, err)
	}

	var messages []RawMessage
	if err := json.Unmarshal(content, &messages); err != nil {
		return nil, fmt.Errorf("decode chat export %s: %w", id, err)
	}
	return messages, nil
}

// VideoID extracts the id from a watch URL (v= parameter) or a short/embed URL path.
func VideoID(videoURL string) (string, error) {
	u, err := url.Parse(videoURL)
	if err != nil {
		return "", fmt.Errorf("parse video url %q: %w", videoURL, err)
	}

	id := u.Query().Get("v")
	if id == "" {
		id = path.Base(u.Path)
	}
	if !platform.VideoIdPattern.MatchString(id) {
		return "", fmt.Errorf("no video id in %q", videoURL)
	}
	return id, nil
}

// ReadVideoList reads one video id per line and returns watch URLs, skipping blank lines.
func ReadVideoList(listPath string) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open video list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "http") {
			urls = append(urls, line)
		} else {
			urls = append(urls, WatchURL+line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read video list: %w", err)
	}
	return urls, nil
}
