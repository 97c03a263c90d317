package player

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/llehouerou/neurobeats/internal/task"
)

// maxRemoteSize bounds how much of a remote track is buffered in memory.
const maxRemoteSize = 256 << 20

type byteSource struct {
	*bytes.Reader
}

func (byteSource) Close() error { return nil }

// open returns a seekable reader for ref. Remote refs are downloaded in full
// so the decoders can seek for looping.
func open(ctx context.Context, client *http.Client, logger *log.Logger, ref task.TrackRef) (io.ReadSeekCloser, error) {
	if ref.IsRemote() {
		return fetch(ctx, client, logger, ref)
	}
	f, err := os.Open(string(ref))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, mediaErr(NotFound, ref, err)
		}
		return nil, mediaErr(DecodeFailed, ref, err)
	}
	return f, nil
}

func fetch(ctx context.Context, client *http.Client, logger *log.Logger, ref task.TrackRef) (io.ReadSeekCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(ref), nil)
	if err != nil {
		return nil, mediaErr(NotFound, ref, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, mediaErr(NetworkFailed, ref, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, mediaErr(NotFound, ref, fmt.Errorf("http status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, mediaErr(NetworkFailed, ref, fmt.Errorf("http status %d", resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, mediaErr(NetworkFailed, ref, err)
	}
	if len(data) > maxRemoteSize {
		return nil, mediaErr(DecodeFailed, ref, fmt.Errorf("track larger than %s", humanize.IBytes(maxRemoteSize)))
	}
	logger.Debug("fetched track", "ref", ref, "size", humanize.Bytes(uint64(len(data))))
	return byteSource{bytes.NewReader(data)}, nil
}
