package transport

import (
	"bytes"
	"io"
	"net/http"
)

// readBody buffers request body so that the request can be replayed
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// clone copies request with a fresh body reader over buf
func clone(r *http.Request, buf []byte) *http.Request {
	cloned := r.Clone(r.Context())
	if buf == nil {
		return cloned
	}
	cloned.Body = io.NopCloser(bytes.NewReader(buf))
	cloned.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(buf)), nil
	}
	cloned.ContentLength = int64(len(buf))
	return cloned
}

// discard drains and closes response body so the connection can be reused
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}
