package youtube

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	boundaryPrefix   = "clipcast-"
	defaultMediaType = "video/mp4"
)

// newBoundary generates a fresh delimiter per upload so it cannot collide
// with part payloads.
func newBoundary() string {
	buf := make([]byte, 12)
	_, _ = rand.Read(buf)
	return boundaryPrefix + hex.EncodeToString(buf)
}

// relatedBuilder assembles the two-part multipart/related body the insert
// endpoint requires: a JSON metadata part followed by the binary media part.
// The phase types enforce that ordering — only Metadata can start the body,
// and only the mediaPhase it returns can finish it.
type relatedBuilder struct {
	boundary string
}

func newRelatedBuilder() *relatedBuilder {
	return &relatedBuilder{boundary: newBoundary()}
}

func (b *relatedBuilder) ContentType() string {
	return fmt.Sprintf("multipart/related; boundary=%s", b.boundary)
}

func (b *relatedBuilder) Metadata(resource videoResource) (*mediaPhase, error) {
	payload, err := json.Marshal(resource)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}

	phase := &mediaPhase{boundary: b.boundary}
	fmt.Fprintf(&phase.head, "--%s\r\n", b.boundary)
	phase.head.WriteString("Content-Type: application/json; charset=UTF-8\r\n\r\n")
	phase.head.Write(payload)
	return phase, nil
}

type mediaPhase struct {
	boundary string
	head     bytes.Buffer
}

// Media appends the binary part and the terminating boundary marker. The
// media buffer backs the returned reader directly, so the payload is held
// exactly once and streamed lazily from there.
func (p *mediaPhase) Media(data []byte, contentType string) (io.Reader, int64) {
	if contentType == "" {
		contentType = defaultMediaType
	}

	fmt.Fprintf(&p.head, "\r\n--%s\r\n", p.boundary)
	fmt.Fprintf(&p.head, "Content-Type: %s\r\n\r\n", contentType)
	trailer := fmt.Sprintf("\r\n--%s--\r\n", p.boundary)

	size := int64(p.head.Len()) + int64(len(data)) + int64(len(trailer))
	body := io.MultiReader(
		bytes.NewReader(p.head.Bytes()),
		bytes.NewReader(data),
		strings.NewReader(trailer),
	)
	return body, size
}
