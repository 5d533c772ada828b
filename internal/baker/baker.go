// Package baker embeds OpenBadge assertion payloads inside PNG badge
// images as auxiliary text chunks, without touching the image pixels or
// the source file.
package baker

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// AssertionKeyword is the fixed tEXt keyword badge verifiers look for.
const AssertionKeyword = "openbadge"

// Baker writes baked badge images into a local uploads directory.
type Baker struct {
	uploadsDir string
	logger     *zap.Logger
}

// New creates a baker writing derived images under uploadsDir.
func New(uploadsDir string, logger *zap.Logger) *Baker {
	return &Baker{uploadsDir: uploadsDir, logger: logger}
}

// OutputFilename returns the deterministic filename of the baked image
// for a certificate. Re-baking the same certificate overwrites this file
// and nothing else.
func OutputFilename(certificateID string) string {
	return fmt.Sprintf("badge-final-%s.png", certificateID)
}

// Bake reads the badge master image, inserts a single tEXt chunk holding
// the serialized assertion immediately before the terminating IEND chunk,
// and writes the result as a new file named from the certificate id. The
// source file is never modified. Returns the path of the baked image.
func (b *Baker) Bake(sourcePath string, assertion []byte, certificateID string) (string, error) {
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return "", fmt.Errorf("read badge image %s: %w", sourcePath, err)
	}

	chunks, err := DecodeChunks(src)
	if err != nil {
		return "", fmt.Errorf("decode badge image %s: %w", sourcePath, err)
	}

	// IEND must remain the last chunk or most decoders reject the file.
	textChunk := NewTextChunk(AssertionKeyword, string(assertion))
	baked := make([]Chunk, 0, len(chunks)+1)
	baked = append(baked, chunks[:len(chunks)-1]...)
	baked = append(baked, textChunk, chunks[len(chunks)-1])

	outPath := filepath.Join(b.uploadsDir, OutputFilename(certificateID))
	if err := os.WriteFile(outPath, EncodeChunks(baked), 0o644); err != nil {
		return "", fmt.Errorf("write baked image %s: %w", outPath, err)
	}

	b.logger.Info("baked badge image",
		zap.String("certificate_id", certificateID),
		zap.String("source", sourcePath),
		zap.String("output", outPath),
	)
	return outPath, nil
}

// ExtractAssertion recovers the assertion payload from a baked image.
func ExtractAssertion(data []byte) ([]byte, error) {
	chunks, err := DecodeChunks(data)
	if err != nil {
		return nil, err
	}
	payload, ok := TextChunkValue(chunks, AssertionKeyword)
	if !ok {
		return nil, fmt.Errorf("png: no %q text chunk present", AssertionKeyword)
	}
	return []byte(payload), nil
}
