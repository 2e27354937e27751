package cache

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// codec converts between stored and served entry bytes.
type codec interface {
	encode(data []byte) []byte
	decode(data []byte) ([]byte, error)
	close()
}

// rawCodec stores entries as given.
type rawCodec struct{}

func (rawCodec) encode(data []byte) []byte { return data }

func (rawCodec) decode(data []byte) ([]byte, error) { return data, nil }

func (rawCodec) close() {}

// zstdCodec stores entries as single zstd frames. EncodeAll and DecodeAll
// are safe for concurrent use.
type zstdCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCodec(level int) (*zstdCodec, error) {
	encoder, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		_ = encoder.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	return &zstdCodec{encoder: encoder, decoder: decoder}, nil
}

func (c *zstdCodec) encode(data []byte) []byte {
	return c.encoder.EncodeAll(data, make([]byte, 0, len(data)/2))
}

func (c *zstdCodec) decode(data []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress entry: %w", err)
	}
	return out, nil
}

func (c *zstdCodec) close() {
	_ = c.encoder.Close()
	c.decoder.Close()
}
