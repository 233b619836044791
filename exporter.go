package gdpr

import (
	"context"
	"time"
)

// Exporter normalizes object graphs and encodes them with a Codec.
//
// Exporters are safe for concurrent use when the codec is.
type Exporter struct {
	serializer *Serializer
	codec      Codec
}

// NewExporter creates an Exporter encoding with codec.
// Options configure the underlying Serializer; the kind defaults to KindExport.
func NewExporter(codec Codec, opts ...SerializerOption) *Exporter {
	return &Exporter{
		serializer: NewSerializer(opts...),
		codec:      codec,
	}
}

// ContentType returns the content type of the codec.
func (e *Exporter) ContentType() string {
	return e.codec.ContentType()
}

// Serializer returns the serializer used to normalize values.
func (e *Exporter) Serializer() *Serializer {
	return e.serializer
}

// Export normalizes v and encodes the result.
// Normalization errors are returned unchanged; encoding errors wrap ErrMarshal.
func (e *Exporter) Export(ctx context.Context, v any) ([]byte, error) {
	start := time.Now()
	typ := typeOfValue(v)

	data, err := e.export(ctx, v)

	emitExportComplete(ctx, e.codec.ContentType(), typ, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (e *Exporter) export(ctx context.Context, v any) ([]byte, error) {
	out, err := e.serializer.Normalize(ctx, v)
	if err != nil {
		return nil, err
	}
	data, err := e.codec.Marshal(out)
	if err != nil {
		return nil, newCodecError(ErrMarshal, err)
	}
	return data, nil
}
