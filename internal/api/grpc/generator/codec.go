package generator

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype every call of this service uses.
const CodecName = "json"

//nolint:gochecknoinits // Codecs are looked up in the global gRPC registry.
func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec marshals the service messages as JSON.
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}
