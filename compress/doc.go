// Package compress provides the codecs used to compress generated files
// before they reach an output sink.
//
// Compression is applied to a complete file after assembly and never
// changes what was generated: decompressing the stored bytes yields the
// exact framed file. Supported algorithms:
//   - None: files are stored as generated
//   - Zstd: standard Zstandard frames (github.com/klauspost/compress/zstd)
//   - S2: S2 blocks (github.com/klauspost/compress/s2)
//   - LZ4: raw LZ4 blocks (github.com/pierrec/lz4/v4)
//
// # Usage
//
//	codec, err := compress.CreateCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	stored, err := codec.Compress(file.Data)
//
// # Thread Safety
//
// All built-in codecs are stateless values; pooled encoders and decoders
// make them safe for concurrent use.
package compress
