package app

import "context"

// SnapshotSource supplies the encoded-orderbook bytestream the service
// rebuilds its engine from (spec.md §6.1, §6.4). Implementations may
// read a local file, a gzip-compressed cache of one, or any other
// byte-identical-to-the-wire-format source; the service only needs the
// bytes plus the batch id they represent.
type SnapshotSource interface {
	Load(ctx context.Context) (data []byte, batch uint32, err error)
}
