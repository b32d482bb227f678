package source

import (
	"context"
	"io"

	"github.com/thanos-io/objstore"

	"github.com/arloliu/tdms/errs"
)

// bucketSource reads an object with one ranged GET per ReadAt.
type bucketSource struct {
	// io.ReaderAt carries no context; the one given at open is used for every read.
	ctx    context.Context //nolint:containedctx
	bucket objstore.BucketReader
	name   string
	size   int64
}

// OpenBucket serves the object name of bucket. The object size is taken from
// its attributes; reads are ranged requests, so nothing is downloaded up front.
func OpenBucket(ctx context.Context, bucket objstore.BucketReader, name string) (Source, error) {
	attrs, err := bucket.Attributes(ctx, name)
	if err != nil {
		return nil, errs.IO("reading attributes", err)
	}

	return &bucketSource{ctx: ctx, bucket: bucket, name: name, size: attrs.Size}, nil
}

func (b *bucketSource) ReadAt(p []byte, off int64) (int, error) {
	if off >= b.size {
		return 0, io.EOF
	}

	length := int64(len(p))
	short := false

	if off+length > b.size {
		length = b.size - off
		short = true
	}

	rc, err := b.bucket.GetRange(b.ctx, b.name, off, length)
	if err != nil {
		return 0, errs.IO("getting range", err)
	}
	defer rc.Close()

	n, err := io.ReadFull(rc, p[:length])
	if err != nil {
		return n, errs.IO("reading range", err)
	}

	if short {
		return n, io.EOF
	}

	return n, nil
}

func (b *bucketSource) Size() int64 { return b.size }

// Close does not close the bucket; the caller owns it.
func (b *bucketSource) Close() error { return nil }
