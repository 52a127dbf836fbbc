package utils

import (
	"context"
	"io"
	"sync"
)

var (
	pool = sync.Pool{
		New: func() interface{} {
			buffer := make([]byte, 1024*1024)
			return &buffer
		},
	}
)

// An io.Copy() that respects context cancellations.
func Copy(ctx context.Context, dst io.Writer, src io.Reader) (n int64, err error) {
	var offset int64
	buff := pool.Get().(*[]byte)
	defer pool.Put(buff)

	for {
		select {
		case <-ctx.Done():
			return offset, nil

		default:
			n, err := src.Read(*buff)
			if err != nil && err != io.EOF {
				return offset, err
			}

			if n == 0 {
				return offset, nil
			}

			_, err = dst.Write((*buff)[:n])
			if err != nil {
				return offset, err
			}
			offset += int64(n)
		}
	}
}
