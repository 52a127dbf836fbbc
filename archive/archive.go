/*
   GetThis - NTFS sample collection.
   Copyright (C) 2019-2025 Rapid7 Inc.

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU Affero General Public License as published
   by the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU Affero General Public License for more details.

   You should have received a copy of the GNU Affero General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package archive

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/alexmullins/zip"
	"github.com/klauspost/compress/flate"
	"github.com/pkg/errors"
	"www.velocidex.com/golang/getthis/logging"
	"www.velocidex.com/golang/getthis/utils"
)

// Item describes one archive member after it was written out.
type Item struct {
	Path       string
	SourcePath string
	Size       int64
}

// Creator is the archive sink the collector drives. Streams are
// queued by AddStream and written out by FlushQueue in queue order;
// Complete flushes anything still queued and seals the archive.
type Creator interface {
	AddStream(name, source_path string, reader io.Reader) error
	SetCallback(callback func(item Item))
	FlushQueue(ctx context.Context) error
	Complete(ctx context.Context) error
}

type queued_item struct {
	name        string
	source_path string
	reader      io.Reader
}

// ZipCreator writes members into a zip file. With a password set it
// nests an encrypted data.zip inside the outer file, the only way
// ZipCrypto can protect member names as well as content.
type ZipCreator struct {
	fd  io.WriteCloser
	zip *zip.Writer

	password     string
	delegate_zip *zip.Writer

	queue    []queued_item
	callback func(item Item)

	logger *logging.Logger
}

func compressionLevel(compression string) (int, error) {
	switch strings.ToLower(compression) {
	case "", "normal":
		return flate.DefaultCompression, nil
	case "none":
		return flate.NoCompression, nil
	case "fast", "fastest":
		return flate.BestSpeed, nil
	case "best":
		return flate.BestCompression, nil
	}
	return 0, errors.Errorf("unknown compression level %q", compression)
}

func NewZipCreator(
	path, password, compression string,
	logger *logging.Logger) (*ZipCreator, error) {

	level, err := compressionLevel(compression)
	if err != nil {
		return nil, err
	}

	fd, err := os.OpenFile(
		path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.Wrap(err, "creating archive")
	}

	zip.RegisterCompressor(zip.Deflate,
		func(out io.Writer) (io.WriteCloser, error) {
			return flate.NewWriter(out, level)
		})

	return &ZipCreator{
		fd:       fd,
		zip:      zip.NewWriter(fd),
		password: password,
		logger:   logger,
	}, nil
}

func (self *ZipCreator) SetCallback(callback func(item Item)) {
	self.callback = callback
}

// AddStream queues a member. The reader is not touched until the
// queue is flushed, and is consumed exactly once.
func (self *ZipCreator) AddStream(
	name, source_path string, reader io.Reader) error {
	if reader == nil {
		return errors.New("nil stream for " + name)
	}

	self.queue = append(self.queue, queued_item{
		name:        name,
		source_path: source_path,
		reader:      reader,
	})
	return nil
}

func (self *ZipCreator) getZipFileWriter(
	name, source_path string) (io.Writer, error) {
	header := &zip.FileHeader{
		Name:    name,
		Method:  zip.Deflate,
		Comment: source_path,
	}

	if self.password == "" {
		return self.zip.CreateHeader(header)
	}

	if self.delegate_zip == nil {
		fd, err := self.zip.Encrypt("data.zip", self.password)
		if err != nil {
			return nil, err
		}

		self.delegate_zip = zip.NewWriter(fd)
	}

	return self.delegate_zip.CreateHeader(header)
}

// FlushQueue writes all queued members out in order. A member whose
// stream fails to copy is logged and skipped; failing to open a new
// member means the archive itself is broken and aborts.
func (self *ZipCreator) FlushQueue(ctx context.Context) error {
	for _, item := range self.queue {
		writer, err := self.getZipFileWriter(item.name, item.source_path)
		if err != nil {
			return errors.Wrap(err, "adding "+item.name)
		}

		n, err := utils.Copy(ctx, writer, item.reader)
		closeReader(item.reader)
		if err != nil {
			self.logger.Error(
				"Failed to add %s: %v", item.name, err)
			continue
		}

		if self.callback != nil {
			self.callback(Item{
				Path:       item.name,
				SourcePath: item.source_path,
				Size:       n,
			})
		}
	}

	self.queue = nil
	return nil
}

func closeReader(reader io.Reader) {
	closer, ok := reader.(io.Closer)
	if ok {
		closer.Close()
	}
}

// Complete flushes any remaining members and seals the archive.
func (self *ZipCreator) Complete(ctx context.Context) error {
	err := self.FlushQueue(ctx)
	if err != nil {
		return err
	}

	if self.delegate_zip != nil {
		err := self.delegate_zip.Close()
		if err != nil {
			return errors.Wrap(err, "closing inner archive")
		}
	}

	err = self.zip.Close()
	if err != nil {
		return errors.Wrap(err, "closing archive")
	}

	return self.fd.Close()
}
