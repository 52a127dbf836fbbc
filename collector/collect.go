package collector

import (
	"context"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
	"www.velocidex.com/golang/getthis/archive"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/csv"
	"www.velocidex.com/golang/getthis/streams"
	"www.velocidex.com/golang/getthis/utils"
)

const (
	manifestName = "GetThis.csv"
	logName      = "GetThis.log"

	csvStreamInitialSize = 1 * 1024 * 1024
	logStreamInitialSize = 5 * 1024 * 1024
)

func (self *Collector) csvOptions() *csv.Options {
	options := &csv.Options{
		UseCRLF: self.config.Output.CSV.UseCRLF,
	}
	if self.config.Output.CSV.Separator != "" {
		options.Separator = []rune(self.config.Output.CSV.Separator)[0]
	}
	return options
}

// collectable reports whether the sample's payload goes to the sink.
// A sample whose pipeline failed to build has no stream to consume
// and is handled like an off limits one.
func collectable(sample *SampleRef) bool {
	return !sample.OffLimits && sample.CopyStream != nil
}

// hashOffLimitSamples drains the pipelines of off limit samples into
// a null sink so their hash taps still produce digests for the
// manifest.
func (self *Collector) hashOffLimitSamples(ctx context.Context) {
	self.logger.Info("Computing hash of off limit samples")

	for _, sample := range self.samples.Samples() {
		if !sample.OffLimits || sample.CopyStream == nil {
			continue
		}

		_, err := utils.Copy(ctx, streams.DevNullStream{}, sample.CopyStream)
		if err != nil {
			self.logger.Error(
				"Failed while computing hash of %s: %v",
				sample.SampleName, err)
		}

		sample.CopyStream.Close()
	}
}

func (self *Collector) collectMatchingSamples(ctx context.Context) error {
	switch self.config.Output.Type {
	case config.OutputArchive:
		return self.collectToArchive(ctx)

	case config.OutputDirectory:
		return self.collectToDirectory(ctx)
	}

	return errors.New("unsupported output type")
}

// collectToArchive streams the registry into a zip archive. The
// manifest and the run log are buffered in spillable temporary
// streams next to the archive and appended as the last two members.
func (self *Collector) collectToArchive(ctx context.Context) error {
	archive_path := self.config.Output.Path
	temp_dir := filepath.Dir(archive_path)

	csv_stream := utils.NewTemporaryStream(temp_dir, csvStreamInitialSize)
	defer csv_stream.Close()

	log_stream := utils.NewTemporaryStream(temp_dir, logStreamInitialSize)
	defer log_stream.Close()

	restore := self.logger.Redirect(log_stream)
	restored := false
	defer func() {
		if !restored {
			restore()
		}
	}()

	zip_creator, err := archive.NewZipCreator(
		archive_path,
		self.config.Output.Password,
		self.config.Output.Compression,
		self.logger)
	if err != nil {
		return err
	}

	var compressor archive.Creator = zip_creator

	compressor.SetCallback(func(item archive.Item) {
		self.logger.Info("\t%s", item.Path)
	})

	for _, sample := range self.samples.Samples() {
		if !collectable(sample) {
			continue
		}

		display_path := sample.Match.FullName(
			sample.Match.MatchingNames[0],
			sample.Attribute())

		err := compressor.AddStream(
			sample.SampleName, display_path, sample.CopyStream)
		if err != nil {
			self.logger.Error(
				"Failed to add sample %s: %v", sample.SampleName, err)
		}
	}

	self.logger.Info("Adding matching samples to archive:")

	err = compressor.FlushQueue(ctx)
	if err != nil {
		return errors.Wrap(err, "flushing archive queue")
	}

	csv_writer := csv.NewWriter(csv_stream, self.csvOptions())
	for _, sample := range self.samples.Samples() {
		err := self.writeSampleRows(csv_writer, sample)
		if err != nil {
			self.logger.Error(
				"Failed to add sample %s metadata to csv: %v",
				sample.Match.MatchingNames[0].FullPathName, err)
		}
	}

	err = csv_writer.Flush()
	if err != nil {
		return errors.Wrap(err, "flushing manifest")
	}

	if csv_stream.Size() > 0 {
		err := csv_stream.Rewind()
		if err != nil {
			return errors.Wrap(err, "rewinding manifest stream")
		}

		err = compressor.AddStream(manifestName, manifestName, csv_stream)
		if err != nil {
			self.logger.Error("Failed to add %s: %v", manifestName, err)
		}
	}

	// Detach the logger before the buffered log is spliced into the
	// archive; anything logged from here on goes to the original
	// sink again.
	restore()
	restored = true

	if log_stream.Size() > 0 {
		err := log_stream.Rewind()
		if err != nil {
			return errors.Wrap(err, "rewinding log stream")
		}

		err = compressor.AddStream(logName, logName, log_stream)
		if err != nil {
			self.logger.Error("Failed to add %s: %v", logName, err)
		}
	}

	err = compressor.Complete(ctx)
	if err != nil {
		return errors.Wrap(err, "completing archive")
	}

	return nil
}

// collectToDirectory copies each collectable sample into a file under
// the output directory, with the manifest and log beside them.
func (self *Collector) collectToDirectory(ctx context.Context) error {
	out_dir := self.config.Output.Path

	err := self.fs.MkdirAll(out_dir, 0700)
	if err != nil {
		return errors.Wrap(err, "creating output directory")
	}

	log_fd, err := self.fs.Create(filepath.Join(out_dir, logName))
	if err != nil {
		return errors.Wrap(err, "creating log file")
	}
	defer log_fd.Close()

	restore := self.logger.Redirect(log_fd)
	defer restore()

	csv_fd, err := self.fs.Create(filepath.Join(out_dir, manifestName))
	if err != nil {
		return errors.Wrap(err, "creating manifest")
	}
	defer csv_fd.Close()

	self.logger.Info("Copying matching samples to %s", out_dir)

	for _, sample := range self.samples.Samples() {
		if !collectable(sample) {
			continue
		}

		err := self.writeSampleFile(ctx, out_dir, sample)
		if err != nil {
			self.logger.Error(
				"Failed while writing sample %s: %v",
				sample.SampleName, err)
		}
	}

	csv_writer := csv.NewWriter(csv_fd, self.csvOptions())
	for _, sample := range self.samples.Samples() {
		err := self.writeSampleRows(csv_writer, sample)
		if err != nil {
			self.logger.Error(
				"Failed to add sample %s metadata to csv: %v",
				sample.Match.MatchingNames[0].FullPathName, err)
		}
	}

	return csv_writer.Flush()
}

func (self *Collector) writeSampleFile(
	ctx context.Context, out_dir string, sample *SampleRef) error {

	// Sample names use '/' separators when the spec nests them
	// under a prefix.
	sample_path := filepath.Join(out_dir, filepath.FromSlash(sample.SampleName))

	parent := path.Dir(sample.SampleName)
	if parent != "." {
		err := self.fs.MkdirAll(
			filepath.Join(out_dir, filepath.FromSlash(parent)), 0700)
		if err != nil {
			return err
		}
	}

	out_fd, err := self.fs.Create(sample_path)
	if err != nil {
		return err
	}
	defer out_fd.Close()

	n, err := utils.Copy(ctx, out_fd, sample.CopyStream)
	sample.CopyStream.Close()
	if err != nil {
		return err
	}

	self.logger.Info("\t%s copied (%d bytes)", sample.SampleName, n)
	return nil
}
