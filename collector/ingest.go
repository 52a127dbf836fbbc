package collector

import (
	"context"

	"github.com/google/uuid"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/finder"
)

// FindMatchingSamples drives the finder and feeds every delivered
// match into the registry, updating the quota accounting as it goes.
func (self *Collector) FindMatchingSamples(ctx context.Context) error {
	return self.finder.Find(ctx, func(match *finder.Match) bool {
		if match == nil {
			return true
		}

		self.ingestMatch(match)
		return true
	})
}

// ingestMatch processes one match: select the governing spec,
// classify each matching attribute against the limits, register the
// resulting samples and update accumulators and sticky flags.
func (self *Collector) ingestMatch(match *finder.Match) {
	spec := self.specForTerm(match.Term)
	if spec == nil {
		self.logger.Error(
			"Could not find sample spec for match %s",
			match.Term.Description())
		return
	}

	if len(match.MatchingNames) == 0 {
		self.logger.Error(
			"Match for %s carries no names", match.Term.Description())
		return
	}

	full_name := match.MatchingNames[0].FullPathName

	if len(match.MatchingAttributes) == 0 {
		self.logger.Warn(
			"%q matched %q but no data related attribute was associated",
			full_name, match.Term.Description())
		return
	}

	for attr_index, attr := range match.MatchingAttributes {
		display_name := match.FullName(match.MatchingNames[0], attr)

		data_size := int64(-1)
		if attr.DataStream != nil {
			data_size = attr.DataStream.Size()
		}

		status := SampleLimitStatus(
			&self.config.GlobalLimits, &spec.Limits, data_size)

		inserted := self.addSampleForMatch(status, spec, match, attr_index)

		// A duplicate updates neither accumulators nor sticky
		// flags; the first registration already accounted for it.
		if !inserted {
			self.logger.Info("\t%s is already collected", display_name)
			continue
		}

		switch status {
		case NoLimits, SampleWithinLimits:
			self.logger.Info("\t%s matched (%d bytes)", display_name, data_size)

			spec.Limits.AccumulatedBytesTotal += data_size
			spec.Limits.AccumulatedSampleCount++

			self.config.GlobalLimits.AccumulatedBytesTotal += data_size
			self.config.GlobalLimits.AccumulatedSampleCount++

		case GlobalSampleCountLimitReached:
			self.logger.Info("\t%s : Global sample count reached (%d)",
				display_name, self.config.GlobalLimits.MaxSampleCount)
			self.config.GlobalLimits.SampleCountReached = true

		case GlobalMaxBytesPerSample:
			self.logger.Info("\t%s : Exceeds global per sample size limit (%d)",
				display_name, self.config.GlobalLimits.MaxBytesPerSample)
			self.config.GlobalLimits.BytesPerSampleReached = true

		case GlobalMaxBytesTotal:
			self.logger.Info("\t%s : Global total sample size limit reached (%d)",
				display_name, self.config.GlobalLimits.MaxBytesTotal)
			self.config.GlobalLimits.BytesTotalReached = true

		case LocalSampleCountLimitReached:
			self.logger.Info("\t%s : sample count reached (%d)",
				display_name, spec.Limits.MaxSampleCount)
			spec.Limits.SampleCountReached = true

		case LocalMaxBytesPerSample:
			self.logger.Info("\t%s : Exceeds per sample size limit (%d)",
				display_name, spec.Limits.MaxBytesPerSample)
			spec.Limits.BytesPerSampleReached = true

		case LocalMaxBytesTotal:
			self.logger.Info("\t%s : total sample size limit reached (%d)",
				display_name, spec.Limits.MaxBytesTotal)
			spec.Limits.BytesTotalReached = true

		case FailedToComputeLimits:
			self.logger.Error(
				"\t%s : could not determine sample size", display_name)
		}
	}
}

func (self *Collector) specForTerm(term finder.Term) *config.SampleSpec {
	for _, spec := range self.config.Specs {
		if spec.HasTerm(term) {
			return spec
		}
	}
	return nil
}

// addSampleForMatch registers one (match, attribute) pair. Returns
// false when the sample identity was already present; the existing
// entry is kept and the candidate dropped.
func (self *Collector) addSampleForMatch(
	status LimitStatus,
	spec *config.SampleSpec,
	match *finder.Match,
	attr_index int) bool {

	attr := match.MatchingAttributes[attr_index]

	sample := &SampleRef{
		VolumeSerial:   match.VolumeReader.VolumeSerialNumber(),
		FRN:            match.FRN,
		InstanceID:     attr.InstanceID,
		Match:          match,
		AttributeIndex: attr_index,
		Content:        spec.Content,
		CollectionDate: self.collection_date,
		OffLimits:      status.OffLimits(),
	}

	snapshot_reader, ok := match.VolumeReader.(finder.SnapshotVolumeReader)
	if ok {
		sample.SnapshotID = snapshot_reader.SnapshotID()
	} else {
		sample.SnapshotID = uuid.Nil
	}

	_, pres := self.samples.samples[sample.key()]
	if pres {
		self.logger.Verbose("Not adding duplicate sample %s to archive",
			match.MatchingNames[0].FullPathName)
		return false
	}

	// Several hard links share one payload; the name stored on the
	// sample is the last one synthesized.
	for _, name := range match.MatchingNames {
		self.logger.Verbose("Adding sample %s to archive", name.FullPathName)

		sample.SampleName = self.sample_names.Allocate(
			spec.Name, spec.Content, name.FileName, attr.Name)
	}

	err := self.configureSampleStreams(sample)
	if err != nil {
		self.logger.Error("Failed to configure sample reference for %s: %v",
			sample.SampleName, err)
	}

	self.samples.FindOrInsert(sample)
	return true
}
