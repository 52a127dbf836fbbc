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

// Package collector implements the sample collection pipeline: it
// deduplicates matches delivered by a finder, applies quota policies,
// builds per sample hash-and-transform pipelines and multiplexes the
// resulting byte streams into an archive or a directory tree together
// with a CSV manifest.
package collector

import (
	"context"
	"os"
	"time"

	"github.com/spf13/afero"
	"www.velocidex.com/golang/getthis/config"
	"www.velocidex.com/golang/getthis/finder"
	"www.velocidex.com/golang/getthis/logging"
	"www.velocidex.com/golang/getthis/ntfs"
	"www.velocidex.com/golang/getthis/streams"
)

type Collector struct {
	config *config.Config
	logger *logging.Logger
	finder finder.Finder

	crypto_algs streams.CryptoAlgorithm
	fuzzy_algs  streams.FuzzyAlgorithm

	samples      *SampleSet
	sample_names *NameRegistry

	collection_date ntfs.Filetime
	computer_name   string

	// The directory sink writes through this so tests can run on a
	// memory filesystem.
	fs afero.Fs
}

func NewCollector(
	config_obj *config.Config,
	logger *logging.Logger,
	file_finder finder.Finder) (*Collector, error) {

	err := config_obj.Validate()
	if err != nil {
		return nil, err
	}

	crypto_algs, err := config_obj.CryptoAlgorithms()
	if err != nil {
		return nil, err
	}

	fuzzy_algs, err := config_obj.FuzzyAlgorithms()
	if err != nil {
		return nil, err
	}

	computer_name := config_obj.ComputerName
	if computer_name == "" {
		computer_name, _ = os.Hostname()
	}

	return &Collector{
		config:        config_obj,
		logger:        logger,
		finder:        file_finder,
		crypto_algs:   crypto_algs,
		fuzzy_algs:    fuzzy_algs,
		samples:       NewSampleSet(),
		sample_names:  NewNameRegistry(),
		computer_name: computer_name,
		fs:            afero.NewOsFs(),
	}, nil
}

// Samples exposes the registry, mainly to tests and callers that
// want to inspect the run afterwards.
func (self *Collector) Samples() *SampleSet {
	return self.samples
}

// Run executes the collection: find matches, hash what fell over a
// quota when that is requested, then drive the registry into the
// configured sink.
func (self *Collector) Run(ctx context.Context) error {
	self.collection_date = ntfs.FiletimeFromTime(time.Now())

	defer self.samples.CloseAll()

	err := self.FindMatchingSamples(ctx)
	if err != nil {
		self.logger.Error("GetThis failed while matching samples: %v", err)
		return err
	}

	if self.config.ReportAll &&
		self.crypto_algs != streams.CryptoUndefined {
		self.hashOffLimitSamples(ctx)
	}

	err = self.collectMatchingSamples(ctx)
	if err != nil {
		self.logger.Error("GetThis failed while collecting samples: %v", err)
		return err
	}

	return nil
}
