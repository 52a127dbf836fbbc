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
package config

import (
	"os"
	"strings"

	yaml "github.com/Velocidex/yaml/v2"
	"github.com/pkg/errors"
	"www.velocidex.com/golang/getthis/finder"
	"www.velocidex.com/golang/getthis/streams"
)

// Infinite marks a limit that is not enforced.
const Infinite int64 = -1

// ContentType selects what is extracted from a matched attribute.
type ContentType int

const (
	ContentData ContentType = iota
	ContentStrings
	ContentRaw
)

func (self ContentType) String() string {
	switch self {
	case ContentStrings:
		return "strings"
	case ContentRaw:
		return "raw"
	default:
		return "data"
	}
}

func ParseContentType(value string) (ContentType, error) {
	switch strings.ToLower(value) {
	case "", "data":
		return ContentData, nil
	case "strings":
		return ContentStrings, nil
	case "raw":
		return ContentRaw, nil
	}
	return ContentData, errors.Errorf("unknown content type %q", value)
}

func (self *ContentType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	err := unmarshal(&value)
	if err != nil {
		return err
	}

	*self, err = ParseContentType(value)
	return err
}

// ContentSpec describes the content transform for a group of samples.
// MinChars/MaxChars only apply to strings content; both zero means
// inherit the global defaults.
type ContentSpec struct {
	Type     ContentType `yaml:"type,omitempty" json:"type,omitempty"`
	MinChars int         `yaml:"min_chars,omitempty" json:"min_chars,omitempty"`
	MaxChars int         `yaml:"max_chars,omitempty" json:"max_chars,omitempty"`
}

// Limits holds the quota configuration for one scope (global or per
// spec) together with its running accumulators and the sticky
// "reached" flags.
type Limits struct {
	MaxSampleCount    int64 `yaml:"max_sample_count" json:"max_sample_count"`
	MaxBytesPerSample int64 `yaml:"max_bytes_per_sample" json:"max_bytes_per_sample"`
	MaxBytesTotal     int64 `yaml:"max_bytes_total" json:"max_bytes_total"`
	IgnoreLimits      bool  `yaml:"ignore_limits" json:"ignore_limits"`

	AccumulatedSampleCount int64 `yaml:"-" json:"-"`
	AccumulatedBytesTotal  int64 `yaml:"-" json:"-"`

	SampleCountReached    bool `yaml:"-" json:"-"`
	BytesPerSampleReached bool `yaml:"-" json:"-"`
	BytesTotalReached     bool `yaml:"-" json:"-"`
}

// NewLimits returns an unrestricted Limits.
func NewLimits() Limits {
	return Limits{
		MaxSampleCount:    Infinite,
		MaxBytesPerSample: Infinite,
		MaxBytesTotal:     Infinite,
	}
}

func (self *Limits) UnmarshalYAML(unmarshal func(interface{}) error) error {
	raw := struct {
		MaxSampleCount    *int64 `yaml:"max_sample_count" json:"max_sample_count"`
		MaxBytesPerSample *int64 `yaml:"max_bytes_per_sample" json:"max_bytes_per_sample"`
		MaxBytesTotal     *int64 `yaml:"max_bytes_total" json:"max_bytes_total"`
		IgnoreLimits      bool   `yaml:"ignore_limits" json:"ignore_limits"`
	}{}

	err := unmarshal(&raw)
	if err != nil {
		return err
	}

	*self = NewLimits()
	self.IgnoreLimits = raw.IgnoreLimits
	if raw.MaxSampleCount != nil {
		self.MaxSampleCount = *raw.MaxSampleCount
	}
	if raw.MaxBytesPerSample != nil {
		self.MaxBytesPerSample = *raw.MaxBytesPerSample
	}
	if raw.MaxBytesTotal != nil {
		self.MaxBytesTotal = *raw.MaxBytesTotal
	}
	return nil
}

// SampleSpec groups matches produced by its terms under one content
// transform and one local quota scope. Name, when set, becomes a
// subdirectory prefix in the output namespace.
//
// Terms are attached by whoever configures the finder; they are not
// expressible in the YAML file.
type SampleSpec struct {
	Name    string      `yaml:"name,omitempty" json:"name,omitempty"`
	Content ContentSpec `yaml:"content,omitempty" json:"content,omitempty"`
	Limits  Limits      `yaml:"limits,omitempty" json:"limits,omitempty"`

	Terms []finder.Term `yaml:"-" json:"-"`
}

// HasTerm reports whether the match's term belongs to this spec.
func (self *SampleSpec) HasTerm(term finder.Term) bool {
	for _, t := range self.Terms {
		if t == term {
			return true
		}
	}
	return false
}

// OutputType selects the sink.
type OutputType int

const (
	OutputArchive OutputType = iota
	OutputDirectory
)

func (self *OutputType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	err := unmarshal(&value)
	if err != nil {
		return err
	}

	switch strings.ToLower(value) {
	case "", "archive":
		*self = OutputArchive
	case "directory":
		*self = OutputDirectory
	default:
		return errors.Errorf("unknown output type %q", value)
	}
	return nil
}

// CSVOptions configure the manifest encoding.
type CSVOptions struct {
	Separator string `yaml:"separator,omitempty" json:"separator,omitempty"`
	UseCRLF   bool   `yaml:"use_crlf,omitempty" json:"use_crlf,omitempty"`
}

// OutputSpec selects and parameterizes the sink.
type OutputSpec struct {
	Type        OutputType `yaml:"type,omitempty" json:"type,omitempty"`
	Path        string     `yaml:"path" json:"path"`
	Password    string     `yaml:"password,omitempty" json:"password,omitempty"`
	Compression string     `yaml:"compression,omitempty" json:"compression,omitempty"`
	CSV         CSVOptions `yaml:"csv,omitempty" json:"csv,omitempty"`
}

// Config is the run configuration.
type Config struct {
	ComputerName string `yaml:"computer_name,omitempty" json:"computer_name,omitempty"`

	// Hash samples that fell over a quota (when hashing is on) so
	// their manifest rows carry digests. Off limit samples are
	// enumerated in the manifest either way.
	ReportAll bool `yaml:"report_all,omitempty" json:"report_all,omitempty"`

	Hash      []string `yaml:"hash,omitempty" json:"hash,omitempty"`
	FuzzyHash []string `yaml:"fuzzy_hash,omitempty" json:"fuzzy_hash,omitempty"`

	Content      ContentSpec   `yaml:"content,omitempty" json:"content,omitempty"`
	GlobalLimits Limits        `yaml:"limits,omitempty" json:"limits,omitempty"`
	Output       OutputSpec    `yaml:"output" json:"output"`
	Specs        []*SampleSpec `yaml:"samples,omitempty" json:"samples,omitempty"`
}

// CryptoAlgorithms folds the configured hash names into the pipeline
// selection flags.
func (self *Config) CryptoAlgorithms() (streams.CryptoAlgorithm, error) {
	result := streams.CryptoUndefined
	for _, name := range self.Hash {
		switch strings.ToLower(name) {
		case "md5":
			result |= streams.CryptoMD5
		case "sha1":
			result |= streams.CryptoSHA1
		case "sha256":
			result |= streams.CryptoSHA256
		default:
			return result, errors.Errorf("unknown hash algorithm %q", name)
		}
	}
	return result, nil
}

func (self *Config) FuzzyAlgorithms() (streams.FuzzyAlgorithm, error) {
	result := streams.FuzzyUndefined
	for _, name := range self.FuzzyHash {
		switch strings.ToLower(name) {
		case "ssdeep":
			result |= streams.FuzzySSDeep
		case "tlsh":
			result |= streams.FuzzyTLSH
		default:
			return result, errors.Errorf("unknown fuzzy hash algorithm %q", name)
		}
	}
	return result, nil
}

func (self *Config) Validate() error {
	if self.Output.Path == "" {
		return errors.New("output path is required")
	}

	_, err := self.CryptoAlgorithms()
	if err != nil {
		return err
	}

	_, err = self.FuzzyAlgorithms()
	if err != nil {
		return err
	}

	if self.Content.Type == ContentStrings &&
		self.Content.MinChars > self.Content.MaxChars &&
		self.Content.MaxChars != 0 {
		return errors.New("strings min_chars exceeds max_chars")
	}

	for _, spec := range self.Specs {
		if len(spec.Terms) == 0 {
			return errors.Errorf(
				"sample spec %q has no terms", spec.Name)
		}
	}

	return nil
}

// GetDefaultConfig returns a Config with unrestricted limits and data
// content.
func GetDefaultConfig() *Config {
	return &Config{
		GlobalLimits: NewLimits(),
		Content: ContentSpec{
			Type:     ContentData,
			MinChars: 3,
			MaxChars: 1024,
		},
	}
}

// LoadConfig reads a YAML run configuration. Terms still have to be
// attached to each spec before the run starts.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading config")
	}

	result := GetDefaultConfig()
	err = yaml.UnmarshalStrict(data, result)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}

	return result, nil
}
