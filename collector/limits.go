package collector

import (
	"www.velocidex.com/golang/getthis/config"
)

// LimitStatus classifies a candidate sample against the global and
// per spec quotas.
type LimitStatus int

const (
	NoLimits LimitStatus = iota
	SampleWithinLimits
	GlobalSampleCountLimitReached
	GlobalMaxBytesPerSample
	GlobalMaxBytesTotal
	LocalSampleCountLimitReached
	LocalMaxBytesPerSample
	LocalMaxBytesTotal
	FailedToComputeLimits
)

func (self LimitStatus) String() string {
	switch self {
	case NoLimits:
		return "NoLimits"
	case SampleWithinLimits:
		return "SampleWithinLimits"
	case GlobalSampleCountLimitReached:
		return "GlobalSampleCountLimitReached"
	case GlobalMaxBytesPerSample:
		return "GlobalMaxBytesPerSample"
	case GlobalMaxBytesTotal:
		return "GlobalMaxBytesTotal"
	case LocalSampleCountLimitReached:
		return "LocalSampleCountLimitReached"
	case LocalMaxBytesPerSample:
		return "LocalMaxBytesPerSample"
	case LocalMaxBytesTotal:
		return "LocalMaxBytesTotal"
	case FailedToComputeLimits:
		return "FailedToComputeLimits"
	}
	return "Unknown"
}

// OffLimits reports whether a sample with this status is excluded
// from the sink payload. FailedToComputeLimits counts as reached.
func (self LimitStatus) OffLimits() bool {
	switch self {
	case NoLimits, SampleWithinLimits:
		return false
	}
	return true
}

// SampleLimitStatus classifies one candidate of data_size bytes. The
// evaluation order is part of the contract: ignore_limits first, then
// count limits before byte limits, global scope before local, per
// sample size before accumulated totals. A negative data_size means
// the size could not be determined.
func SampleLimitStatus(
	global_limits, local_limits *config.Limits,
	data_size int64) LimitStatus {

	if global_limits.IgnoreLimits {
		return NoLimits
	}

	if data_size < 0 {
		return FailedToComputeLimits
	}

	// Sample count reached?
	if global_limits.MaxSampleCount != config.Infinite &&
		global_limits.AccumulatedSampleCount >= global_limits.MaxSampleCount {
		return GlobalSampleCountLimitReached
	}

	if local_limits.MaxSampleCount != config.Infinite &&
		local_limits.AccumulatedSampleCount >= local_limits.MaxSampleCount {
		return LocalSampleCountLimitReached
	}

	// Global byte limits.
	if global_limits.MaxBytesPerSample != config.Infinite &&
		data_size > global_limits.MaxBytesPerSample {
		return GlobalMaxBytesPerSample
	}

	if global_limits.MaxBytesTotal != config.Infinite &&
		data_size+global_limits.AccumulatedBytesTotal > global_limits.MaxBytesTotal {
		return GlobalMaxBytesTotal
	}

	// Local byte limits.
	if local_limits.MaxBytesPerSample != config.Infinite &&
		data_size > local_limits.MaxBytesPerSample {
		return LocalMaxBytesPerSample
	}

	if local_limits.MaxBytesTotal != config.Infinite &&
		data_size+local_limits.AccumulatedBytesTotal > local_limits.MaxBytesTotal {
		return LocalMaxBytesTotal
	}

	return SampleWithinLimits
}
