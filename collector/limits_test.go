package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"www.velocidex.com/golang/getthis/config"
)

func TestLimitStatusEvaluationOrder(t *testing.T) {
	cases := []struct {
		name      string
		global    config.Limits
		local     config.Limits
		data_size int64
		expected  LimitStatus
	}{
		{
			name:      "no limits configured",
			global:    config.NewLimits(),
			local:     config.NewLimits(),
			data_size: 100,
			expected:  SampleWithinLimits,
		},
		{
			name: "ignore limits wins over everything",
			global: func() config.Limits {
				l := config.NewLimits()
				l.IgnoreLimits = true
				l.MaxSampleCount = 0
				return l
			}(),
			local:     config.NewLimits(),
			data_size: 100,
			expected:  NoLimits,
		},
		{
			name: "global count dominates global byte limits",
			global: func() config.Limits {
				l := config.NewLimits()
				l.MaxSampleCount = 1
				l.AccumulatedSampleCount = 1
				l.MaxBytesPerSample = 10
				return l
			}(),
			local:     config.NewLimits(),
			data_size: 100,
			expected:  GlobalSampleCountLimitReached,
		},
		{
			name:   "local count dominates global byte limits",
			global: func() config.Limits { l := config.NewLimits(); l.MaxBytesPerSample = 10; return l }(),
			local: func() config.Limits {
				l := config.NewLimits()
				l.MaxSampleCount = 2
				l.AccumulatedSampleCount = 2
				return l
			}(),
			data_size: 100,
			expected:  LocalSampleCountLimitReached,
		},
		{
			name:      "global per sample byte limit",
			global:    func() config.Limits { l := config.NewLimits(); l.MaxBytesPerSample = 10; return l }(),
			local:     config.NewLimits(),
			data_size: 11,
			expected:  GlobalMaxBytesPerSample,
		},
		{
			name: "global total before local per sample",
			global: func() config.Limits {
				l := config.NewLimits()
				l.MaxBytesTotal = 100
				l.AccumulatedBytesTotal = 90
				return l
			}(),
			local:     func() config.Limits { l := config.NewLimits(); l.MaxBytesPerSample = 5; return l }(),
			data_size: 20,
			expected:  GlobalMaxBytesTotal,
		},
		{
			name:      "local per sample byte limit",
			global:    config.NewLimits(),
			local:     func() config.Limits { l := config.NewLimits(); l.MaxBytesPerSample = 10; return l }(),
			data_size: 11,
			expected:  LocalMaxBytesPerSample,
		},
		{
			name:   "local byte total",
			global: config.NewLimits(),
			local: func() config.Limits {
				l := config.NewLimits()
				l.MaxBytesTotal = 1000
				l.AccumulatedBytesTotal = 800
				return l
			}(),
			data_size: 400,
			expected:  LocalMaxBytesTotal,
		},
		{
			name:      "unknown size",
			global:    config.NewLimits(),
			local:     config.NewLimits(),
			data_size: -1,
			expected:  FailedToComputeLimits,
		},
	}

	for _, testcase := range cases {
		t.Run(testcase.name, func(t *testing.T) {
			global := testcase.global
			local := testcase.local

			status := SampleLimitStatus(&global, &local, testcase.data_size)
			assert.Equal(t, testcase.expected, status)

			// Classification is pure: same inputs, same answer.
			assert.Equal(t, status,
				SampleLimitStatus(&global, &local, testcase.data_size))
		})
	}
}

func TestLimitStatusOffLimits(t *testing.T) {
	assert.False(t, NoLimits.OffLimits())
	assert.False(t, SampleWithinLimits.OffLimits())

	for _, status := range []LimitStatus{
		GlobalSampleCountLimitReached,
		GlobalMaxBytesPerSample,
		GlobalMaxBytesTotal,
		LocalSampleCountLimitReached,
		LocalMaxBytesPerSample,
		LocalMaxBytesTotal,
		FailedToComputeLimits,
	} {
		assert.True(t, status.OffLimits(), status.String())
	}
}

// Exact byte total boundary: a sample that lands the accumulator on
// the limit is still within limits.
func TestLimitStatusByteTotalBoundary(t *testing.T) {
	global := config.NewLimits()
	local := config.NewLimits()
	local.MaxBytesTotal = 1000
	local.AccumulatedBytesTotal = 600

	assert.Equal(t, SampleWithinLimits,
		SampleLimitStatus(&global, &local, 400))
	assert.Equal(t, LocalMaxBytesTotal,
		SampleLimitStatus(&global, &local, 401))
}
