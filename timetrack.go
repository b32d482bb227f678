package tdms

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/tdms/errs"
)

// Waveform properties describing the sampling of a channel.
const (
	PropIncrement   = "wf_increment"
	PropStartOffset = "wf_start_offset"
	PropStartTime   = "wf_start_time"
)

// TimeTrack returns the relative time in seconds of every value of a
// waveform channel: wf_start_offset + i*wf_increment.
//
// Returns:
//   - []float64: one time per value
//   - error: ErrPropertyNotFound when a waveform property is missing,
//     ErrTypeMismatch when one is not numeric
func (o *Object) TimeTrack() ([]float64, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	increment, offset, err := o.sampling()
	if err != nil {
		return nil, err
	}

	n := o.NumValues()
	track := make([]float64, n)
	for i := range track {
		track[i] = offset + float64(i)*increment
	}

	return track, nil
}

// AbsoluteTimeTrack returns the wall clock time of every value of a waveform
// channel: wf_start_time + wf_start_offset + i*wf_increment, at nanosecond
// resolution.
func (o *Object) AbsoluteTimeTrack() ([]time.Time, error) {
	if err := o.f.acquire(); err != nil {
		return nil, err
	}
	defer o.f.release()

	increment, offset, err := o.sampling()
	if err != nil {
		return nil, err
	}

	v, err := o.obj.Props.Get(PropStartTime)
	if err != nil {
		return nil, fmt.Errorf("time track of %q: %w", o.Path(), err)
	}

	start, ok := v.Time()
	if !ok {
		return nil, fmt.Errorf("%w: %s of %q is %s, not a timestamp", errs.ErrTypeMismatch, PropStartTime, o.Path(), v.Type().Name())
	}

	n := o.NumValues()
	track := make([]time.Time, n)
	for i := range track {
		secs := offset + float64(i)*increment
		track[i] = start.Add(time.Duration(math.Round(secs * float64(time.Second))))
	}

	return track, nil
}

func (o *Object) sampling() (increment, offset float64, err error) {
	if increment, err = o.floatProperty(PropIncrement); err != nil {
		return 0, 0, err
	}

	if offset, err = o.floatProperty(PropStartOffset); err != nil {
		return 0, 0, err
	}

	return increment, offset, nil
}

func (o *Object) floatProperty(name string) (float64, error) {
	v, err := o.obj.Props.Get(name)
	if err != nil {
		return 0, fmt.Errorf("time track of %q: %w", o.Path(), err)
	}

	f, ok := v.Float64()
	if !ok {
		return 0, fmt.Errorf("%w: %s of %q is %s, not numeric", errs.ErrTypeMismatch, name, o.Path(), v.Type().Name())
	}

	return f, nil
}
