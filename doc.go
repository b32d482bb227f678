// Package tdms reads TDMS files, the segmented, self-describing measurement
// format written by LabVIEW and other NI software.
//
// A file is indexed once when it is opened: every segment's lead-in and
// metadata block is parsed, objects (the root, groups and channels) are
// registered in first-seen order, properties are merged and the location of
// every raw value is recorded. Values themselves stay on disk and are read on
// demand with positional reads.
//
// # Basic Usage
//
//	f, err := tdms.Open("run.tdms")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	ch, err := f.Channel("Measurements", "Voltage")
//	if err != nil {
//	    return err
//	}
//
//	volts, err := tdms.ReadAs[float64](ch, 0, ch.NumValues())
//
// # Sources
//
// Open reads local files, optionally memory mapped (WithMmap) or through an
// afero filesystem (WithFs). OpenReaderAt accepts any io.ReaderAt and
// OpenBucket reads objects from an objstore bucket with ranged requests.
// Images archived with zstd, LZ4, S2 or gzip are recognised by their magic
// bytes and inflated into memory first.
//
// # Truncated Files
//
// A file whose writer stopped early is still readable: the final segment
// contributes every complete value it holds and File.Truncated reports the
// condition. Missing bytes in any earlier segment fail the open with
// errs.ErrTruncatedFile.
//
// # Concurrency
//
// After Open the index is immutable. Object handles and reads are safe for
// concurrent use. Close waits for reads in flight; afterwards every handle
// method fails with errs.ErrUseAfterClose.
package tdms
