// Package binding is the handle-based surface of the reader, shaped for
// callers that cannot hold Go pointers: foreign function wrappers, RPC
// front ends or scripting hosts.
//
// A Session hands out integer handles for files, objects and cursors and
// checks every handle it receives. Calls never panic and never return Go
// errors; a failing call returns a zero value and latches a message that
// LastError reports to the calling goroutine.
//
//	s := binding.NewSession()
//	f := s.Open("run.tdms")
//	if f == 0 {
//	    return errors.New(s.LastError())
//	}
//	defer s.CloseFile(f)
//
//	ch := s.ObjectByPath(f, "/'Group'/'Channel'")
//	n, _ := s.NumberValues(ch)
//	buf := make([]byte, n*8)
//	s.CopyData(ch, buf)
//
// Closing a file invalidates every object and cursor handle obtained through
// it; using one afterwards latches errs.ErrUseAfterClose.
package binding
