package h4

import (
	"fmt"
	"time"
)

const (
	pktTypeACL   = 0x02
	pktTypeEvent = 0x04

	eventHeaderLength = 3
	aclHeaderLength   = 5

	frameTimeout = 500 * time.Millisecond
)

// frame reassembles H4 packets out of an unframed byte stream. Bytes
// preceding a packet indicator are dropped, and a partial packet older
// than frameTimeout is discarded when new bytes arrive.
type frame struct {
	b       []byte
	timeout time.Time
	out     func([]byte)
	evtType byte
	now     func() time.Time
}

func newFrame(out func([]byte)) *frame {
	fr := &frame{
		out: out,
		now: time.Now,
	}
	fr.reset()
	return fr
}

func (f *frame) Assemble(b []byte) {
	if len(b) == 0 {
		// nothing to look at
		return
	}

	if !f.timeout.IsZero() && f.now().After(f.timeout) {
		//timed out
		f.reset()
	}

	for len(b) > 0 {
		if len(f.b) == 0 {
			var err error
			if b, err = f.waitStart(b); err != nil {
				return
			}
		}

		f.b = append(f.b, b...)
		b = nil

		rf, err := f.frame()
		if err != nil {
			return
		}

		out := make([]byte, len(rf))
		copy(out, rf)
		f.out(out)

		// shift
		if len(f.b) > len(rf) {
			b = make([]byte, len(f.b)-len(rf))
			copy(b, f.b[len(rf):])
		}
		f.reset()
	}
}

func (f *frame) reset() {
	f.b = make([]byte, 0, 256)
	f.timeout = time.Time{}
}

// waitStart drops everything up to the first packet indicator.
func (f *frame) waitStart(b []byte) ([]byte, error) {
	for i, v := range b {
		switch v {
		case pktTypeEvent, pktTypeACL:
			f.evtType = v
			f.timeout = f.now().Add(frameTimeout)
			return b[i:], nil
		}
	}
	return nil, fmt.Errorf("couldnt find start byte")
}

func (f *frame) dataLength() (int, error) {
	switch f.evtType {
	case pktTypeACL:
		return f.aclLength()
	case pktTypeEvent:
		return f.eventLength()
	default:
		return 0, fmt.Errorf("invalid packet type %v", f.evtType)
	}
}

func (f *frame) eventLength() (int, error) {
	if len(f.b) < eventHeaderLength {
		return 0, fmt.Errorf("not enough bytes")
	}

	return int(f.b[2]) + eventHeaderLength, nil
}

func (f *frame) aclLength() (int, error) {
	if len(f.b) < aclHeaderLength {
		return 0, fmt.Errorf("not enough bytes")
	}

	l := int(f.b[3]) | (int(f.b[4]) << 8)
	return l + aclHeaderLength, nil
}

func (f *frame) frame() ([]byte, error) {
	tl, err := f.dataLength()
	if err != nil {
		return nil, err
	}

	if len(f.b) < tl {
		return nil, fmt.Errorf("not enough bytes")
	}
	return f.b[:tl], nil
}
