//go:build linux
// +build linux

package socket

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func ioR(t, nr, size uintptr) uintptr {
	return (2 << 30) | (t << 8) | nr | (size << 16)
}

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

const (
	ioctlSize      = 4
	hciMaxDevices  = 16
	typHCI         = 72 // 'H'
	readTimeout    = 1000
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)

	hciChannelRaw = 0

	// setsockopt level and option for struct hci_filter
	solHCI    = 0
	hciFilter = 2

	// struct hci_dev_info: dev_id u16, name [8], bdaddr [6], flags u32, ...
	devInfoSize        = 128
	devInfoFlagsOffset = 16
	hciUpFlag          = 1 << 0
)

var (
	hciGetDeviceList = ioR(typHCI, 210, ioctlSize) // HCIGETDEVLIST
	hciGetDeviceInfo = ioR(typHCI, 211, ioctlSize) // HCIGETDEVINFO
)

type devListRequest struct {
	devNum     uint16
	devRequest [hciMaxDevices]struct {
		id  uint16
		opt uint32
	}
}

// Socket implements a raw HCI channel as ReadWriteCloser. Unlike a user
// channel, the kernel keeps managing the device, so the socket can be
// shared with other host software.
type Socket struct {
	fd   int
	id   int
	rmu  sync.Mutex
	wmu  sync.Mutex
	done chan int
	cmu  sync.Mutex
}

// NewSocket returns a raw HCI socket bound to the specified device id.
// If id is -1, the first device in the kernel list is used.
func NewSocket(id int) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return nil, errors.Wrap(err, "can't create socket")
	}

	if id == -1 {
		id, err = firstDevice(fd)
		if err != nil {
			unix.Close(fd)
			return nil, err
		}
	}

	sa := unix.SockaddrHCI{Dev: uint16(id), Channel: hciChannelRaw}
	if err := unix.Bind(fd, &sa); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "can't bind socket to hci%d", id)
	}

	return &Socket{fd: fd, id: id, done: make(chan int)}, nil
}

// FirstDevice returns the id of the first device in the kernel list.
func FirstDevice() (int, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW|unix.SOCK_CLOEXEC, unix.BTPROTO_HCI)
	if err != nil {
		return 0, errors.Wrap(err, "can't create socket")
	}
	defer unix.Close(fd)
	return firstDevice(fd)
}

func firstDevice(fd int) (int, error) {
	req := devListRequest{devNum: hciMaxDevices}
	if err := ioctl(uintptr(fd), hciGetDeviceList, uintptr(unsafe.Pointer(&req))); err != nil {
		return 0, errors.Wrap(err, "can't get device list")
	}
	if req.devNum == 0 {
		return 0, errors.New("no devices available")
	}
	return int(req.devRequest[0].id), nil
}

// ID returns the device id the socket is bound to.
func (s *Socket) ID() int {
	return s.id
}

// SetFilter applies the kernel packet filter.
func (s *Socket) SetFilter(f Filter) error {
	if !s.isOpen() {
		return io.EOF
	}
	err := unix.SetsockoptString(s.fd, solHCI, hciFilter, string(f.Marshal()))
	return errors.Wrap(err, "can't set hci filter")
}

// Up reports whether the kernel considers the device up.
func (s *Socket) Up() bool {
	if !s.isOpen() {
		return false
	}

	var di [devInfoSize]byte
	binary.LittleEndian.PutUint16(di[0:], uint16(s.id))
	if err := ioctl(uintptr(s.fd), hciGetDeviceInfo, uintptr(unsafe.Pointer(&di[0]))); err != nil {
		return false
	}
	return binary.LittleEndian.Uint32(di[devInfoFlagsOffset:])&hciUpFlag != 0
}

func (s *Socket) Read(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	var err error
	n := 0
	s.rmu.Lock()
	defer s.rmu.Unlock()
	// dont need to add unixPollErrors, they are always returned
	pfds := []unix.PollFd{{Fd: int32(s.fd), Events: unixPollDataIn}}
	unix.Poll(pfds, readTimeout)
	evts := pfds[0].Revents

	switch {
	case evts&unixPollErrors != 0:
		return 0, io.EOF

	case evts&unixPollDataIn != 0:
		// there is data!
		n, err = unix.Read(s.fd, p)

	default:
		// no data, read timeout
		return 0, nil
	}

	// check if we are still open since the read takes a while
	if !s.isOpen() {
		return 0, io.EOF
	}
	return n, errors.Wrap(err, "can't read hci socket")
}

func (s *Socket) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	return n, errors.Wrap(err, "can't write hci socket")
}

func (s *Socket) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	select {
	case <-s.done:
		return nil

	default:
		close(s.done)
		s.rmu.Lock()
		err := unix.Close(s.fd)
		s.rmu.Unlock()

		return errors.Wrap(err, "can't close hci socket")
	}
}

func (s *Socket) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

func (s *Socket) String() string {
	return fmt.Sprintf("hci%d", s.id)
}
