// Package tzif implements the TZif file format according to RFC8536.
// https://datatracker.ietf.org/doc/html/rfc8536
package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// All multi-octet integers are big-endian two's complement.
var order = binary.BigEndian

// Version represents the version of a TZif file.
// Version 1 files use 32bit time values, version 2 and later add a second
// data block with 64bit time values and a footer.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

const (
	V1 Version = 0x00
	V2 Version = 0x32 // '2'
	V3 Version = 0x33 // '3', TZ string extensions of RFC8536 section 3.3.1
	V4 Version = 0x34 // '4', see tzfile(5)
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Header is the header of a TZif file, without the magic.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte
	Isutcnt  uint32
	Isstdcnt uint32
	Leapcnt  uint32
	Timecnt  uint32
	Typecnt  uint32
	Charcnt  uint32
}

// Write writes the magic followed by the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader reads the magic and the Header from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, errors.Wrap(err, "reading magic")
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, errors.Newf("invalid magic: %v", magic)
	}
	err := binary.Read(r, order, &h)
	return h, err
}

// LocalTimeType is a six-octet local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeType struct {
	// Utoff is the number of seconds added to UT to determine local time.
	Utoff int32
	// Dst is set when the local time is daylight saving time.
	Dst bool
	// Idx selects the NUL-terminated designation starting at this octet.
	Idx uint8
}

// LeapSecond is a leap-second record. Occur is stored with the time size of
// the data block it belongs to.
type LeapSecond struct {
	Occur int64
	Corr  int32
}

// DataBlock is a TZif data block. Version 1 blocks store time values in four
// octets, version 2+ blocks in eight; both are held as int64 here.
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	+---------------------------------------------------------+
//	|  transition types          (timecnt)                    |
//	+---------------------------------------------------------+
//	|  local time type records   (typecnt x 6)                |
//	+---------------------------------------------------------+
//	|  time zone designations    (charcnt)                    |
//	+---------------------------------------------------------+
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	+---------------------------------------------------------+
//	|  standard/wall indicators  (isstdcnt)                   |
//	+---------------------------------------------------------+
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type DataBlock struct {
	TransitionTimes        []int64
	TransitionTypes        []uint8
	LocalTimeTypes         []LocalTimeType
	Designations           []byte
	LeapSeconds            []LeapSecond
	StandardWallIndicators []bool
	UTLocalIndicators      []bool
}

// Header returns the header describing b.
func (b DataBlock) Header(v Version) Header {
	return Header{
		Version:  v,
		Isutcnt:  uint32(len(b.UTLocalIndicators)),
		Isstdcnt: uint32(len(b.StandardWallIndicators)),
		Leapcnt:  uint32(len(b.LeapSeconds)),
		Timecnt:  uint32(len(b.TransitionTimes)),
		Typecnt:  uint32(len(b.LocalTimeTypes)),
		Charcnt:  uint32(len(b.Designations)),
	}
}

// Designation returns the NUL-terminated designation starting at idx.
func (b DataBlock) Designation(idx uint8) string {
	if int(idx) >= len(b.Designations) {
		return ""
	}
	s := b.Designations[idx:]
	if i := bytes.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return string(s)
}

func writeTime(w io.Writer, t int64, size int) error {
	if size == 4 {
		return binary.Write(w, order, int32(t))
	}
	return binary.Write(w, order, t)
}

func readTime(r io.Reader, size int) (int64, error) {
	if size == 4 {
		var t int32
		err := binary.Read(r, order, &t)
		return int64(t), err
	}
	var t int64
	err := binary.Read(r, order, &t)
	return t, err
}

func (b DataBlock) write(w io.Writer, timeSize int) error {
	for _, t := range b.TransitionTimes {
		if err := writeTime(w, t, timeSize); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.TransitionTypes); err != nil {
		return err
	}
	for _, r := range b.LocalTimeTypes {
		if err := binary.Write(w, order, r); err != nil {
			return err
		}
	}
	if _, err := w.Write(b.Designations); err != nil {
		return err
	}
	for _, r := range b.LeapSeconds {
		if err := writeTime(w, r.Occur, timeSize); err != nil {
			return err
		}
		if err := binary.Write(w, order, r.Corr); err != nil {
			return err
		}
	}
	if err := binary.Write(w, order, b.StandardWallIndicators); err != nil {
		return err
	}
	return binary.Write(w, order, b.UTLocalIndicators)
}

func readDataBlock(r io.Reader, h Header, timeSize int) (DataBlock, error) {
	var (
		b   DataBlock
		err error
	)
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		for i := range b.TransitionTimes {
			if b.TransitionTimes[i], err = readTime(r, timeSize); err != nil {
				return b, errors.Wrap(err, "reading transition times")
			}
		}
		b.TransitionTypes = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, b.TransitionTypes); err != nil {
			return b, errors.Wrap(err, "reading transition types")
		}
	}
	if h.Typecnt > 0 {
		b.LocalTimeTypes = make([]LocalTimeType, h.Typecnt)
		if err := binary.Read(r, order, b.LocalTimeTypes); err != nil {
			return b, errors.Wrap(err, "reading local time type records")
		}
	}
	if h.Charcnt > 0 {
		b.Designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, b.Designations); err != nil {
			return b, errors.Wrap(err, "reading time zone designations")
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSeconds = make([]LeapSecond, h.Leapcnt)
		for i := range b.LeapSeconds {
			if b.LeapSeconds[i].Occur, err = readTime(r, timeSize); err != nil {
				return b, errors.Wrap(err, "reading leap second record")
			}
			if err := binary.Read(r, order, &b.LeapSeconds[i].Corr); err != nil {
				return b, errors.Wrap(err, "reading leap second record")
			}
		}
	}
	if h.Isstdcnt > 0 {
		b.StandardWallIndicators = make([]bool, h.Isstdcnt)
		if err := binary.Read(r, order, b.StandardWallIndicators); err != nil {
			return b, errors.Wrap(err, "reading standard/wall indicators")
		}
	}
	if h.Isutcnt > 0 {
		b.UTLocalIndicators = make([]bool, h.Isutcnt)
		if err := binary.Read(r, order, b.UTLocalIndicators); err != nil {
			return b, errors.Wrap(err, "reading UT/local indicators")
		}
	}
	return b, nil
}

// File represents a TZif file. V2Data and TZString are only present in
// files of version 2 and later.
type File struct {
	Version Version

	V1Data DataBlock
	V2Data DataBlock

	// TZString is the footer: a POSIX TZ string describing local time after
	// the last transition. It may be empty.
	TZString string
}

const newline = '\n'

// Encode writes the file to w. Headers are derived from the data blocks.
func (f *File) Encode(w io.Writer) error {
	if err := f.V1Data.Header(f.Version).Write(w); err != nil {
		return errors.Wrap(err, "write v1 header")
	}
	if err := f.V1Data.write(w, 4); err != nil {
		return errors.Wrap(err, "write v1 data")
	}
	if f.Version < V2 {
		return nil
	}
	if err := f.V2Data.Header(f.Version).Write(w); err != nil {
		return errors.Wrap(err, "write v2 header")
	}
	if err := f.V2Data.write(w, 8); err != nil {
		return errors.Wrap(err, "write v2 data")
	}
	footer := make([]byte, 0, len(f.TZString)+2)
	footer = append(footer, newline)
	footer = append(footer, f.TZString...)
	footer = append(footer, newline)
	if _, err := w.Write(footer); err != nil {
		return errors.Wrap(err, "write footer")
	}
	return nil
}

// Decode reads a TZif file from r.
func Decode(r io.Reader) (*File, error) {
	var f File
	h1, err := ReadHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "read v1 header")
	}
	f.Version = h1.Version
	if f.V1Data, err = readDataBlock(r, h1, 4); err != nil {
		return nil, errors.Wrap(err, "read v1 data block")
	}
	if f.Version < V2 {
		return &f, nil
	}

	h2, err := ReadHeader(r)
	if err != nil {
		return nil, errors.Wrap(err, "read v2 header")
	}
	if h2.Version != h1.Version {
		return nil, errors.Newf("inconsistent version: v1 header = %v, v2 header = %v", h1.Version, h2.Version)
	}
	if f.V2Data, err = readDataBlock(r, h2, 8); err != nil {
		return nil, errors.Wrap(err, "read v2 data block")
	}
	if f.TZString, err = readFooter(r); err != nil {
		return nil, errors.Wrap(err, "read footer")
	}
	return &f, nil
}

func readFooter(r io.Reader) (string, error) {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "reading newline")
	}
	if buf[0] != newline {
		return "", errors.Newf("expected newline: %v", buf[0])
	}
	var s []byte
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", errors.Wrap(err, "reading TZ string")
		}
		if buf[0] == newline {
			return string(s), nil
		}
		s = append(s, buf[0])
	}
}

// Block returns the data block with the widest time values available.
func (f *File) Block() DataBlock {
	if f.Version >= V2 {
		return f.V2Data
	}
	return f.V1Data
}
