package fbdev

import (
	"image"
	"os"
	"syscall"
	"unsafe"
)

const (
	// From <linux/fb.h>
	fbioGetVScreenInfo = 0x4600
	fbioGetFScreenInfo = 0x4602
)

// Device is an open framebuffer device.
type Device struct {
	f          *os.File
	pix        []byte
	stride     int
	bytes      int // per pixel
	rect       image.Rectangle
	info       fixScreenInfo
	screenInfo varScreenInfo
}

// Open a Linux framebuffer device (fbdev) by name, typically /dev/fb[0..x].
// The mapping is writable only if write is true.
func Open(name string, write bool) (*Device, error) {
	flag, prot := os.O_RDONLY, syscall.PROT_READ
	if write {
		flag, prot = os.O_RDWR, syscall.PROT_READ|syscall.PROT_WRITE
	}

	f, err := os.OpenFile(name, flag, os.ModeDevice)
	if err != nil {
		return nil, err
	}

	d := &Device{f: f}
	if err = d.ioctl(fbioGetFScreenInfo, unsafe.Pointer(&d.info)); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err = d.ioctl(fbioGetVScreenInfo, unsafe.Pointer(&d.screenInfo)); err != nil {
		_ = f.Close()
		return nil, err
	}

	switch d.screenInfo.BitsPerPixel {
	case 16, 24, 32:
		d.bytes = int(d.screenInfo.BitsPerPixel) >> 3
	default:
		_ = f.Close()
		return nil, errColorModel
	}

	if d.pix, err = syscall.Mmap(int(f.Fd()), 0, int(d.info.SmemLen), prot, syscall.MAP_SHARED); err != nil {
		_ = f.Close()
		return nil, err
	}

	d.stride = int(d.info.LineLength)
	d.rect = image.Rect(0, 0, int(d.screenInfo.Xres), int(d.screenInfo.Yres))

	return d, nil
}

// Bounds returns the visible area of the framebuffer.
func (d *Device) Bounds() image.Rectangle {
	return d.rect
}

func (d *Device) offset(x, y int) int {
	return (y+int(d.screenInfo.Yoffset))*d.stride + (x+int(d.screenInfo.Xoffset))*d.bytes
}

func (d *Device) pixel(x, y int) (v uint32) {
	o := d.offset(x, y)
	for i := d.bytes - 1; i >= 0; i-- {
		v = v<<8 | uint32(d.pix[o+i])
	}
	return
}

// GrayAt returns the luma of the pixel at (x, y).
func (d *Device) GrayAt(x, y int) uint8 {
	if !(image.Point{X: x, Y: y}).In(d.rect) {
		return 0
	}
	v := d.pixel(x, y)
	return luma(d.screenInfo.Red.get(v), d.screenInfo.Green.get(v), d.screenInfo.Blue.get(v))
}

// SetGray sets the pixel at (x, y) to gray level y.
func (d *Device) SetGray(x, y int, level uint8) {
	if !(image.Point{X: x, Y: y}).In(d.rect) {
		return
	}
	v := d.screenInfo.Red.put(level) | d.screenInfo.Green.put(level) | d.screenInfo.Blue.put(level) | d.screenInfo.Alpha.put(0xff)
	o := d.offset(x, y)
	for i := 0; i < d.bytes; i++ {
		d.pix[o+i] = byte(v >> (8 * i))
	}
}

// Gray copies the region r into a grayscale image in screen coordinates.
func (d *Device) Gray(r image.Rectangle) *image.Gray {
	m := image.NewGray(r)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			m.Pix[m.PixOffset(x, y)] = d.GrayAt(x, y)
		}
	}
	return m
}

// Close the framebuffer device.
func (d *Device) Close() error {
	if err := syscall.Munmap(d.pix); err != nil {
		return err
	}
	return d.f.Close()
}

func (d *Device) ioctl(cmd uintptr, arg unsafe.Pointer) (err error) {
	if _, _, errno := syscall.Syscall(syscall.SYS_IOCTL, d.f.Fd(), cmd, uintptr(arg)); errno != 0 {
		return &os.SyscallError{
			Syscall: "SYS_IOCTL",
			Err:     errno,
		}
	}
	return nil
}

type fixScreenInfo struct {
	ID         [16]byte
	SmemStart  uintptr
	SmemLen    uint32
	Type       uint32
	TypeAux    uint32
	Visual     uint32
	Xpanstep   uint16
	Ypanstep   uint16
	Ywrapstep  uint16
	LineLength uint32
	MmioStart  uintptr
	MmioLen    uint32
	Accel      uint32
	Reserved   [3]uint16
}

type varScreenInfo struct {
	Xres                    uint32
	Yres                    uint32
	XresVirtual             uint32
	YresVirtual             uint32
	Xoffset                 uint32
	Yoffset                 uint32
	BitsPerPixel            uint32
	Grayscale               uint32
	Red, Green, Blue, Alpha bitField
	Nonstd                  uint32
	Activate                uint32
	Height                  uint32
	Width                   uint32
	AccelFlags              uint32
	Pixclock                uint32
	LeftMargin              uint32
	RightMargin             uint32
	UpperMargin             uint32
	LowerMargin             uint32
	HsyncLen                uint32
	VsyncLen                uint32
	Sync                    uint32
	Vmode                   uint32
	Rotate                  uint32
	Colorspace              uint32
	Reserved                [4]uint32
}
