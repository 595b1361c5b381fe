//go:build tinygo

package platform

import (
	"machine"
	"machine/usb/hid"
)

// HIDButtons is a 32-button HID sink. The report is a report id followed by
// a 4-byte little-endian button bitmask; Flush sends at most one report per
// engine cycle and only when some button changed.
type HIDButtons struct {
	buttons uint32
	dirty   bool
	buf     *hid.RingBuffer
	waitTxc bool
}

const buttonReportID = 4

var hidButtons *HIDButtons

// Buttons returns the singleton sink, registering it with the USB HID
// subsystem on first use.
func Buttons() *HIDButtons {
	if hidButtons == nil {
		hidButtons = &HIDButtons{buf: hid.NewRingBuffer()}
		hid.SetHandler(hidButtons)
	}
	return hidButtons
}

// TxHandler is called by the USB interrupt when the endpoint can transmit.
func (h *HIDButtons) TxHandler() bool {
	h.waitTxc = false
	if b, ok := h.buf.Get(); ok {
		h.waitTxc = true
		hid.SendUSBPacket(b)
		return true
	}
	return false
}

// RxHandler ignores output reports; the panel has no host-driven state.
func (h *HIDButtons) RxHandler(b []byte) bool { return false }

func (h *HIDButtons) SetButton(index int, pressed bool) {
	if index < 0 || index > 31 {
		return
	}
	old := h.buttons
	if pressed {
		h.buttons |= 1 << uint(index)
	} else {
		h.buttons &^= 1 << uint(index)
	}
	if h.buttons != old {
		h.dirty = true
	}
}

// Flush sends one outbound report if anything changed since the last one.
func (h *HIDButtons) Flush() {
	if !h.dirty {
		return
	}
	h.dirty = false
	report := []byte{
		buttonReportID,
		byte(h.buttons),
		byte(h.buttons >> 8),
		byte(h.buttons >> 16),
		byte(h.buttons >> 24),
	}
	h.tx(report)
}

func (h *HIDButtons) tx(b []byte) {
	if !machine.USBDev.InitEndpointComplete {
		return
	}
	if h.waitTxc {
		h.buf.Put(b)
		return
	}
	h.waitTxc = true
	hid.SendUSBPacket(b)
}
