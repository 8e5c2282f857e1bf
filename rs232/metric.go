package rs232

import "sync/atomic"

// ConnectionMetrics contains atomic metrics for a Connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// FrameSendCount is the number of envelopes written to the module.
	FrameSendCount atomic.Uint64
	// FrameRecvCount is the number of valid envelopes received.
	FrameRecvCount atomic.Uint64
	// ImpulseRecvCount is the number of impulse (unsolicited) envelopes
	// received; a subset of FrameRecvCount.
	ImpulseRecvCount atomic.Uint64

	// ChecksumErrCount is the number of envelopes rejected for a CRC
	// mismatch.
	ChecksumErrCount atomic.Uint64
	// TransportErrCount is the number of transport-level failures
	// (short reads, bad headers, address mismatches).
	TransportErrCount atomic.Uint64

	// SessionOpenCount is the number of channels opened.
	SessionOpenCount atomic.Uint64
	// SessionCloseCount is the number of channels closed.
	SessionCloseCount atomic.Uint64
}

func (m *ConnectionMetrics) incFrameSendCount() {
	m.FrameSendCount.Add(1)
}

func (m *ConnectionMetrics) incFrameRecvCount() {
	m.FrameRecvCount.Add(1)
}

func (m *ConnectionMetrics) incImpulseRecvCount() {
	m.ImpulseRecvCount.Add(1)
}

func (m *ConnectionMetrics) incChecksumErrCount() {
	m.ChecksumErrCount.Add(1)
}

func (m *ConnectionMetrics) incTransportErrCount() {
	m.TransportErrCount.Add(1)
}

func (m *ConnectionMetrics) incSessionOpenCount() {
	m.SessionOpenCount.Add(1)
}

func (m *ConnectionMetrics) incSessionCloseCount() {
	m.SessionCloseCount.Add(1)
}
