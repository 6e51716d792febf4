// Package codec encodes pacing settings into device request packets and
// decodes device response packets.
package codec

// The protocol is a single request/response exchange over a serial line.
// Both packets have a fixed layout (v1) and all multi-byte fields are
// little-endian.
//
// Request (27 bytes):
//
//	0  sync (0x16)
//	1  function code
//	2  mode, first letter of mode name
//	3  lower rate limit
//	4  upper rate limit
//	5  amplitude, float32
//	9  pulse width, float32
//	13 sensitivity, float32
//	17 maximum sensor rate, float32
//	21 refractory period, uint16
//	23 reaction time, uint16
//	25 response factor
//	26 rate smoothing
//
// The amplitude, pulse width, sensitivity and refractory slots carry the
// values of the paced chamber given by the mode byte.
//
// Response (45 bytes):
//
//	0  mode
//	1  lower rate limit
//	2  upper rate limit
//	3  atrial amplitude, float32
//	7  ventricular amplitude, float32
//	11 atrial pulse width, float32
//	15 ventricular pulse width, float32
//	19 VRP, uint16
//	21 ARP, uint16
//	23 hysteresis
//	24 rate smoothing
//	25 activity threshold
//	26 reaction time
//	27 response factor
//	28 recovery time
//	29 ventricular electrogram sample, uint16
//	31 atrial electrogram sample, uint16
//	33 reserved
