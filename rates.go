package wmediumd

//
// Rate sets and airtime (spec.md §4.6: "Airtime for a rate is computed from
// the rate's nominal Mb/s and frame length, plus per-band PLCP overhead").
//

import "time"

// slotTimeNS is the 802.11g/n/ac short slot time.
const slotTimeNS = 9000

// sifsNS is the Short Inter-Frame Space.
const sifsNS = 10000

// plcpOverheadNS2Ghz is the PLCP preamble+header overhead on the 2.4 GHz
// band (long OFDM preamble).
const plcpOverheadNS2Ghz = 20000

// plcpOverheadNS5Ghz is the PLCP preamble+header overhead on the 5 GHz band.
const plcpOverheadNS5Ghz = 16000

// rateSet24Ghz is the 802.11g rate set used on 2.4 GHz frequencies.
var rateSet24Ghz = []Rate{
	{Index: 0, Mbps: 1},
	{Index: 1, Mbps: 2},
	{Index: 2, Mbps: 5.5},
	{Index: 3, Mbps: 11},
	{Index: 4, Mbps: 6},
	{Index: 5, Mbps: 9},
	{Index: 6, Mbps: 12},
	{Index: 7, Mbps: 18},
	{Index: 8, Mbps: 24},
	{Index: 9, Mbps: 36},
	{Index: 10, Mbps: 48},
	{Index: 11, Mbps: 54},
}

// rateSet5Ghz is the 802.11a/n rate set used on 5 GHz frequencies.
var rateSet5Ghz = []Rate{
	{Index: 0, Mbps: 6},
	{Index: 1, Mbps: 9},
	{Index: 2, Mbps: 12},
	{Index: 3, Mbps: 18},
	{Index: 4, Mbps: 24},
	{Index: 5, Mbps: 36},
	{Index: 6, Mbps: 48},
	{Index: 7, Mbps: 54},
}

// Is5GHz reports whether freqMHz falls in the 5 GHz band.
func Is5GHz(freqMHz int) bool {
	return freqMHz >= 4900
}

// RateSetForFrequency returns the rate set a station on freqMHz uses,
// matching spec.md §4.5 ("freq selects the 2.4 GHz or 5 GHz rate set").
func RateSetForFrequency(freqMHz int) []Rate {
	if Is5GHz(freqMHz) {
		return append([]Rate{}, rateSet5Ghz...)
	}
	return append([]Rate{}, rateSet24Ghz...)
}

// RateByIndex finds rate rateIdx in set, or the slowest rate if not found.
func RateByIndex(set []Rate, rateIdx int) Rate {
	for _, r := range set {
		if r.Index == rateIdx {
			return r
		}
	}
	if len(set) > 0 {
		return set[0]
	}
	return Rate{Index: 0, Mbps: 1}
}

// Airtime computes the duration required to transmit lengthBytes at rate on
// freqMHz, including PLCP overhead.
func Airtime(rate Rate, lengthBytes int, freqMHz int) time.Duration {
	overhead := time.Duration(plcpOverheadNS2Ghz)
	if Is5GHz(freqMHz) {
		overhead = time.Duration(plcpOverheadNS5Ghz)
	}
	if rate.Mbps <= 0 {
		rate.Mbps = 1
	}
	bits := float64(lengthBytes) * 8
	payloadNS := bits / rate.Mbps * 1000 // Mbps == bits per microsecond
	return overhead + time.Duration(payloadNS)*time.Nanosecond
}
