// Package domain models NASA DONKI space-weather event data.
//
// # Data Source
//
// Events come from the NASA DONKI (Database Of Notifications, Knowledge,
// Information) REST API at https://api.nasa.gov/DONKI/. Each catalog is a
// separate endpoint returning a JSON array for a start/end date range:
//
//	FLR                  solar flares
//	GST                  geomagnetic storms
//	WSAEnlilSimulations  solar-wind model runs driven by CME inputs
//
// # DONKI Conventions
//
// Timestamps:
//
//	Minute resolution without seconds: "2024-01-01T15:04Z".
//	Some fields (notably simulation completion times) use full RFC 3339.
//	[ParseTime] accepts both; everything is normalized to UTC.
//
// Magnitude (varies by catalog):
//
//	FLR ("classType" column):
//	  GOES X-ray class, e.g. "M1.5". The letter is a decade of peak flux
//	  (A=1e-8 .. X=1e-4 W/m²) and the suffix a multiplier within it, so
//	  M1.5 = 1.5e-5 W/m². Parsed into an absolute flux magnitude so flares
//	  of different classes compare on one axis.
//	GST ("allKpIndex" nested array):
//	  Planetary Kp index observations over the storm's lifetime. The storm
//	  magnitude is the maximum observed Kp (0-9 scale).
//	WSAEnlilSimulations ("cmeInputs" nested array):
//	  CME speeds in km/s feeding the model run. The event magnitude is the
//	  fastest input CME.
//
// Severity classification:
//
//	Derived from magnitude using NOAA scale boundaries, reduced to the same
//	four-level label set used across the couchcryptid weather services:
//
//	  FLR:  <C minor | C moderate | M severe | X extreme
//	  GST:  Kp<5 minor | Kp<7 moderate | Kp<9 severe | Kp 9 extreme
//	  Wind: <500 km/s minor | <1000 moderate | <2000 severe | ≥2000 extreme
//
// # ID Generation
//
// Event IDs are deterministic SHA-256 hashes of catalog|activityID|time|
// magnitude, so refetching the same range reproduces the same IDs and
// downstream consumers can deduplicate on replay. See [generateID].
package domain
