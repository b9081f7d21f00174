package wallclock

import (
	"log/slog"
	"time"

	"github.com/beevik/ntp"
)

// NTPSource derives calendar time from the host monotonic clock plus a
// clock offset measured once against an NTP server. Refresh attempts
// the measurement lazily until it succeeds; before that it returns the
// sentinel snapshot.
//
// NTPSource is used from a single goroutine at a time: the boot
// sequence polls it until the clock is valid, and only then does the
// lifecycle controller take over.
type NTPSource struct {
	server    string
	timeout   time.Duration
	utcOffset time.Duration
	dstOffset time.Duration
	log       *slog.Logger

	offset time.Duration
	synced bool
}

// NewNTPSource returns a source that queries server for the clock
// offset and shifts reported time by utcOffset+dstOffset to form local
// calendar time.
func NewNTPSource(server string, utcOffset, dstOffset time.Duration, log *slog.Logger) *NTPSource {
	return &NTPSource{
		server:    server,
		timeout:   5 * time.Second,
		utcOffset: utcOffset,
		dstOffset: dstOffset,
		log:       log,
	}
}

// Refresh returns the current local calendar time. Until the first
// successful NTP exchange it performs one bounded query per call and
// returns the sentinel snapshot on failure, so callers can retry on
// their own cadence.
func (s *NTPSource) Refresh() CalendarTime {
	if !s.synced {
		if err := s.sync(); err != nil {
			s.log.Warn("clock sync failed", "server", s.server, "error", err)
			return CalendarTime{}
		}
	}
	return FromTime(s.now())
}

func (s *NTPSource) sync() error {
	resp, err := ntp.QueryWithOptions(s.server, ntp.QueryOptions{Timeout: s.timeout})
	if err != nil {
		return err
	}
	if err := resp.Validate(); err != nil {
		return err
	}
	s.offset = resp.ClockOffset
	s.synced = true
	s.log.Info("clock synchronized", "server", s.server, "offset", s.offset)
	return nil
}

func (s *NTPSource) now() time.Time {
	return time.Now().Add(s.offset).UTC().Add(s.utcOffset + s.dstOffset)
}
