package wallclock

// FakeSource is a scripted Source for tests. Each Refresh returns the
// next snapshot in Snapshots; once exhausted it keeps returning the
// last one. An empty script returns the sentinel forever.
type FakeSource struct {
	Snapshots []CalendarTime

	calls int
}

func (f *FakeSource) Refresh() CalendarTime {
	if len(f.Snapshots) == 0 {
		return CalendarTime{}
	}
	i := f.calls
	if i >= len(f.Snapshots) {
		i = len(f.Snapshots) - 1
	}
	f.calls++
	return f.Snapshots[i]
}
