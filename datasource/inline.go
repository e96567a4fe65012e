package datasource

// InlineDataSource hands back a single pre-built batch the first time Poll is called,
// then behaves as empty. It runs no background loop; Start/Stop are no-ops. Grounded
// on original_source's test/demo harnesses that feed a fixed byte sequence to the
// ingest pipeline without any I/O.
type InlineDataSource struct {
	batch   []byte
	yielded bool
}

var _ DataSource = (*InlineDataSource)(nil)

// NewInlineDataSource creates a source that yields batch exactly once.
func NewInlineDataSource(batch []byte) *InlineDataSource {
	return &InlineDataSource{batch: batch}
}

func (s *InlineDataSource) Start()          {}
func (s *InlineDataSource) Stop()           {}
func (s *InlineDataSource) IsRunning() bool { return false }

func (s *InlineDataSource) Poll() ([]byte, bool) {
	if s.yielded {
		return nil, false
	}
	s.yielded = true
	return s.batch, true
}
