package session

import (
	"context"
	"sync"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/siddontang/go-log/log"
	"github.com/siddontang/go/sync2"

	"github.com/gridsx/binflow/filter"
)

type State int32

const (
	StateCreated State = iota
	StateNegotiating
	StateStreaming
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateNegotiating:
		return "negotiating"
	case StateStreaming:
		return "streaming"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Config carries the resume coordinates and identity a session presents to
// the source, plus the filter policy. Filename and Position are rewritten
// by tail resolution before the first event when StartAtEnd is set.
type Config struct {
	Addr     string
	User     string
	Password string

	ServerId   uint32
	Filename   string
	Position   uint32
	StartAtEnd bool

	Filter *filter.Filter

	// notification channel buffer; 0 means defaultBufferSize
	BufferSize int
}

// defaultBufferSize bounds how many notifications may pile up before the
// pump blocks on the consumer.
const defaultBufferSize = 1024

// Session supervises the two connections to the source, negotiates wire
// options, resolves the starting position, keeps table metadata current and
// forwards filtered decoded events on its notification channel.
//
// The consumer must drain Notifications() until it closes; Stopped is
// always the final element.
type Session struct {
	cfg    Config
	flt    *filter.Filter
	dialer Dialer

	state sync2.AtomicInt32

	mu       sync.Mutex
	conns    *connPair
	external Conn
	decoder  Decoder
	cancel   context.CancelFunc
	pumpDone chan struct{}
	checksum bool

	tables *tableCache
	notify chan Notification

	pauseMu sync.Mutex
	pauseCh chan struct{}
}

type Option func(*Session)

// WithDialer replaces the connection factory.
func WithDialer(d Dialer) Option {
	return func(s *Session) { s.dialer = d }
}

// WithDecoder replaces the binlog stream decoder.
func WithDecoder(d Decoder) Option {
	return func(s *Session) { s.decoder = d }
}

// WithControlConn reuses an externally supplied control connection. Stop
// will not destroy it.
func WithControlConn(c Conn) Option {
	return func(s *Session) { s.external = c }
}

func New(cfg Config, opts ...Option) *Session {
	buf := cfg.BufferSize
	if buf <= 0 {
		buf = defaultBufferSize
	}
	s := &Session{
		cfg:    cfg,
		flt:    cfg.Filter,
		dialer: DefaultDialer,
		tables: newTableCache(),
		notify: make(chan Notification, buf),
	}
	if s.flt == nil {
		s.flt = &filter.Filter{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notifications is the single-consumer channel carrying Ready, Binlog,
// Fault and finally Stopped.
func (s *Session) Notifications() <-chan Notification {
	return s.notify
}

func (s *Session) State() State {
	return State(s.state.Get())
}

func (s *Session) stopped() bool {
	st := s.State()
	return st == StateStopping || st == StateStopped
}

// Get reads current configuration values by name; with no names it returns
// them all. Filename and position reflect any tail-resolution rewrite.
func (s *Session) Get(names ...string) map[string]interface{} {
	s.mu.Lock()
	all := map[string]interface{}{
		"serverId":   s.cfg.ServerId,
		"filename":   s.cfg.Filename,
		"position":   s.cfg.Position,
		"startAtEnd": s.cfg.StartAtEnd,
		"checksum":   s.checksum,
	}
	s.mu.Unlock()
	if len(names) == 0 {
		return all
	}
	out := make(map[string]interface{}, len(names))
	for _, n := range names {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	return out
}

// Start opens the connection pair, runs checksum negotiation and, when
// requested, tail-position resolution, then hands the stream side to the
// decoder and begins forwarding events. A Stop arriving anywhere in this
// sequence makes Start settle with a nil error and no Ready signal.
// Starting an already-started session is an error.
func (s *Session) Start(ctx context.Context) error {
	if s.stopped() {
		return nil
	}
	if !s.state.CompareAndSwap(int32(StateCreated), int32(StateNegotiating)) {
		if s.stopped() {
			return nil
		}
		return ErrStarted
	}
	log.Infof("session start: server id %d, addr %s", s.cfg.ServerId, s.cfg.Addr)

	conns, err := openPair(s.dialer, s.cfg.Addr, s.cfg.User, s.cfg.Password, s.external)
	if err != nil {
		return s.failStart(ctx, &ConnectionError{Err: err})
	}
	s.mu.Lock()
	if s.stopped() {
		s.mu.Unlock()
		conns.close()
		return nil
	}
	s.conns = conns
	s.mu.Unlock()

	// Both negotiation legs query the control connection, which carries one
	// in-flight query at a time, so they run back to back. The stopped
	// guard is re-checked after every round trip.
	checksum, err := negotiateChecksum(conns.control, conns.stream)
	if s.stopped() {
		return nil
	}
	if err != nil {
		return s.failStart(ctx, err)
	}
	s.mu.Lock()
	s.checksum = checksum
	s.mu.Unlock()

	if s.cfg.StartAtEnd {
		pos, err := resolveTailPosition(conns.control)
		if s.stopped() {
			return nil
		}
		if err != nil {
			return s.failStart(ctx, err)
		}
		if pos != nil {
			s.mu.Lock()
			s.cfg.Filename = pos.Name
			s.cfg.Position = pos.Pos
			s.mu.Unlock()
		}
	}

	dec := s.decoder
	if dec == nil {
		var derr error
		dec, derr = NewSyncerDecoder(s.cfg)
		if derr != nil {
			return s.failStart(ctx, &NegotiationError{Op: "decoder", Err: derr})
		}
	}
	s.mu.Lock()
	pos := mysql.Position{Name: s.cfg.Filename, Pos: s.cfg.Position}
	s.mu.Unlock()
	es, err := dec.StartSync(pos, checksum)
	if err != nil {
		return s.failStart(ctx, &ConnectionError{Err: err})
	}

	s.mu.Lock()
	if s.stopped() {
		s.mu.Unlock()
		dec.Close()
		return nil
	}
	s.decoder = dec
	pctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.pumpDone = make(chan struct{})
	s.state.Set(int32(StateStreaming))
	go s.pump(pctx, es, pos, conns.control)
	s.mu.Unlock()
	log.Infof("session streaming from %s:%d, checksum=%v", pos.Name, pos.Pos, checksum)
	return nil
}

// Stop tears the session down from any state. It is idempotent, never
// fails outward, and always ends with one Stopped notification followed by
// the channel closing.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped() {
		s.mu.Unlock()
		return
	}
	s.state.Set(int32(StateStopping))
	cancel := s.cancel
	conns := s.conns
	dec := s.decoder
	pumpDone := s.pumpDone
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if dec != nil {
		dec.Close()
	}
	if conns != nil {
		conns.close()
	}
	if pumpDone != nil {
		<-pumpDone
	}
	s.state.Set(int32(StateStopped))
	log.Infof("session stopped: server id %d", s.cfg.ServerId)
	// the lock keeps the close ordered after any fault emit from a Start
	// that lost the race
	s.mu.Lock()
	s.notify <- Stopped{}
	close(s.notify)
	s.mu.Unlock()
}

// Pause suspends event forwarding. Backpressure only: SessionState is
// unchanged and events keep buffering up to the channel capacity.
func (s *Session) Pause() {
	if s.stopped() {
		return
	}
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	if s.pauseCh == nil {
		s.pauseCh = make(chan struct{})
	}
}

// Resume releases a previous Pause.
func (s *Session) Resume() {
	if s.stopped() {
		return
	}
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	if s.pauseCh != nil {
		close(s.pauseCh)
		s.pauseCh = nil
	}
}

func (s *Session) pauseGate() chan struct{} {
	s.pauseMu.Lock()
	defer s.pauseMu.Unlock()
	return s.pauseCh
}

// failStart settles a failed Start: the fault is forwarded unless a
// concurrent Stop won the race, in which case it is swallowed and Start
// reports nil. The stopped re-check and the emit share the lock with
// Stop's channel close, so the emit can never hit a closed channel.
func (s *Session) failStart(ctx context.Context, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped() {
		return nil
	}
	s.emit(ctx, Fault{Err: err})
	return err
}

func (s *Session) emit(ctx context.Context, n Notification) bool {
	if ctx == nil {
		s.notify <- n
		return true
	}
	select {
	case s.notify <- n:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) pump(ctx context.Context, es EventStream, pos mysql.Position, control Conn) {
	defer close(s.pumpDone)
	select {
	case <-ctx.Done():
		return
	default:
	}
	if !s.emit(ctx, Ready{Position: pos}) {
		return
	}
	for {
		if gate := s.pauseGate(); gate != nil {
			select {
			case <-gate:
			case <-ctx.Done():
				return
			}
		}
		ev, err := es.GetEvent(ctx)
		if err != nil {
			if ctx.Err() != nil || s.stopped() {
				return
			}
			s.emit(ctx, Fault{Err: &ConnectionError{Err: err}})
			return
		}
		s.handleEvent(ctx, ev, control)
	}
}

// handleEvent refreshes table metadata on table-map events, applies the
// filter policy and forwards survivors. Schema filtering runs before any
// metadata lookup so filtered-out tables never pay the catalog query.
func (s *Session) handleEvent(ctx context.Context, ev *replication.BinlogEvent, control Conn) {
	name := filter.EventName(ev.Header.EventType)
	var info *TableInfo
	var skip bool
	var metaErr error
	switch data := ev.Event.(type) {
	case *replication.TableMapEvent:
		schema, table := string(data.Schema), string(data.Table)
		skip = s.flt.SkipSchema(schema, table)
		if !skip {
			info, metaErr = s.tables.Resolve(data.TableID, schema, table, control)
			if metaErr != nil {
				s.emit(ctx, Fault{Err: metaErr})
			}
		}
	case *replication.RowsEvent:
		schema, table := string(data.Table.Schema), string(data.Table.Table)
		skip = s.flt.SkipSchema(schema, table)
		if !skip {
			info = s.tables.Get(data.TableID)
		}
	}
	if skip || s.flt.SkipEvent(name) {
		return
	}
	s.emit(ctx, Binlog{Name: name, Event: ev, Table: info, Err: metaErr})
}
