package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
)

// EventStream is the sequence of decoded replication events produced by a
// running Decoder.
type EventStream interface {
	GetEvent(ctx context.Context) (*replication.BinlogEvent, error)
}

// Decoder is the external binlog stream decoder: it consumes the raw
// replication protocol and produces typed, decoded events. The checksum
// flag tells it whether events carry a trailing checksum to strip.
type Decoder interface {
	StartSync(pos mysql.Position, checksum bool) (EventStream, error)
	Close()
}

// syncerDecoder drives replication through go-mysql's BinlogSyncer, which
// registers as a replica and decodes events off its own wire connection.
type syncerDecoder struct {
	cfg    replication.BinlogSyncerConfig
	syncer *replication.BinlogSyncer
}

// NewSyncerDecoder builds the production decoder for a session config.
func NewSyncerDecoder(cfg Config) (Decoder, error) {
	host, port, err := splitAddr(cfg.Addr)
	if err != nil {
		return nil, err
	}
	return &syncerDecoder{cfg: replication.BinlogSyncerConfig{
		ServerID: cfg.ServerId,
		Flavor:   "mysql",
		Host:     host,
		Port:     port,
		User:     cfg.User,
		Password: cfg.Password,
	}}, nil
}

func (d *syncerDecoder) StartSync(pos mysql.Position, checksum bool) (EventStream, error) {
	cfg := d.cfg
	cfg.VerifyChecksum = checksum
	d.syncer = replication.NewBinlogSyncer(cfg)
	streamer, err := d.syncer.StartSync(pos)
	if err != nil {
		d.syncer.Close()
		return nil, err
	}
	return streamer, nil
}

func (d *syncerDecoder) Close() {
	if d.syncer != nil {
		d.syncer.Close()
	}
}

func splitAddr(addr string) (string, uint16, error) {
	seps := strings.Split(addr, ":")
	if len(seps) != 2 {
		return "", 0, fmt.Errorf("address %q must have <host>:<port> shape", addr)
	}
	port, err := strconv.ParseUint(seps[1], 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", seps[1], err)
	}
	return seps[0], uint16(port), nil
}
