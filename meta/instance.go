package meta

import (
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/gridsx/binflow/common"
	"github.com/gridsx/binflow/filter"
	"github.com/gridsx/binflow/session"
)

// InstanceInfo is one stored session definition: where to connect, which
// identity to announce, where to resume, and the filter policy JSON. The
// resume coordinates are configuration input only; running sessions never
// write positions back.
type InstanceInfo struct {
	Id           int       `json:"id"`
	State        int       `json:"state"`
	ServerId     uint32    `json:"serverId"`
	Filename     string    `json:"filename"`
	Position     uint32    `json:"position"`
	StartAtEnd   bool      `json:"startAtEnd"`
	FilterConfig string    `json:"filterConfig"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	common.MySQLInstance
}

func (i *InstanceInfo) ToFilter() (*filter.Filter, error) {
	if len(i.FilterConfig) == 0 {
		return nil, nil
	}
	cfg := new(filter.Config)
	if err := json.Unmarshal([]byte(i.FilterConfig), cfg); err != nil {
		return nil, fmt.Errorf("bad filter config for instance %d: %w", i.Id, err)
	}
	return cfg.ToFilter(), nil
}

func (i *InstanceInfo) ToSessionConfig(bufferSize int) (session.Config, error) {
	cfg := session.Config{
		Addr:       i.Addr(),
		User:       i.Username,
		Password:   i.Password,
		ServerId:   i.ServerId,
		Filename:   i.Filename,
		Position:   i.Position,
		StartAtEnd: i.StartAtEnd,
		BufferSize: bufferSize,
	}
	f, err := i.ToFilter()
	if err != nil {
		return cfg, err
	}
	cfg.Filter = f
	return cfg, nil
}
