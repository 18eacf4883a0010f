package session

import (
	"errors"
	"testing"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumDisabled(t *testing.T) {
	s := &script{checksum: "NONE"}
	control, stream := s.controlConn(t), s.streamConn(t)

	enabled, err := negotiateChecksum(control, stream)
	require.NoError(t, err)
	assert.False(t, enabled)

	// checksum off still touches the stream connection, but never with the
	// adopt statement
	assert.Equal(t, []string{checksumNoopStmt}, stream.executed())
}

func TestChecksumEnabled(t *testing.T) {
	s := &script{checksum: "CRC32"}
	control, stream := s.controlConn(t), s.streamConn(t)

	enabled, err := negotiateChecksum(control, stream)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, []string{adoptChecksumStmt}, stream.executed())
}

func TestChecksumUnknownVariable(t *testing.T) {
	s := &script{checksumErr: mysql.NewError(errUnknownSystemVariable, "Unknown system variable 'binlog_checksum'")}
	control, stream := s.controlConn(t), s.streamConn(t)

	enabled, err := negotiateChecksum(control, stream)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, []string{checksumNoopStmt}, stream.executed())
}

func TestChecksumQueryFailure(t *testing.T) {
	s := &script{checksumErr: errors.New("server has gone away")}
	control, stream := s.controlConn(t), s.streamConn(t)

	_, err := negotiateChecksum(control, stream)
	var nerr *NegotiationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "checksum", nerr.Op)
	assert.Empty(t, stream.executed())
}

func TestChecksumAdoptFailure(t *testing.T) {
	s := &script{checksum: "CRC32"}
	control := s.controlConn(t)
	stream := &fakeConn{handle: func(query string, args ...interface{}) (*mysql.Result, error) {
		return nil, errors.New("broken pipe")
	}}

	_, err := negotiateChecksum(control, stream)
	var nerr *NegotiationError
	require.ErrorAs(t, err, &nerr)
}
