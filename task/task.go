package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/winjeg/go-commons/log"

	"github.com/gridsx/binflow/config"
	"github.com/gridsx/binflow/meta"
	"github.com/gridsx/binflow/session"
	"github.com/gridsx/binflow/sinker"
)

var logger = log.GetLogger(nil)

// SessionTask binds one stored instance definition to a live session and
// drains its notifications into the configured sinkers.
type SessionTask struct {
	sess    *session.Session
	sinkers []sinker.Sinker
	key     string
	running bool
	lock    sync.Mutex

	statsMu sync.Mutex
	stats   Stats

	Inst *meta.InstanceInfo
}

func NewSessionTask(inst *meta.InstanceInfo, sinkers []sinker.Sinker) (*SessionTask, error) {
	cfg, err := inst.ToSessionConfig(config.GetConf().Session.BufferSize)
	if err != nil {
		return nil, err
	}
	if len(sinkers) == 0 {
		sinkers = []sinker.Sinker{&sinker.LogSinker{}}
	}
	return &SessionTask{
		sess:    session.New(cfg),
		sinkers: sinkers,
		key:     fmt.Sprintf("%d", inst.Id),
		Inst:    inst,
	}, nil
}

// Start registers the task, marks the instance running and brings the
// session up. Starting a task twice is a no-op.
func (t *SessionTask) Start() error {
	t.lock.Lock()
	if t.running {
		t.lock.Unlock()
		logger.Warnf("session task start, already running, task: %d", t.Inst.Id)
		return nil
	}
	if GetTask(t.key) != nil {
		t.lock.Unlock()
		return nil
	}
	StoreTask(t)
	t.running = true
	t.lock.Unlock()

	if err := meta.Manager.UpdateInstanceState(t.Inst.Id, meta.InstanceRunning); err != nil {
		logger.Errorf("error updating instance state: %v", err)
	}
	go t.drain()
	if err := t.sess.Start(context.Background()); err != nil {
		t.Stop()
		return err
	}
	return nil
}

// drain runs until the session closes its channel after Stop.
func (t *SessionTask) drain() {
	for n := range t.sess.Notifications() {
		t.observe(n)
		sinker.Dispatch(t.sinkers, n)
	}
}

// Stop deregisters the task, tears the session down and records the state.
func (t *SessionTask) Stop() {
	t.lock.Lock()
	if !t.running {
		t.lock.Unlock()
		logger.Warnf("session task stop, already stopped, task: %d", t.Inst.Id)
		return
	}
	t.running = false
	t.lock.Unlock()

	RemoveTask(t)
	t.sess.Stop()
	if err := meta.Manager.UpdateInstanceState(t.Inst.Id, meta.InstanceStopped); err != nil {
		logger.Errorf("error updating instance state: %v", err)
	}
}

func (t *SessionTask) Pause() {
	t.sess.Pause()
}

func (t *SessionTask) Resume() {
	t.sess.Resume()
}

func (t *SessionTask) Running() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.running
}

func (t *SessionTask) State() session.State {
	return t.sess.State()
}

func (t *SessionTask) Get(names ...string) map[string]interface{} {
	return t.sess.Get(names...)
}
