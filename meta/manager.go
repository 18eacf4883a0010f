package meta

import (
	"github.com/siddontang/go-log/log"

	"github.com/gridsx/binflow/store"
)

var db = store.GetDb()

type metaManager struct{}

type InstanceState int

const (
	InstanceCreated = 0
	InstanceRunning = 1
	InstanceStopped = 2
	InstanceDeleted = 7
)

const (
	getInstanceSql = `select id, host, port, username, password, server_id, filename, position, start_at_end, ` +
		`filter_config, state, created, updated FROM instances WHERE state = ?`
	getInstanceByIdSql = `select id, host, port, username, password, server_id, filename, position, start_at_end, ` +
		`filter_config, state, created, updated FROM instances WHERE id = ? AND state != 7`

	updateInstStateSql = `update instances set state = ? where id = ?`
)

func (m *metaManager) GetInstances(state InstanceState) ([]*InstanceInfo, error) {
	rows, err := db.Query(getInstanceSql, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	instances := make([]*InstanceInfo, 0, 4)
	for rows.Next() {
		var inst InstanceInfo
		var startAtEnd int
		scanErr := rows.Scan(&inst.Id, &inst.Host, &inst.Port, &inst.Username, &inst.Password, &inst.ServerId,
			&inst.Filename, &inst.Position, &startAtEnd, &inst.FilterConfig, &inst.State, &inst.Created, &inst.Updated)
		if scanErr != nil {
			log.Errorf("error scan data: %v\n", scanErr)
			continue
		}
		inst.StartAtEnd = startAtEnd != 0
		instances = append(instances, &inst)
	}
	return instances, nil
}

func (m *metaManager) GetInstanceById(id int) (*InstanceInfo, error) {
	row := db.QueryRow(getInstanceByIdSql, id)
	if row == nil {
		return nil, nil
	}
	var inst InstanceInfo
	var startAtEnd int
	scanErr := row.Scan(&inst.Id, &inst.Host, &inst.Port, &inst.Username, &inst.Password, &inst.ServerId,
		&inst.Filename, &inst.Position, &startAtEnd, &inst.FilterConfig, &inst.State, &inst.Created, &inst.Updated)
	if scanErr != nil {
		return nil, nil
	}
	inst.StartAtEnd = startAtEnd != 0
	return &inst, nil
}

func (m *metaManager) UpdateInstanceState(instId int, state int) error {
	a, err := db.Exec(updateInstStateSql, state, instId)
	if err != nil {
		return err
	}
	if r, _ := a.RowsAffected(); r > 0 {
		log.Infof("metaManager.UpdateInstanceState state saved successfully: id: %d, state: %d\n", instId, state)
	}
	return nil
}

var Manager = &metaManager{}
