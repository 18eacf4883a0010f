package server

import (
	"fmt"

	"github.com/gridsx/binflow/meta"
	"github.com/gridsx/binflow/task"
	"github.com/kataras/iris/v12"
	"github.com/siddontang/go-log/log"
	"github.com/winjeg/irisword/ret"
)

func sessionList(ctx iris.Context) {
	tasks := task.GetTasks()
	result := make(map[string]interface{}, len(tasks))
	for k, t := range tasks {
		result[k] = map[string]interface{}{
			"state": t.State().String(),
			"stats": t.Stats(),
		}
	}
	ret.Ok(ctx, result)
}

func sessionDetail(ctx iris.Context) {
	id := ctx.URLParam("id")
	t := task.GetTask(id)
	if t == nil {
		ret.BadRequest(ctx, "session doesn't exist")
		return
	}
	result := make(map[string]interface{}, 4)
	result["instance"] = t.Inst
	result["state"] = t.State().String()
	result["running"] = t.Running()
	result["stats"] = t.Stats()
	result["config"] = t.Get()
	ret.Ok(ctx, result)
}

func startSession(ctx iris.Context) {
	instId, _ := ctx.URLParamInt("id")

	if task.GetTask(fmt.Sprintf("%d", instId)) != nil {
		ret.Ok(ctx, "session already started")
		return
	}

	inst, err := meta.Manager.GetInstanceById(instId)
	if inst == nil {
		ret.Ok(ctx, "session not found.")
		return
	}
	if err != nil {
		ret.ServerError(ctx, err.Error())
		return
	}
	t, err := task.NewSessionTask(inst, nil)
	if err != nil {
		ret.BadRequest(ctx, err.Error())
		return
	}
	go func(t *task.SessionTask) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("session task panic: %v\n", err)
			}
		}()
		if stErr := t.Start(); stErr != nil {
			log.Errorf("error starting session task: %v\n", stErr)
		}
	}(t)
	ret.Ok(ctx)
}

func stopSession(ctx iris.Context) {
	id := ctx.URLParam("id")
	t := task.GetTask(id)
	if t == nil {
		ret.NotFound(ctx)
		return
	}
	t.Stop()
	ret.Ok(ctx)
}

func pauseSession(ctx iris.Context) {
	id := ctx.URLParam("id")
	t := task.GetTask(id)
	if t == nil {
		ret.NotFound(ctx)
		return
	}
	t.Pause()
	ret.Ok(ctx)
}

func resumeSession(ctx iris.Context) {
	id := ctx.URLParam("id")
	t := task.GetTask(id)
	if t == nil {
		ret.NotFound(ctx)
		return
	}
	t.Resume()
	ret.Ok(ctx)
}
