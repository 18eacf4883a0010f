package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/siddontang/go-log/log"

	"github.com/gridsx/binflow/meta"
	"github.com/gridsx/binflow/server"
	"github.com/gridsx/binflow/task"
)

func main() {

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, os.Kill)

	resumeRunning()
	server.Serve()
	select {
	case sig := <-c:
		fmt.Printf("Got %s signal. Aborting...", sig)
	}
}

// resumeRunning relaunches the sessions that were marked running when this
// node last went down.
func resumeRunning() {
	instances, err := meta.Manager.GetInstances(meta.InstanceRunning)
	if err != nil {
		log.Errorf("error loading running instances: %v\n", err)
		return
	}
	for _, inst := range instances {
		t, err := task.NewSessionTask(inst, nil)
		if err != nil {
			log.Errorf("error building session task %d: %v\n", inst.Id, err)
			continue
		}
		go func(t *task.SessionTask) {
			if err := t.Start(); err != nil {
				log.Errorf("error starting session task: %v\n", err)
			}
		}(t)
	}
}
