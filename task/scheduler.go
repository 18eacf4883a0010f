package task

import "sync"

// registry of tasks running on this node, keyed by instance id

var (
	taskMap = make(map[string]*SessionTask, 16)
	mapLock sync.Mutex
)

func StoreTask(t *SessionTask) {
	mapLock.Lock()
	defer mapLock.Unlock()
	taskMap[t.key] = t
}

func RemoveTask(t *SessionTask) {
	mapLock.Lock()
	defer mapLock.Unlock()
	delete(taskMap, t.key)
}

func GetTasks() map[string]*SessionTask {
	mapLock.Lock()
	defer mapLock.Unlock()
	tasks := make(map[string]*SessionTask, len(taskMap))
	for k, v := range taskMap {
		tasks[k] = v
	}
	return tasks
}

func GetTask(id string) *SessionTask {
	mapLock.Lock()
	defer mapLock.Unlock()
	return taskMap[id]
}
