package server

import (
	"fmt"
	"github.com/gridsx/binflow/config"
	"github.com/kataras/iris/v12"
	"github.com/siddontang/go-log/log"
)

var conf = config.GetConf()

func Serve() {
	app := iris.New()

	api := app.Party("/api")
	{
		api.Get("/sessions", sessionList)
		api.Get("/session", sessionDetail)
		api.Get("/session/start", startSession)
		api.Get("/session/stop", stopSession)
		api.Get("/session/pause", pauseSession)
		api.Get("/session/resume", resumeSession)
	}

	err := app.Listen(fmt.Sprintf(":%d", conf.Server.Port))
	if err != nil {
		log.Errorf("Serve error :%v\n", err)
	}
}
