package config

import (
	config "github.com/winjeg/go-commons/conf"
	"sync"
)

var (
	once sync.Once
	conf *Config
)

func GetConf() *Config {
	if conf != nil {
		return conf
	} else {
		once.Do(getConf)
	}
	return conf
}

type MysqlConfig struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Username string `json:"username" yaml:"username"`
	Password string `json:"password" yaml:"password"`
	Database string `json:"database,omitempty" yaml:"database"`
}

type ServerConfig struct {
	Port int `json:"port" yaml:"port"`
}

// SessionConfig defaults applied to every binlog session this node runs.
type SessionConfig struct {
	// notification channel buffer, 0 means the built-in default
	BufferSize int `json:"bufferSize" yaml:"bufferSize"`
}

type Config struct {
	Mysql   MysqlConfig   `json:"mysql" yaml:"mysql"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Session SessionConfig `json:"session" yaml:"session"`
}

const configFile = "conf.yaml"

func getConf() {
	conf = new(Config)
	err := config.Yaml2Object(configFile, &conf)
	if err != nil {
		panic(err)
	}
}
