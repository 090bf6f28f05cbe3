package config

import (
	"fmt"
	"github.com/ilyakaznacheev/cleanenv"
	"log"
	"sync"
)

type Config struct {
	Env   string `yaml:"env" env-default:"local"`
	Flows struct {
		Dir           string `yaml:"dir" env-default:"flows"`
		DefaultDomain string `yaml:"default_domain" env-default:"Customer_Service"`
	} `yaml:"flows"`
	OpenAI struct {
		ApiKey  string `yaml:"api_key" env:"OPENAI_API_KEY" env-default:""`
		BaseURL string `yaml:"base_url" env-default:""`
		Model   string `yaml:"model" env-default:"gpt-4o-mini"`
	} `yaml:"openai"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:"admin"`
		Password string `yaml:"password" env-default:"pass"`
		Database string `yaml:"database" env-default:""`
	} `yaml:"mongo"`
	Listen struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		BindIP  string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port    string `yaml:"port" env-default:"9200"`
		ApiKey  string `yaml:"key" env-default:""`
	} `yaml:"listen"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
