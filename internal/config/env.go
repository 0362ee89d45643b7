package config

import (
	"os"
	"strconv"
	"time"
)

// envVars maps environment variables to config field setters.
var envVars = []struct {
	name     string
	required bool
	apply    func(*Config, string) error
}{
	{
		name:     "IMAGE_NAME",
		required: true,
		apply: func(c *Config, v string) error {
			c.ImageName = v
			return nil
		},
	},
	{
		name:     "CONTAINER_NAME",
		required: true,
		apply: func(c *Config, v string) error {
			c.ContainerName = v
			return nil
		},
	},
	{
		name:     "CONTAINER_VIRTUAL_HOST",
		required: true,
		apply: func(c *Config, v string) error {
			c.VirtualHost = v
			return nil
		},
	},
	{
		name: "CONTAINER_LETSENCRYPT_HOST",
		apply: func(c *Config, v string) error {
			c.LetsEncryptHost = v
			return nil
		},
	},
	{
		name: "NETWORK",
		apply: func(c *Config, v string) error {
			c.Network = v
			return nil
		},
	},
	{
		name:     "PORT",
		required: true,
		apply: func(c *Config, v string) (err error) {
			c.Port, err = parsePort(v)
			return err
		},
	},
	{
		name: "DEBUG",
		apply: func(c *Config, v string) (err error) {
			c.Debug, err = strconv.ParseBool(v)
			return err
		},
	},
	{
		name:     "UUID",
		required: true,
		apply: func(c *Config, v string) error {
			c.Secret = v
			return nil
		},
	},
	{
		name: "SOURCE_REPO_URL",
		apply: func(c *Config, v string) error {
			c.SourceRepoURL = v
			return nil
		},
	},
	{
		name: "CALLBACK_CONTEXT",
		apply: func(c *Config, v string) error {
			c.CallbackContext = v
			return nil
		},
	},
	{
		name: "PULL_TIMEOUT",
		apply: func(c *Config, v string) (err error) {
			c.PullTimeout, err = time.ParseDuration(v)
			return err
		},
	},
	{
		name: "RUN_TIMEOUT",
		apply: func(c *Config, v string) (err error) {
			c.RunTimeout, err = time.ParseDuration(v)
			return err
		},
	},
	{
		name: "CALLBACK_TIMEOUT",
		apply: func(c *Config, v string) (err error) {
			c.CallbackTimeout, err = time.ParseDuration(v)
			return err
		},
	},
}

func lookupEnv(name string) string {
	return os.Getenv(name)
}
